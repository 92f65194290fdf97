package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is anything mpv writes back: a command reply or an event broadcast.
type ipcMessage struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID int64  `json:"request_id"`
	Event     string `json:"event"`

	// property-change
	ID   int    `json:"id"`
	Name string `json:"name"`

	// end-file
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
}

// ErrPropertyUnavailable is returned while mpv has no value for a property, usually because nothing is loaded.
var ErrPropertyUnavailable = errors.New("property unavailable")

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = time.Second
)

var requestIDs atomic.Int64

// client sends commands over short-lived connections to one socket.
type client struct {
	socketPath string
}

// send runs command with a bounded number of retries for transient connection errors.
func (c client) send(command ...any) (any, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := sendOnce(c.socketPath, command)
		if err == nil {
			return result, nil
		}
		// mpv answered; retrying will not change its mind
		if errors.Is(err, ErrPropertyUnavailable) || errors.As(err, new(*ReplyError)) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// ReplyError is an error reported by mpv for a command.
type ReplyError struct {
	Command string
	Message string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("mpv error: %s: %s", e.Command, e.Message)
}

func sendOnce(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestIDs.Add(1)
	if err := writeCommand(conn, id, command); err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	return readReply(bufio.NewScanner(conn), id, command)
}

func writeCommand(conn net.Conn, id int64, command []any) error {
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// readReply skips event broadcasts until the reply for id arrives.
func readReply(scanner *bufio.Scanner, id int64, command []any) (any, error) {
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		if msg.Event != "" || msg.RequestID != id {
			continue
		}

		switch msg.Error {
		case "", "success":
			return msg.Data, nil
		case ErrPropertyUnavailable.Error():
			return nil, ErrPropertyUnavailable
		default:
			return nil, &ReplyError{Command: fmt.Sprint(command[0]), Message: msg.Error}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, errors.New("read: connection closed before reply")
}
