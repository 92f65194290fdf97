package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/anisan-cli/vigil/log"
	logrus "github.com/sirupsen/logrus"
)

// observed are the properties whose changes drive native element events.
var observed = []string{
	"time-pos",
	"pause",
	"seeking",
	"eof-reached",
	"paused-for-cache",
	"duration",
}

// listener keeps one persistent connection on which it observes properties and reads events.
// mpv only sends property-change notifications to the connection that asked for them.
type listener struct {
	socketPath string
	handle     func(ipcMessage)

	mu   sync.Mutex
	conn net.Conn
}

func newListener(socketPath string, handle func(ipcMessage)) *listener {
	return &listener{
		socketPath: socketPath,
		handle:     handle,
	}
}

func (l *listener) start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return nil
	}

	conn, err := net.Dial("unix", l.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, requestIDs.Add(1), []any{"observe_property", i + 1, name}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	l.conn = conn
	go l.readLoop(conn)

	log.WithFields(logrus.Fields{
		"socket":   l.socketPath,
		"observed": observed,
	}).Info("mpv event listener started")
	return nil
}

// stop closes the connection; the read loop exits on its own. Waiting for it here could block
// behind a handler that is itself waiting for the owner's goroutine.
func (l *listener) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}
}

func (l *listener) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		// command replies carry no event
		if msg.Event == "" {
			continue
		}
		l.handle(msg)
	}

	if err := scanner.Err(); err != nil {
		log.Debugf("mpv event listener stopped: %v", err)
	}
}
