package mpv

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anisan-cli/vigil/constant"
	"github.com/anisan-cli/vigil/element"
	"github.com/anisan-cli/vigil/log"
	"github.com/anisan-cli/vigil/where"
	"github.com/samber/mo"
)

const (
	socketWaitDelay = 300 * time.Millisecond
	quitTimeout     = 3 * time.Second
)

// Source is the media resource child of a Media element.
type Source struct {
	element.Listeners

	target   string
	mimeType string
}

func (s *Source) ID() string {
	return s.target
}

// Media is one mpv process acting as a native media element.
// Control methods are called from the owner's goroutine and never block it: process and IPC work
// runs on the element's worker, and properties are updated from mpv events.
type Media struct {
	element.Listeners

	id     string
	kind   element.Kind
	device *Device

	autoplay bool
	preload  string
	source   *Source
	worker   *worker

	// proc is only touched by the worker.
	proc *process

	mu          sync.Mutex
	currentTime float64
	duration    mo.Option[float64]
	paused      bool
	err         mo.Option[element.MediaError]

	// Last values mpv reported. mpv repeats the current value when a property is first
	// observed, so events fire only when a report differs from these.
	reportedPause bool
	seeking       bool
	waiting       bool
}

var _ element.Media = (*Media)(nil)

// launch is what a process start needs, captured on the owner's goroutine.
type launch struct {
	id       string
	kind     element.Kind
	autoplay bool
	preload  string
	source   *Source
}

func (m *Media) launch() launch {
	return launch{
		id:       m.id,
		kind:     m.kind,
		autoplay: m.autoplay,
		preload:  m.preload,
		source:   m.source,
	}
}

func (m *Media) ID() string {
	return m.id
}

func (m *Media) SetAutoplay(autoplay bool) {
	m.autoplay = autoplay
}

func (m *Media) SetPreload(preload string) {
	m.preload = preload
}

// Load starts mpv for the current source, replaces the loaded file, or unloads it when the source was removed.
func (m *Media) Load() {
	if m.source != nil {
		l := m.launch()
		m.run(func() { m.load(l) })
		return
	}
	if m.worker != nil {
		m.run(m.unload)
	}
}

func (m *Media) run(job func()) {
	if m.worker == nil {
		m.worker = newWorker()
	}
	if !m.worker.submit(job) {
		log.Debugf("media element %s is closed, dropping command", m.id)
	}
}

func (m *Media) load(l launch) {
	if m.proc == nil {
		if err := m.start(l); err != nil {
			log.Errorf("start mpv for %s: %v", l.source.target, err)
			m.sourceFailed(l.source)
		}
		return
	}

	m.resetProperties()
	if _, err := m.proc.client.send("loadfile", l.source.target, "replace"); err != nil {
		log.Errorf("load %s: %v", l.source.target, err)
		m.sourceFailed(l.source)
	}
}

func (m *Media) unload() {
	if m.proc == nil {
		return
	}
	m.resetProperties()
	if _, err := m.proc.client.send("stop"); err != nil {
		log.Warnf("unload media: %v", err)
	}
}

func (m *Media) RemoveSource() {
	m.source = nil
}

func (m *Media) Play() {
	m.control(func() { m.setPause(false) })
}

func (m *Media) Pause() {
	m.control(func() { m.setPause(true) })
}

// control queues a command for a loaded element. Without a worker there is nothing to control.
func (m *Media) control(job func()) {
	if m.worker == nil {
		return
	}
	m.run(job)
}

func (m *Media) setPause(pause bool) {
	if m.proc == nil {
		return
	}
	if _, err := m.proc.client.send("set_property", "pause", pause); err != nil {
		log.Warnf("set pause=%v: %v", pause, err)
		return
	}

	m.mu.Lock()
	m.paused = pause
	m.mu.Unlock()
}

func (m *Media) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Media) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

func (m *Media) SetCurrentTime(seconds float64) {
	m.control(func() { m.seek(seconds) })
}

func (m *Media) seek(seconds float64) {
	if m.proc == nil {
		return
	}
	if _, err := m.proc.client.send("seek", seconds, "absolute"); err != nil {
		log.Warnf("seek to %v: %v", seconds, err)
		return
	}

	m.mu.Lock()
	m.currentTime = seconds
	m.mu.Unlock()
}

func (m *Media) Duration() mo.Option[float64] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// Seekable reports the whole file once its duration is known. Streams without a duration have no range.
func (m *Media) Seekable() []element.TimeRange {
	d, ok := m.Duration().Get()
	if !ok || d <= 0 {
		return nil
	}
	return []element.TimeRange{{Start: 0, End: d}}
}

func (m *Media) Error() mo.Option[element.MediaError] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Media) resetProperties() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentTime = 0
	m.duration = mo.None[float64]()
	m.err = mo.None[element.MediaError]()
	m.seeking = false
	m.waiting = false
}

// observe applies an mpv message to the cached properties and returns the native events it implies.
func (m *Media) observe(msg ipcMessage) []element.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg.Event {
	case "property-change":
		return m.propertyChanged(msg.Name, msg.Data)

	case "file-loaded":
		return []element.Event{element.EventLoadedMetadata, element.EventCanPlay}

	case "end-file":
		if msg.Reason != "error" {
			return nil
		}
		m.err = mo.Some(element.MediaError{
			Code:    errorCode(msg.FileError),
			Message: msg.FileError,
		})
		return []element.Event{element.EventError}
	}

	return nil
}

func (m *Media) propertyChanged(name string, data any) []element.Event {
	switch name {
	case "time-pos":
		if t, ok := data.(float64); ok {
			m.currentTime = t
			return []element.Event{element.EventTimeUpdate}
		}

	case "pause":
		if paused, ok := data.(bool); ok {
			m.paused = paused
			if paused == m.reportedPause {
				return nil
			}
			m.reportedPause = paused
			if paused {
				return []element.Event{element.EventPause}
			}
			return []element.Event{element.EventPlaying}
		}

	case "seeking":
		if seeking, ok := data.(bool); ok {
			was := m.seeking
			m.seeking = seeking
			if was && !seeking {
				return []element.Event{element.EventSeeked}
			}
		}

	case "eof-reached":
		if eof, ok := data.(bool); ok && eof {
			return []element.Event{element.EventEnded}
		}

	case "paused-for-cache":
		if waiting, ok := data.(bool); ok {
			was := m.waiting
			m.waiting = waiting
			switch {
			case waiting && !was:
				return []element.Event{element.EventWaiting}
			case !waiting && was:
				return []element.Event{element.EventCanPlay}
			}
		}

	case "duration":
		if d, ok := data.(float64); ok {
			m.duration = mo.Some(d)
			return []element.Event{element.EventLoadedMetadata}
		}
		m.duration = mo.None[float64]()
	}

	return nil
}

// handle runs on the listener goroutine and forwards events to the owner's goroutine.
func (m *Media) handle(msg ipcMessage) {
	for _, ev := range m.observe(msg) {
		ev := ev
		m.device.post(func() { m.Dispatch(ev) })
	}
}

func (m *Media) sourceFailed(src *Source) {
	if src != nil {
		m.device.post(func() { src.Dispatch(element.EventError) })
	}
}

func (m *Media) exitedUnexpectedly() {
	m.mu.Lock()
	m.err = mo.Some(element.MediaError{Code: element.MediaErrAborted, Message: "mpv exited"})
	m.mu.Unlock()

	m.device.post(func() { m.Dispatch(element.EventError) })
}

func errorCode(fileError string) int {
	e := strings.ToLower(fileError)
	switch {
	case strings.Contains(e, "loading failed"), strings.Contains(e, "network"):
		return element.MediaErrNetwork
	case strings.Contains(e, "decod"):
		return element.MediaErrDecode
	default:
		return element.MediaErrSrcNotSupported
	}
}

// args builds the mpv command line. The user's mpv.conf is respected: no output or profile flags.
func (l launch) args(socketPath string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socketPath,
		"--idle=yes",
		"--keep-open=yes",
		"--title=" + l.id,
	}

	if !l.autoplay {
		args = append(args, "--pause=yes")
	}

	if l.kind == element.KindAudio {
		args = append(args, "--no-video")
	} else {
		args = append(args, "--force-window=yes")
	}

	if l.preload == "none" {
		args = append(args, "--cache=no")
	}

	return append(args, "--", l.source.target)
}

func (m *Media) start(l launch) error {
	socket, err := newSocketPath()
	if err != nil {
		return err
	}

	cmd := exec.Command(m.device.binary, l.args(socket)...)
	cmd.SysProcAttr = detached()
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.device.binary, err)
	}

	proc := &process{
		cmd:    cmd,
		client: client{socketPath: socket},
		exited: make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(proc.exited)
		if !proc.closing.Load() {
			m.exitedUnexpectedly()
		}
	}()

	if err := proc.waitForSocket(m.device.socketWaitRetries); err != nil {
		proc.closing.Store(true)
		_ = kill(cmd)
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	// The first report of each observed property must compare against what mpv was started with.
	m.mu.Lock()
	m.paused = !l.autoplay
	m.reportedPause = m.paused
	m.seeking = false
	m.waiting = false
	m.mu.Unlock()

	proc.listener = newListener(socket, m.handle)
	if err := proc.listener.start(); err != nil {
		proc.close()
		return err
	}

	m.proc = proc
	return nil
}

// close shuts the process down on the worker. The returned channel is closed once it is gone.
func (m *Media) close() <-chan struct{} {
	if m.worker == nil {
		return closedChan
	}
	return m.worker.finish(m.shutdown)
}

func (m *Media) shutdown() {
	if m.proc == nil {
		return
	}
	m.proc.close()
	m.proc = nil
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

type process struct {
	cmd      *exec.Cmd
	client   client
	listener *listener
	exited   chan struct{}
	closing  atomic.Bool
}

// waitForSocket polls until the IPC socket accepts connections.
func (p *process) waitForSocket(retries int) error {
	for i := 0; i < retries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-p.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", p.client.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", p.client.socketPath, retries)
}

// close asks mpv to quit, kills it when it does not, and removes the socket.
func (p *process) close() {
	p.closing.Store(true)

	if p.listener != nil {
		p.listener.stop()
	}

	_, _ = p.client.send("quit")

	select {
	case <-p.exited:
	case <-time.After(quitTimeout):
		log.Warnf("mpv did not quit in %s, killing it", quitTimeout)
		_ = kill(p.cmd)
	}

	_ = os.Remove(p.client.socketPath)
}

func newSocketPath() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Vigil, b)), nil
}
