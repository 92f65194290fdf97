package session

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/anisan-cli/vigil/color"
	"github.com/anisan-cli/vigil/icon"
	"github.com/anisan-cli/vigil/playback"
	"github.com/anisan-cli/vigil/style"
	"github.com/anisan-cli/vigil/util"
	"github.com/charmbracelet/lipgloss"
)

var eventIcons = map[playback.EventType]icon.Icon{
	playback.EventStopped:   icon.Stop,
	playback.EventBuffering: icon.Buffering,
	playback.EventPlaying:   icon.Play,
	playback.EventPaused:    icon.Pause,
	playback.EventComplete:  icon.Complete,
	playback.EventError:     icon.Fail,
	playback.EventStatus:    icon.Progress,
}

var stateColors = map[playback.State]lipgloss.Color{
	playback.StateEmpty:     color.Gray,
	playback.StateStopped:   color.Gray,
	playback.StateBuffering: color.Blue,
	playback.StatePlaying:   color.Green,
	playback.StatePaused:    color.Yellow,
	playback.StateComplete:  color.Purple,
	playback.StateError:     color.Red,
}

func eventIcon(t playback.EventType) string {
	if t.IsSentinel() {
		return icon.Get(icon.Sentinel)
	}
	return icon.Get(eventIcons[t])
}

// Render formats an event as one styled line.
func Render(ev playback.Event) string {
	var b strings.Builder

	b.WriteString(eventIcon(ev.Type))
	b.WriteString(" ")
	b.WriteString(style.Tag(color.New("0"), stateColors[ev.State])(ev.State.String()))
	b.WriteString(" ")

	name := string(ev.Type)
	if ev.Type.IsSentinel() {
		name = style.Fg(color.Orange)(name)
	} else {
		name = style.Bold(name)
	}
	b.WriteString(name)

	if t, ok := ev.CurrentTime.Get(); ok {
		position := util.FormatSeconds(t)
		if d, ok := ev.Duration.Get(); ok {
			position += " / " + util.FormatSeconds(d)
		}
		b.WriteString(" ")
		b.WriteString(style.Faint(position))
	}

	if ev.ErrorMessage != "" {
		b.WriteString(" ")
		b.WriteString(style.Fg(color.Red)(ev.ErrorMessage))
	}

	return b.String()
}

// Printer writes events and errors for a session. It is safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	json   bool
	raw    bool
	filter Filter

	// pending is set while a status line waits to be overwritten.
	pending bool
}

func NewPrinter(w io.Writer, asJSON bool, filter Filter) *Printer {
	return &Printer{w: w, json: asJSON, filter: filter}
}

// JSON reports whether events are printed as json lines.
func (p *Printer) JSON() bool {
	return p.json
}

// SetRaw switches line endings for a terminal in raw mode.
func (p *Printer) SetRaw(raw bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.raw = raw
}

// Event prints ev if the filter allows it. Styled status lines overwrite each other.
func (p *Printer) Event(ev playback.Event) {
	if !p.filter.Allows(ev.Type) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		p.line(string(data))
		return
	}

	if ev.Type == playback.EventStatus {
		fmt.Fprintf(p.w, "\r\x1b[2K%s", Render(ev))
		p.pending = true
		return
	}
	p.line(Render(ev))
}

// Error prints an error that did not arrive as an event.
func (p *Printer) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		p.line(string(data))
		return
	}
	p.line(RenderError(err))
}

// RenderError formats an error as one styled line.
func RenderError(err error) string {
	return fmt.Sprintf("%s %s", style.Fg(color.Red)(icon.Get(icon.Fail)), err)
}

func (p *Printer) line(s string) {
	if p.pending {
		fmt.Fprint(p.w, "\r\x1b[2K")
		p.pending = false
	}

	end := "\n"
	if p.raw {
		end = "\r\n"
	}
	fmt.Fprint(p.w, s, end)
}
