// Package playback drives a native media element through a strict playback state machine.
//
// A Controller exposes a synchronous API over an element that reports progress asynchronously and
// often unreliably. The Player implementation validates every call against the current state, turns
// native element callbacks into transitions, and runs a sentinel monitor that notices when the
// element diverges from what was asked of it (stalls, ignored pauses, lost seeks, a missing end) and
// corrects it with a bounded number of retries.
//
// A controller is not safe for concurrent use. Every call, native callback and sentinel tick must
// run on one goroutine; see package loop.
package playback

import (
	"math"

	"github.com/anisan-cli/vigil/element"
	"github.com/anisan-cli/vigil/log"
	"github.com/anisan-cli/vigil/util"
	"github.com/samber/mo"
)

// currentTimeTolerance is the distance under which a playFrom target counts as the current position.
const currentTimeTolerance = 1.0

// Controller is the public playback contract.
type Controller interface {
	SetSource(mediaType MediaType, url, mimeType string) error
	PlayFrom(seconds float64) error
	BeginPlayback() error
	BeginPlaybackFrom(seconds float64) error
	Pause() error
	Resume() error
	Stop() error
	Reset() error

	GetSource() string
	GetMimeType() string
	GetCurrentTime() mo.Option[float64]
	GetDuration() mo.Option[float64]
	GetSeekableRange() mo.Option[Range]
	GetState() State
	GetPlayerElement() element.Media

	AddEventCallback(owner any, fn Callback) CallbackID
	RemoveEventCallback(owner any, id CallbackID)
	RemoveAllEventCallbacks()
}

// measurer is what the shared controller logic needs from a concrete implementation.
type measurer interface {
	GetCurrentTime() mo.Option[float64]
	GetSeekableRange() mo.Option[Range]
	mediaDuration() mo.Option[float64]
}

// controller holds the state and bookkeeping common to every Controller implementation.
type controller struct {
	impl measurer

	state     State
	mediaType MediaType
	source    string
	mimeType  string

	clampOffset float64
	callbacks   callbackManager
}

func (c *controller) GetState() State {
	return c.state
}

func (c *controller) GetSource() string {
	return c.source
}

func (c *controller) GetMimeType() string {
	return c.mimeType
}

// GetDuration is None while stopped or failed, infinite for live media, and otherwise the
// duration measured by the element.
func (c *controller) GetDuration() mo.Option[float64] {
	switch c.state {
	case StateStopped, StateError:
		return mo.None[float64]()
	}
	if c.isLiveMedia() {
		return mo.Some(math.Inf(1))
	}
	return c.impl.mediaDuration()
}

func (c *controller) AddEventCallback(owner any, fn Callback) CallbackID {
	return c.callbacks.add(owner, fn)
}

func (c *controller) RemoveEventCallback(owner any, id CallbackID) {
	c.callbacks.remove(owner, id)
}

func (c *controller) RemoveAllEventCallbacks() {
	c.callbacks.removeAll()
}

func (c *controller) isLiveMedia() bool {
	return c.mediaType.IsLive()
}

// getClampedTime keeps seconds inside the seekable range, stopping clampOffset short of its end
// so that playback started "at the end" still has media left to complete naturally.
func (c *controller) getClampedTime(seconds float64) float64 {
	r, ok := c.impl.GetSeekableRange().Get()
	if !ok {
		return seconds
	}
	nearToEnd := math.Max(r.End-c.clampOffset, r.Start)
	return util.Clamp(seconds, r.Start, nearToEnd)
}

func (c *controller) getClampedTimeForPlayFrom(seconds float64) float64 {
	clamped := c.getClampedTime(seconds)
	if clamped != seconds {
		r := c.impl.GetSeekableRange().OrEmpty()
		log.Debugf("playFrom %v clamped to %v - seekable range is { start: %v, end: %v }", seconds, clamped, r.Start, r.End)
	}
	return clamped
}

func (c *controller) isNearToCurrentTime(seconds float64) bool {
	current, ok := c.impl.GetCurrentTime().Get()
	if !ok {
		return false
	}
	return math.Abs(current-c.getClampedTime(seconds)) <= currentTimeTolerance
}

// emitEvent builds a fresh payload from the current observable state and delivers it.
func (c *controller) emitEvent(t EventType, extra ...func(*Event)) {
	ev := Event{
		Type:          t,
		CurrentTime:   c.impl.GetCurrentTime(),
		SeekableRange: c.impl.GetSeekableRange(),
		Duration:      c.GetDuration(),
		URL:           c.source,
		MimeType:      c.mimeType,
		State:         c.state,
	}
	for _, fn := range extra {
		fn(&ev)
	}
	c.callbacks.callAll(ev)
}

func withErrorMessage(msg string) func(*Event) {
	return func(ev *Event) {
		ev.ErrorMessage = msg
	}
}
