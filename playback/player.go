package playback

import (
	"fmt"
	"time"

	"github.com/anisan-cli/vigil/element"
	"github.com/anisan-cli/vigil/log"
	"github.com/samber/mo"
)

const (
	onDemandSeekSentinelTolerance = 15.0
	liveSeekSentinelTolerance     = 30.0
)

// Player is the Controller backed by a native media element created through an element.Device.
type Player struct {
	controller

	device    element.Device
	scheduler Scheduler
	interval  time.Duration

	media          element.Media
	sourceElement  element.Element
	mediaListeners []element.ListenerID
	srcListeners   []element.ListenerID

	readyToPlayFrom      bool
	postBufferingState   State
	targetSeekTime       mo.Option[float64]
	ignoreNextPauseEvent bool

	sentinelMonitor
}

var _ Controller = (*Player)(nil)

// New creates a Player in StateEmpty. Elements are created through device; the sentinel monitor
// is scheduled through scheduler.
func New(device element.Device, scheduler Scheduler, opts ...Option) *Player {
	o := newOptions(opts)

	p := &Player{
		device:    device,
		scheduler: scheduler,
		interval:  o.sentinelInterval,
	}
	p.controller = controller{
		impl:        p,
		state:       StateEmpty,
		clampOffset: o.clampOffset,
	}
	p.setSentinelLimits()
	return p
}

// SetSource binds media to the player. It is only valid from StateEmpty.
func (p *Player) SetSource(mediaType MediaType, url, mimeType string) error {
	if p.state != StateEmpty {
		return p.toError("setSource")
	}

	p.trustZeroes = false
	p.ignoreNextPauseEvent = false
	p.mediaType = mediaType
	p.source = url
	p.mimeType = mimeType

	p.setSentinelLimits()
	p.setSeekSentinelTolerance()

	if err := p.createMediaElement(); err != nil {
		p.wipe()
		p.reportError(err.Error())
		return err
	}

	p.toStopped()
	return nil
}

func (p *Player) createMediaElement() error {
	kind, idSuffix := element.KindVideo, "Video"
	if p.mediaType.IsAudio() {
		kind, idSuffix = element.KindAudio, "Audio"
	}

	media, err := p.device.CreateMediaElement(kind, "mediaPlayer"+idSuffix)
	if err != nil {
		return fmt.Errorf("create media element: %w", err)
	}
	p.media = media
	media.SetAutoplay(false)

	handlers := []struct {
		event element.Event
		fn    func()
	}{
		{element.EventCanPlay, p.onFinishedBuffering},
		{element.EventSeeked, p.onSeeked},
		{element.EventPlaying, p.onPlaying},
		{element.EventError, p.onDeviceError},
		{element.EventEnded, p.onEndOfMedia},
		{element.EventWaiting, p.onDeviceBuffering},
		{element.EventTimeUpdate, p.onStatus},
		{element.EventLoadedMetadata, p.onMetadata},
		{element.EventPause, p.onPause},
	}
	for _, h := range handlers {
		p.mediaListeners = append(p.mediaListeners, media.AddEventListener(h.event, h.fn))
	}

	if err := p.device.PrependChildElement(p.device.TopLevelElement(), media); err != nil {
		return fmt.Errorf("attach media element: %w", err)
	}

	src, err := p.device.CreateSourceElement(p.source, p.mimeType)
	if err != nil {
		return fmt.Errorf("create source element: %w", err)
	}
	p.sourceElement = src
	p.srcListeners = append(p.srcListeners, src.AddEventListener(element.EventError, p.onSourceError))

	media.SetPreload("auto")
	if err := p.device.AppendChildElement(media, src); err != nil {
		return fmt.Errorf("attach source element: %w", err)
	}

	media.Load()
	return nil
}

// PlayFrom seeks to seconds and plays. Valid from PAUSED, COMPLETE, BUFFERING and PLAYING.
func (p *Player) PlayFrom(seconds float64) error {
	p.postBufferingState = StatePlaying
	p.targetSeekTime = mo.Some(seconds)
	p.limits.seek.reset()

	switch p.state {
	case StatePaused, StateComplete:
		p.trustZeroes = false
		p.toBuffering()
		p.playFromIfReady()

	case StateBuffering:
		p.trustZeroes = false
		p.playFromIfReady()

	case StatePlaying:
		p.trustZeroes = false
		p.toBuffering()
		target := p.getClampedTimeForPlayFrom(seconds)
		p.targetSeekTime = mo.Some(target)
		if p.isNearToCurrentTime(target) {
			p.targetSeekTime = mo.None[float64]()
			p.toPlaying()
		} else {
			p.playFromIfReady()
		}

	default:
		return p.toError("playFrom")
	}
	return nil
}

// BeginPlayback starts playback from the element's default position. Valid from STOPPED.
func (p *Player) BeginPlayback() error {
	p.postBufferingState = StatePlaying

	switch p.state {
	case StateStopped:
		p.trustZeroes = false
		p.toBuffering()
		p.media.Play()

	default:
		return p.toError("beginPlayback")
	}
	return nil
}

// BeginPlaybackFrom starts playback at seconds once the element can seek. Valid from STOPPED.
func (p *Player) BeginPlaybackFrom(seconds float64) error {
	p.postBufferingState = StatePlaying
	p.targetSeekTime = mo.Some(seconds)
	p.limits.seek.reset()

	switch p.state {
	case StateStopped:
		p.trustZeroes = false
		p.toBuffering()
		p.playFromIfReady()

	default:
		return p.toError("beginPlaybackFrom")
	}
	return nil
}

// Pause pauses playback, or records the intent to pause once buffering finishes.
// In PAUSED it does nothing.
func (p *Player) Pause() error {
	p.postBufferingState = StatePaused

	switch p.state {
	case StatePaused:

	case StateBuffering:
		p.limits.pause.reset()
		// Pausing before the element can seek would restart media from its beginning.
		if p.readyToPlayFrom {
			p.pauseMediaElement()
		}

	case StatePlaying:
		p.limits.pause.reset()
		p.pauseMediaElement()
		p.toPaused()

	default:
		return p.toError("pause")
	}
	return nil
}

// Resume continues paused playback, or records the intent to play once buffering finishes.
// In PLAYING it does nothing.
func (p *Player) Resume() error {
	p.postBufferingState = StatePlaying

	switch p.state {
	case StatePlaying:

	case StateBuffering:
		if p.readyToPlayFrom {
			p.media.Play()
		}

	case StatePaused:
		p.media.Play()
		p.toPlaying()

	default:
		return p.toError("resume")
	}
	return nil
}

// Stop halts playback and keeps the source bound. In STOPPED it does nothing.
func (p *Player) Stop() error {
	switch p.state {
	case StateStopped:

	case StateBuffering, StatePlaying, StatePaused, StateComplete:
		p.pauseMediaElement()
		p.toStopped()

	default:
		return p.toError("stop")
	}
	return nil
}

// Reset tears down the element and unbinds the source. Valid from STOPPED and ERROR;
// in EMPTY it does nothing.
func (p *Player) Reset() error {
	switch p.state {
	case StateEmpty:

	case StateStopped, StateError:
		p.toEmpty()

	default:
		return p.toError("reset")
	}
	return nil
}

// GetCurrentTime reports the element position. None when stopped, failed, or without an element.
func (p *Player) GetCurrentTime() mo.Option[float64] {
	switch p.state {
	case StateStopped, StateError:
		return mo.None[float64]()
	}
	if p.media == nil {
		return mo.None[float64]()
	}
	return mo.Some(p.media.CurrentTime())
}

// GetSeekableRange reports the seekable window. None when stopped, failed, or not yet ready to play from.
func (p *Player) GetSeekableRange() mo.Option[Range] {
	switch p.state {
	case StateStopped, StateError:
		return mo.None[Range]()
	}
	return p.seekableRange()
}

func (p *Player) seekableRange() mo.Option[Range] {
	if p.media == nil || !p.readyToPlayFrom {
		return mo.None[Range]()
	}

	if seekable := p.media.Seekable(); len(seekable) > 0 {
		return mo.Some(Range{Start: seekable[0].Start, End: seekable[0].End})
	}
	if d, ok := p.media.Duration().Get(); ok {
		return mo.Some(Range{Start: 0, End: d})
	}

	log.Warnf("no duration or seekable range on media element %s", p.media.ID())
	return mo.None[Range]()
}

func (p *Player) mediaDuration() mo.Option[float64] {
	if p.media == nil || !p.readyToPlayFrom {
		return mo.None[float64]()
	}
	return p.media.Duration()
}

// GetPlayerElement returns the native element, or nil when no source is bound.
func (p *Player) GetPlayerElement() element.Media {
	if p.media == nil {
		return nil
	}
	return p.media
}

func (p *Player) onFinishedBuffering() {
	p.exitBuffering()
}

func (p *Player) onSeeked() {
	p.exitBuffering()
}

func (p *Player) onPlaying() {
	p.exitBuffering()
}

func (p *Player) onMetadata() {
	p.metadataLoaded()
}

func (p *Player) onPause() {
	if p.ignoreNextPauseEvent {
		p.ignoreNextPauseEvent = false
		return
	}

	switch p.state {
	case StatePlaying, StateBuffering:
		p.toPaused()
	}
}

func (p *Player) onDeviceError() {
	code := 0
	if e, ok := p.media.Error().Get(); ok {
		code = e.Code
	}
	p.reportError(fmt.Sprintf("Media element error code: %d", code))
}

func (p *Player) onSourceError() {
	p.reportError("Media source element error")
}

func (p *Player) onDeviceBuffering() {
	if p.state == StatePlaying {
		p.toBuffering()
	}
}

func (p *Player) onEndOfMedia() {
	switch p.state {
	case StateBuffering, StatePlaying, StatePaused:
		p.toComplete()
	}
}

func (p *Player) onStatus() {
	if p.state == StatePlaying {
		p.emitEvent(EventStatus)
	}
}

func (p *Player) exitBuffering() {
	p.metadataLoaded()
	if p.state != StateBuffering {
		return
	}
	if p.postBufferingState == StatePaused {
		p.toPaused()
	} else {
		p.toPlaying()
	}
}

func (p *Player) metadataLoaded() {
	p.readyToPlayFrom = true
	if p.targetSeekTime.IsPresent() {
		p.deferredPlayFrom()
	}
}

func (p *Player) playFromIfReady() {
	if p.readyToPlayFrom && p.targetSeekTime.IsPresent() {
		p.deferredPlayFrom()
	}
}

func (p *Player) deferredPlayFrom() {
	target := p.targetSeekTime.MustGet()
	p.targetSeekTime = mo.None[float64]()

	p.seekTo(target)
	p.media.Play()
	if p.postBufferingState == StatePaused {
		p.pauseMediaElement()
	}
}

func (p *Player) seekTo(seconds float64) {
	clamped := p.getClampedTimeForPlayFrom(seconds)
	p.media.SetCurrentTime(clamped)
	p.sentinelSeekTime = mo.Some(clamped)
}

func (p *Player) pauseMediaElement() {
	p.media.Pause()
	p.ignoreNextPauseEvent = true
}

func (p *Player) reportError(msg string) {
	log.Error(msg)
	p.emitEvent(EventError, withErrorMessage(msg))
}

func (p *Player) setSeekSentinelTolerance() {
	p.seekSentinelTolerance = onDemandSeekSentinelTolerance
	if p.isLiveMedia() {
		p.seekSentinelTolerance = liveSeekSentinelTolerance
	}
}

func (p *Player) wipe() {
	p.mediaType = ""
	p.source = ""
	p.mimeType = ""
	p.targetSeekTime = mo.None[float64]()
	p.sentinelSeekTime = mo.None[float64]()
	p.clearSentinels()
	p.destroyMediaElement()
	p.readyToPlayFrom = false
}

// destroyMediaElement detaches every listener attached in createMediaElement before the element goes away.
func (p *Player) destroyMediaElement() {
	if p.media == nil {
		return
	}

	for _, id := range p.mediaListeners {
		p.media.RemoveEventListener(id)
	}
	p.mediaListeners = nil

	if p.sourceElement != nil {
		for _, id := range p.srcListeners {
			p.sourceElement.RemoveEventListener(id)
		}
	}
	p.srcListeners = nil

	p.media.RemoveSource()
	p.media.Load()

	if err := p.device.RemoveElement(p.media); err != nil {
		log.Warnf("remove media element %s: %v", p.media.ID(), err)
	}

	p.media = nil
	p.sourceElement = nil
}

func (p *Player) toStopped() {
	p.state = StateStopped
	p.emitEvent(EventStopped)
	p.setSentinels(nil)
}

func (p *Player) toBuffering() {
	p.state = StateBuffering
	p.emitEvent(EventBuffering)
	p.setSentinels([]sentinel{(*Player).exitBufferingSentinel})
}

func (p *Player) toPlaying() {
	p.state = StatePlaying
	p.emitEvent(EventPlaying)
	p.setSentinels([]sentinel{
		(*Player).endOfMediaSentinel,
		(*Player).shouldBeSeekedSentinel,
		(*Player).enterBufferingSentinel,
	})
}

func (p *Player) toPaused() {
	p.state = StatePaused
	p.emitEvent(EventPaused)
	p.setSentinels([]sentinel{
		(*Player).shouldBeSeekedSentinel,
		(*Player).shouldBePausedSentinel,
	})
}

func (p *Player) toComplete() {
	p.state = StateComplete
	p.emitEvent(EventComplete)
	p.setSentinels(nil)
}

func (p *Player) toEmpty() {
	p.wipe()
	p.state = StateEmpty
}

// toError handles a protocol violation: the player is wiped, moved to StateError, an error event
// is emitted and the returned error must be passed back to the caller.
func (p *Player) toError(op string) error {
	from := p.state
	err := newProtocolError(op, from)

	p.wipe()
	p.state = StateError
	p.reportError(err.Message)
	return err
}
