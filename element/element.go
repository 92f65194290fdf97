// Package element describes the native media element a playback controller drives and the device
// that creates it. Implementations translate a concrete backend (an mpv process, a fake in tests)
// into the small event and property vocabulary defined here.
package element

import "github.com/samber/mo"

// Kind selects which media element a device creates.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Event is a native element notification.
type Event string

const (
	EventCanPlay        Event = "canplay"
	EventSeeked         Event = "seeked"
	EventPlaying        Event = "playing"
	EventError          Event = "error"
	EventEnded          Event = "ended"
	EventWaiting        Event = "waiting"
	EventTimeUpdate     Event = "timeupdate"
	EventLoadedMetadata Event = "loadedmetadata"
	EventPause          Event = "pause"
)

// ListenerID identifies one listener registration. Removing a listener requires the ID returned when it was added.
type ListenerID uint64

// TimeRange is one contiguous seekable window, in seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// MediaError is the native error reported alongside EventError.
type MediaError struct {
	Code    int
	Message string
}

// Native media error codes.
const (
	MediaErrAborted         = 1
	MediaErrNetwork         = 2
	MediaErrDecode          = 3
	MediaErrSrcNotSupported = 4
)

// Element is a node owned by a Device.
type Element interface {
	ID() string
	AddEventListener(ev Event, fn func()) ListenerID
	RemoveEventListener(id ListenerID)
}

// Media is a playable element.
type Media interface {
	Element

	SetAutoplay(autoplay bool)
	SetPreload(preload string)

	// Load (re)starts resource selection from the current source children.
	Load()
	// RemoveSource detaches the media resource; a following Load releases it.
	RemoveSource()

	Play()
	Pause()
	Paused() bool

	CurrentTime() float64
	SetCurrentTime(seconds float64)

	// Duration is None until the backend knows it.
	Duration() mo.Option[float64]
	Seekable() []TimeRange
	Error() mo.Option[MediaError]
}

// Device creates, attaches and destroys elements.
type Device interface {
	CreateMediaElement(kind Kind, id string) (Media, error)
	CreateSourceElement(url, mimeType string) (Element, error)
	AppendChildElement(parent, child Element) error
	PrependChildElement(parent, child Element) error
	RemoveElement(el Element) error
	TopLevelElement() Element
}
