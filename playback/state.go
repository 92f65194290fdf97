package playback

// State is the lifecycle stage of a controller.
type State string

const (
	StateEmpty     State = "EMPTY"
	StateStopped   State = "STOPPED"
	StateBuffering State = "BUFFERING"
	StatePlaying   State = "PLAYING"
	StatePaused    State = "PAUSED"
	StateComplete  State = "COMPLETE"
	StateError     State = "ERROR"
)

// States lists every declared state.
func States() []State {
	return []State{StateEmpty, StateStopped, StateBuffering, StatePlaying, StatePaused, StateComplete, StateError}
}

func (s State) String() string {
	return string(s)
}

// MediaType describes the bound media.
type MediaType string

const (
	MediaTypeVideo     MediaType = "video"
	MediaTypeAudio     MediaType = "audio"
	MediaTypeLiveVideo MediaType = "live-video"
	MediaTypeLiveAudio MediaType = "live-audio"
)

// ParseMediaType accepts the string form of a MediaType.
func ParseMediaType(s string) (MediaType, bool) {
	switch t := MediaType(s); t {
	case MediaTypeVideo, MediaTypeAudio, MediaTypeLiveVideo, MediaTypeLiveAudio:
		return t, true
	default:
		return "", false
	}
}

// IsLive reports whether the media has no fixed end.
func (t MediaType) IsLive() bool {
	return t == MediaTypeLiveVideo || t == MediaTypeLiveAudio
}

// IsAudio reports whether the media has no picture.
func (t MediaType) IsAudio() bool {
	return t == MediaTypeAudio || t == MediaTypeLiveAudio
}

// EventType identifies an emitted notification.
type EventType string

const (
	EventStopped   EventType = "stopped"
	EventBuffering EventType = "buffering"
	EventPlaying   EventType = "playing"
	EventPaused    EventType = "paused"
	EventComplete  EventType = "complete"
	EventError     EventType = "error"
	EventStatus    EventType = "status"

	EventSentinelEnterBuffering EventType = "sentinel-enter-buffering"
	EventSentinelExitBuffering  EventType = "sentinel-exit-buffering"
	EventSentinelPause          EventType = "sentinel-pause"
	EventSentinelPauseFailure   EventType = "sentinel-pause-failure"
	EventSentinelSeek           EventType = "sentinel-seek"
	EventSentinelSeekFailure    EventType = "sentinel-seek-failure"
	EventSentinelComplete       EventType = "sentinel-complete"
)

// EventTypes lists every event type in declaration order.
func EventTypes() []EventType {
	return []EventType{
		EventStopped, EventBuffering, EventPlaying, EventPaused, EventComplete, EventError, EventStatus,
		EventSentinelEnterBuffering, EventSentinelExitBuffering,
		EventSentinelPause, EventSentinelPauseFailure,
		EventSentinelSeek, EventSentinelSeekFailure,
		EventSentinelComplete,
	}
}

// IsSentinel reports whether the event was raised by the sentinel monitor.
func (t EventType) IsSentinel() bool {
	switch t {
	case EventSentinelEnterBuffering, EventSentinelExitBuffering,
		EventSentinelPause, EventSentinelPauseFailure,
		EventSentinelSeek, EventSentinelSeekFailure,
		EventSentinelComplete:
		return true
	default:
		return false
	}
}
