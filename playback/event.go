package playback

import (
	"encoding/json"
	"math"

	"github.com/samber/mo"
)

// Range is a seekable window in seconds.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Event is the payload delivered to every registered callback.
// CurrentTime, SeekableRange and Duration are None when the controller cannot report them.
type Event struct {
	Type          EventType
	CurrentTime   mo.Option[float64]
	SeekableRange mo.Option[Range]
	Duration      mo.Option[float64]
	URL           string
	MimeType      string
	State         State

	// ErrorMessage is only set on EventError.
	ErrorMessage string
}

// Record is the JSON shape of an Event. Undefined values are null; an infinite
// duration is reported through DurationInfinite since JSON has no infinity.
type Record struct {
	Type             EventType `json:"type"`
	CurrentTime      *float64  `json:"currentTime"`
	SeekableRange    *Range    `json:"seekableRange"`
	Duration         *float64  `json:"duration"`
	DurationInfinite bool      `json:"durationInfinite,omitempty"`
	URL              string    `json:"url"`
	MimeType         string    `json:"mimeType"`
	State            State     `json:"state"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
}

// Record flattens the event for serialization.
func (e Event) Record() Record {
	r := Record{
		Type:          e.Type,
		CurrentTime:   e.CurrentTime.ToPointer(),
		SeekableRange: e.SeekableRange.ToPointer(),
		URL:           e.URL,
		MimeType:      e.MimeType,
		State:         e.State,
		ErrorMessage:  e.ErrorMessage,
	}

	if d, ok := e.Duration.Get(); ok {
		if math.IsInf(d, 1) {
			r.DurationInfinite = true
		} else {
			r.Duration = &d
		}
	}
	return r
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}
