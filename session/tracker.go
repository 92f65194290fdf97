package session

import (
	"time"

	"github.com/anisan-cli/vigil/log"
	"github.com/anisan-cli/vigil/playback"
	"github.com/anisan-cli/vigil/resume"
	"github.com/samber/mo"
)

// saveEvery throttles position writes during playback.
const saveEvery = 5 * time.Second

// tracker persists the playback position of one source from its events.
type tracker struct {
	url       string
	mediaType playback.MediaType
	lastSave  time.Time
	now       func() time.Time

	// position is the last known time. Stopped events carry none, so it is what a stop saves.
	position, duration mo.Option[float64]
}

func newTracker(url string, mediaType playback.MediaType) *tracker {
	return &tracker{url: url, mediaType: mediaType, now: time.Now}
}

func (t *tracker) observe(ev playback.Event) {
	if ev.CurrentTime.IsPresent() {
		t.position, t.duration = ev.CurrentTime, ev.Duration
	}

	switch ev.Type {
	case playback.EventComplete:
		t.position, t.duration = mo.None[float64](), mo.None[float64]()
		if err := resume.Remove(t.url); err != nil {
			log.Warnf("forget position of %s: %v", t.url, err)
		}

	case playback.EventStatus:
		if t.now().Sub(t.lastSave) < saveEvery {
			return
		}
		t.save()

	case playback.EventPaused, playback.EventStopped:
		t.save()
	}
}

func (t *tracker) save() {
	seconds, ok := t.position.Get()
	if !ok {
		return
	}

	t.lastSave = t.now()
	if err := resume.Save(t.url, string(t.mediaType), seconds, t.duration); err != nil {
		log.Warnf("save position of %s: %v", t.url, err)
	}
}
