package playback

import (
	"time"

	"github.com/anisan-cli/vigil/element"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type fakeElement struct {
	element.Listeners
	id string
}

func (e *fakeElement) ID() string {
	return e.id
}

type fakeMedia struct {
	fakeElement

	kind     element.Kind
	autoplay bool
	preload  string

	loads         int
	sourceRemoved bool
	plays         int
	pauses        int
	paused        bool
	seeks         []float64

	currentTime float64
	duration    mo.Option[float64]
	seekable    []element.TimeRange
	err         mo.Option[element.MediaError]

	// ignoreSeeks and ignorePause make the element misbehave the way the sentinels expect.
	ignoreSeeks bool
	ignorePause bool
}

func (m *fakeMedia) SetAutoplay(autoplay bool) { m.autoplay = autoplay }
func (m *fakeMedia) SetPreload(preload string) { m.preload = preload }
func (m *fakeMedia) Load()                     { m.loads++ }
func (m *fakeMedia) RemoveSource()             { m.sourceRemoved = true }

func (m *fakeMedia) Play() {
	m.plays++
	m.paused = false
}

func (m *fakeMedia) Pause() {
	m.pauses++
	if !m.ignorePause {
		m.paused = true
	}
}

func (m *fakeMedia) Paused() bool          { return m.paused }
func (m *fakeMedia) CurrentTime() float64 { return m.currentTime }

func (m *fakeMedia) SetCurrentTime(seconds float64) {
	m.seeks = append(m.seeks, seconds)
	if !m.ignoreSeeks {
		m.currentTime = seconds
	}
}

func (m *fakeMedia) Duration() mo.Option[float64]         { return m.duration }
func (m *fakeMedia) Seekable() []element.TimeRange        { return m.seekable }
func (m *fakeMedia) Error() mo.Option[element.MediaError] { return m.err }

type fakeDevice struct {
	top     *fakeElement
	media   *fakeMedia
	source  *fakeElement
	removed []element.Element

	// prepare configures each freshly created media element.
	prepare   func(*fakeMedia)
	createErr error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{top: &fakeElement{id: "app"}}
}

func (d *fakeDevice) CreateMediaElement(kind element.Kind, id string) (element.Media, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.media = &fakeMedia{
		fakeElement: fakeElement{id: id},
		kind:        kind,
		duration:    mo.None[float64](),
	}
	if d.prepare != nil {
		d.prepare(d.media)
	}
	return d.media, nil
}

func (d *fakeDevice) CreateSourceElement(url, mimeType string) (element.Element, error) {
	d.source = &fakeElement{id: url}
	return d.source, nil
}

func (d *fakeDevice) AppendChildElement(parent, child element.Element) error  { return nil }
func (d *fakeDevice) PrependChildElement(parent, child element.Element) error { return nil }

func (d *fakeDevice) RemoveElement(el element.Element) error {
	d.removed = append(d.removed, el)
	return nil
}

func (d *fakeDevice) TopLevelElement() element.Element {
	return d.top
}

type fakeTask struct {
	interval  time.Duration
	fn        func()
	cancelled bool
}

// fakeScheduler runs ticks only when the test asks for them.
type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) func() {
	t := &fakeTask{interval: interval, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) active() []*fakeTask {
	return lo.Filter(s.tasks, func(t *fakeTask, _ int) bool {
		return !t.cancelled
	})
}

// tick fires every task that is active when the tick starts.
func (s *fakeScheduler) tick() {
	for _, t := range s.active() {
		if !t.cancelled {
			t.fn()
		}
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) record(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) types() []EventType {
	return lo.Map(r.events, func(ev Event, _ int) EventType {
		return ev.Type
	})
}

func (r *recorder) count(t EventType) int {
	return lo.CountBy(r.events, func(ev Event) bool {
		return ev.Type == t
	})
}

func (r *recorder) last() Event {
	return r.events[len(r.events)-1]
}

func (r *recorder) clear() {
	r.events = nil
}

type harness struct {
	player    *Player
	device    *fakeDevice
	scheduler *fakeScheduler
	events    *recorder
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		device:    newFakeDevice(),
		scheduler: &fakeScheduler{},
		events:    &recorder{},
	}
	h.player = New(h.device, h.scheduler, opts...)
	h.player.AddEventCallback(h, h.events.record)
	return h
}

// withMedia configures an on-demand element of the given length, seekable end to end.
func (h *harness) withMedia(duration float64) *harness {
	h.device.prepare = func(m *fakeMedia) {
		m.duration = mo.Some(duration)
		m.seekable = []element.TimeRange{{Start: 0, End: duration}}
	}
	return h
}

func (h *harness) media() *fakeMedia {
	return h.device.media
}

// playing drives the player from EMPTY to PLAYING at position seconds.
func (h *harness) playing(seconds float64) {
	if err := h.player.SetSource(MediaTypeVideo, "http://example.com/video.mp4", "video/mp4"); err != nil {
		panic(err)
	}
	if err := h.player.BeginPlayback(); err != nil {
		panic(err)
	}
	h.media().currentTime = seconds
	h.media().Dispatch(element.EventCanPlay)
	h.events.clear()
}
