package session

import (
	"testing"

	"github.com/anisan-cli/vigil/element"
	"github.com/anisan-cli/vigil/playback"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeController records the operations a key triggered.
type fakeController struct {
	state   playback.State
	current mo.Option[float64]
	calls   []string
	from    []float64
}

func (c *fakeController) record(name string) error {
	c.calls = append(c.calls, name)
	return nil
}

func (c *fakeController) SetSource(playback.MediaType, string, string) error {
	return c.record("setSource")
}

func (c *fakeController) PlayFrom(seconds float64) error {
	c.from = append(c.from, seconds)
	return c.record("playFrom")
}

func (c *fakeController) BeginPlayback() error { return c.record("beginPlayback") }

func (c *fakeController) BeginPlaybackFrom(seconds float64) error {
	c.from = append(c.from, seconds)
	return c.record("beginPlaybackFrom")
}

func (c *fakeController) Pause() error  { return c.record("pause") }
func (c *fakeController) Resume() error { return c.record("resume") }
func (c *fakeController) Stop() error   { return c.record("stop") }
func (c *fakeController) Reset() error  { return c.record("reset") }

func (c *fakeController) GetSource() string                         { return "" }
func (c *fakeController) GetMimeType() string                       { return "" }
func (c *fakeController) GetCurrentTime() mo.Option[float64]        { return c.current }
func (c *fakeController) GetDuration() mo.Option[float64]           { return mo.None[float64]() }
func (c *fakeController) GetSeekableRange() mo.Option[playback.Range] { return mo.None[playback.Range]() }
func (c *fakeController) GetState() playback.State                  { return c.state }
func (c *fakeController) GetPlayerElement() element.Media           { return nil }

func (c *fakeController) AddEventCallback(any, playback.Callback) playback.CallbackID { return 0 }
func (c *fakeController) RemoveEventCallback(any, playback.CallbackID)                {}
func (c *fakeController) RemoveAllEventCallbacks()                                    {}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeymap(t *testing.T) {
	Convey("Given the session keymap", t, func() {
		k := newKeymap()

		Convey("letters should map to their actions", func() {
			So(k.action(runes("p")), ShouldEqual, ActionTogglePause)
			So(k.action(runes("s")), ShouldEqual, ActionStop)
			So(k.action(runes("r")), ShouldEqual, ActionRestart)
			So(k.action(runes("q")), ShouldEqual, ActionQuit)
			So(k.action(runes("h")), ShouldEqual, ActionSeekBack)
			So(k.action(runes("l")), ShouldEqual, ActionSeekForward)
		})

		Convey("space should toggle pause", func() {
			So(k.action(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}), ShouldEqual, ActionTogglePause)
		})

		Convey("arrows should seek", func() {
			So(k.action(tea.KeyMsg{Type: tea.KeyLeft}), ShouldEqual, ActionSeekBack)
			So(k.action(tea.KeyMsg{Type: tea.KeyRight}), ShouldEqual, ActionSeekForward)
		})

		Convey("ctrl+c and ctrl+d should quit", func() {
			So(k.action(tea.KeyMsg{Type: tea.KeyCtrlC}), ShouldEqual, ActionQuit)
			So(k.action(tea.KeyMsg{Type: tea.KeyCtrlD}), ShouldEqual, ActionQuit)
		})

		Convey("unbound keys should do nothing", func() {
			So(k.action(runes("x")), ShouldEqual, ActionNone)
			So(k.action(tea.KeyMsg{Type: tea.KeyUp}), ShouldEqual, ActionNone)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a controller", t, func() {
		c := &fakeController{current: mo.Some(30.0)}

		Convey("space should resume when paused and pause when playing", func() {
			c.state = playback.StatePaused
			So(Apply(c, ActionTogglePause), ShouldBeNil)
			c.state = playback.StatePlaying
			So(Apply(c, ActionTogglePause), ShouldBeNil)
			So(c.calls, ShouldResemble, []string{"resume", "pause"})
		})

		Convey("space should start stopped playback and restart completed playback", func() {
			c.state = playback.StateStopped
			So(Apply(c, ActionTogglePause), ShouldBeNil)
			c.state = playback.StateComplete
			So(Apply(c, ActionTogglePause), ShouldBeNil)
			So(c.calls, ShouldResemble, []string{"beginPlayback", "playFrom"})
			So(c.from, ShouldResemble, []float64{0})
		})

		Convey("arrows should seek by a step and never before the start", func() {
			c.state = playback.StatePlaying
			So(Apply(c, ActionSeekForward), ShouldBeNil)
			So(Apply(c, ActionSeekBack), ShouldBeNil)

			c.current = mo.Some(4.0)
			So(Apply(c, ActionSeekBack), ShouldBeNil)
			So(c.from, ShouldResemble, []float64{40, 20, 0})
		})

		Convey("keys should be ignored where they would be protocol errors", func() {
			for _, state := range []playback.State{playback.StateEmpty, playback.StateError} {
				c.state = state
				for _, a := range []Action{ActionTogglePause, ActionSeekBack, ActionStop, ActionRestart} {
					So(Apply(c, a), ShouldBeNil)
				}
			}
			c.state = playback.StateStopped
			So(Apply(c, ActionSeekForward), ShouldBeNil)
			So(Apply(c, ActionStop), ShouldBeNil)
			So(c.calls, ShouldBeEmpty)
		})

		Convey("restart should begin from zero when stopped", func() {
			c.state = playback.StateStopped
			So(Apply(c, ActionRestart), ShouldBeNil)
			So(c.calls, ShouldResemble, []string{"beginPlaybackFrom"})
			So(c.from, ShouldResemble, []float64{0})
		})
	})
}
