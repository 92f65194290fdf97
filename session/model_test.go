package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/anisan-cli/vigil/playback"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a session model", t, func() {
		var (
			actions []Action
			quits   int
			failure error
		)

		m := newModel(
			func() error { return failure },
			func(a Action) error {
				actions = append(actions, a)
				return failure
			},
			func() { quits++ },
			NewFilter(nil),
		)

		status := playback.Event{
			Type:        playback.EventStatus,
			State:       playback.StatePlaying,
			CurrentTime: mo.Some(65.0),
			Duration:    mo.Some(3600.0),
		}

		Convey("a status event should replace the status line without printing", func() {
			_, cmd := m.Update(eventMsg(status))
			So(cmd, ShouldBeNil)
			So(m.View(), ShouldStartWith, Render(status))
		})

		Convey("other events should be printed above the program", func() {
			_, cmd := m.Update(eventMsg(playback.Event{Type: playback.EventPaused, State: playback.StatePaused}))
			So(cmd, ShouldNotBeNil)
			So(m.status, ShouldBeEmpty)
		})

		Convey("filtered events should be dropped", func() {
			m.filter = NewFilter([]string{"complete"})
			_, cmd := m.Update(eventMsg(playback.Event{Type: playback.EventPaused, State: playback.StatePaused}))
			So(cmd, ShouldBeNil)
			_, cmd = m.Update(eventMsg(status))
			So(cmd, ShouldBeNil)
			So(m.status, ShouldBeEmpty)
		})

		Convey("a key should run its action as a command", func() {
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
			So(actions, ShouldBeEmpty)
			So(cmd, ShouldNotBeNil)

			So(cmd(), ShouldBeNil)
			So(actions, ShouldResemble, []Action{ActionSeekForward})

			Convey("and hand a failure back as a message", func() {
				failure = errors.New("boom")
				_, cmd := m.Update(runes("s"))
				So(cmd(), ShouldEqual, failure)
			})
		})

		Convey("unbound keys should not reach the controller", func() {
			_, cmd := m.Update(runes("x"))
			So(cmd, ShouldBeNil)
			So(actions, ShouldBeEmpty)
		})

		Convey("quitting should end the session and the program", func() {
			_, cmd := m.Update(runes("q"))
			So(quits, ShouldEqual, 1)
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
			So(actions, ShouldBeEmpty)
		})

		Convey("a failed start should quit with the error", func() {
			failure = errors.New("no such source")
			msg := m.Init()()
			So(msg, ShouldResemble, fatalMsg{failure})

			_, cmd := m.Update(msg)
			So(m.err, ShouldEqual, failure)
			So(quits, ShouldEqual, 1)
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
		})

		Convey("a successful start should produce no message", func() {
			So(m.Init()(), ShouldBeNil)
		})

		Convey("? should toggle the full help", func() {
			m.Update(runes("?"))
			So(m.help.ShowAll, ShouldBeTrue)
			m.Update(runes("?"))
			So(m.help.ShowAll, ShouldBeFalse)
		})

		Convey("the status line should fit the window", func() {
			m.Update(tea.WindowSizeMsg{Width: 12, Height: 40})
			m.Update(eventMsg(status))
			line := strings.Split(m.View(), "\n")[0]
			So(lipgloss.Width(line), ShouldBeLessThanOrEqualTo, 12)
		})
	})
}
