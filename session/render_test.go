package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/anisan-cli/vigil/key"
	"github.com/anisan-cli/vigil/playback"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestFilter(t *testing.T) {
	Convey("Given a filter", t, func() {
		Convey("an empty filter should allow every event", func() {
			f := NewFilter([]string{""})
			So(f.Matching(), ShouldResemble, playback.EventTypes())
		})

		Convey("patterns should match fuzzily and case-insensitively", func() {
			f := NewFilter([]string{"SEEK"})
			So(f.Matching(), ShouldResemble, []playback.EventType{
				playback.EventSentinelSeek, playback.EventSentinelSeekFailure,
			})
		})

		Convey("several patterns should be combined", func() {
			f := NewFilter([]string{"paused", "stopped"})
			So(f.Allows(playback.EventPaused), ShouldBeTrue)
			So(f.Allows(playback.EventStopped), ShouldBeTrue)
			So(f.Allows(playback.EventStatus), ShouldBeFalse)
		})
	})
}

func TestPrinter(t *testing.T) {
	Convey("Given a plain icon set", t, func() {
		viper.Set(key.IconsVariant, "plain")
		defer viper.Set(key.IconsVariant, "")

		var out bytes.Buffer
		ev := playback.Event{
			Type:        playback.EventPlaying,
			State:       playback.StatePlaying,
			CurrentTime: mo.Some(65.0),
			Duration:    mo.Some(600.0),
			URL:         "https://example.com/v.mp4",
		}

		Convey("Render should show the icon, state, type and position", func() {
			line := Render(ev)
			So(line, ShouldStartWith, ">")
			So(line, ShouldContainSubstring, "PLAYING")
			So(line, ShouldContainSubstring, "playing")
			So(line, ShouldContainSubstring, "1:05 / 10:00")
		})

		Convey("sentinel events should use the sentinel icon", func() {
			ev.Type = playback.EventSentinelSeek
			So(Render(ev), ShouldStartWith, "!")
		})

		Convey("a JSON printer should write one record per line", func() {
			p := NewPrinter(&out, true, NewFilter(nil))
			p.Event(ev)
			p.Error(errors.New("boom"))

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			So(lines, ShouldHaveLength, 2)

			var rec playback.Record
			So(json.Unmarshal([]byte(lines[0]), &rec), ShouldBeNil)
			So(rec.Type, ShouldEqual, playback.EventPlaying)
			So(*rec.CurrentTime, ShouldEqual, 65.0)
			So(lines[1], ShouldEqual, `{"error":"boom"}`)
		})

		Convey("a styled printer should overwrite status lines", func() {
			p := NewPrinter(&out, false, NewFilter(nil))
			p.SetRaw(true)

			status := ev
			status.Type = playback.EventStatus
			p.Event(status)
			p.Event(status)
			So(out.String(), ShouldNotContainSubstring, "\n")

			p.Event(ev)
			So(out.String(), ShouldEndWith, "\r\n")
		})

		Convey("filtered events should not be printed", func() {
			p := NewPrinter(&out, true, NewFilter([]string{"complete"}))
			p.Event(ev)
			So(out.String(), ShouldBeEmpty)
		})
	})
}
