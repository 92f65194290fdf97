package element

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestListeners(t *testing.T) {
	Convey("Given a listener table", t, func() {
		var l Listeners
		var calls []string

		a := l.AddEventListener(EventPause, func() { calls = append(calls, "a") })
		l.AddEventListener(EventPause, func() { calls = append(calls, "b") })
		l.AddEventListener(EventEnded, func() { calls = append(calls, "ended") })

		Convey("Dispatch should call only matching listeners in registration order", func() {
			l.Dispatch(EventPause)
			So(calls, ShouldResemble, []string{"a", "b"})
		})

		Convey("RemoveEventListener should drop exactly one registration", func() {
			l.RemoveEventListener(a)
			So(l.Count(EventPause), ShouldEqual, 1)
			So(l.Len(), ShouldEqual, 2)

			l.Dispatch(EventPause)
			So(calls, ShouldResemble, []string{"b"})
		})

		Convey("Removing an unknown id should be harmless", func() {
			l.RemoveEventListener(ListenerID(999))
			So(l.Len(), ShouldEqual, 3)
		})

		Convey("A listener may remove itself while being dispatched", func() {
			var self ListenerID
			self = l.AddEventListener(EventSeeked, func() { l.RemoveEventListener(self) })
			So(func() { l.Dispatch(EventSeeked) }, ShouldNotPanic)
			So(l.Count(EventSeeked), ShouldEqual, 0)
		})
	})
}
