package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoop(t *testing.T) {
	Convey("Given a running loop", t, func() {
		l := New()
		ctx, cancel := context.WithCancel(context.Background())
		go func() { _ = l.Run(ctx) }()

		Convey("Call should run work in FIFO order and return its error", func() {
			var order []int
			l.Post(func() { order = append(order, 1) })
			l.Post(func() { order = append(order, 2) })

			boom := errors.New("boom")
			err := l.Call(func() error {
				order = append(order, 3)
				return boom
			})

			So(err, ShouldEqual, boom)
			So(order, ShouldResemble, []int{1, 2, 3})
		})

		Convey("Every should tick until cancelled", func() {
			var ticks atomic.Int32
			var stop func()
			So(l.Call(func() error {
				stop = l.Every(5*time.Millisecond, func() { ticks.Add(1) })
				return nil
			}), ShouldBeNil)

			time.Sleep(50 * time.Millisecond)
			So(l.Call(func() error {
				stop()
				return nil
			}), ShouldBeNil)

			seen := ticks.Load()
			So(seen, ShouldBeGreaterThan, 0)

			time.Sleep(30 * time.Millisecond)
			So(ticks.Load(), ShouldEqual, seen)
		})

		Convey("After Run returns", func() {
			cancel()
			<-l.Done()

			Convey("Post should refuse work", func() {
				So(l.Post(func() {}), ShouldBeFalse)
			})

			Convey("Call should report ErrClosed", func() {
				So(l.Call(func() error { return nil }), ShouldEqual, ErrClosed)
			})
		})

		Reset(cancel)
	})
}
