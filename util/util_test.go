package util

import (
	"math"
	"testing"

	"github.com/anisan-cli/vigil/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(150.0, 0, 98.9), ShouldEqual, 98.9)
		So(Clamp(-5.0, 0, 98.9), ShouldEqual, 0.0)
		So(Clamp(42.0, 0, 98.9), ShouldEqual, 42.0)

		Convey("Should prefer the lower bound when bounds cross", func() {
			So(Clamp(5, 10, 3), ShouldEqual, 10)
		})
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatSeconds(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		So(FormatSeconds(0), ShouldEqual, "0:00")
		So(FormatSeconds(65.7), ShouldEqual, "1:05")
		So(FormatSeconds(3725), ShouldEqual, "1:02:05")
		So(FormatSeconds(math.Inf(1)), ShouldEqual, "live")
		So(FormatSeconds(math.NaN()), ShouldEqual, "0:00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()

		Convey("Should remove a directory tree", func() {
			lo.Must0(filesystem.API().MkdirAll("/a/b", 0o755))
			lo.Must0(filesystem.API().WriteFile("/a/b/c.txt", []byte("x"), 0o644))
			So(Delete("/a"), ShouldBeNil)
			So(lo.Must(filesystem.API().Exists("/a")), ShouldBeFalse)
		})

		Convey("Should fail on a missing path", func() {
			So(Delete("/missing"), ShouldNotBeNil)
		})

		Reset(filesystem.SetOsFs)
	})
}
