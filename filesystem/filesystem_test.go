package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestAPI(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Use should install an arbitrary backend", func() {
			ro := afero.NewReadOnlyFs(afero.NewMemMapFs())
			Use(ro)
			So(API().Fs, ShouldEqual, ro)
		})

		Convey("GacheFs should write through the active backend", func() {
			SetMemMapFs()
			var g GacheFs
			So(g.MkdirAll("/cache", os.ModePerm), ShouldBeNil)

			f, err := g.OpenFile("/cache/entry.json", os.O_CREATE|os.O_RDWR, 0o644)
			So(err, ShouldBeNil)
			_, err = f.Write([]byte("{}"))
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			exists, err := API().Exists("/cache/entry.json")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Reset(SetOsFs)
	})
}
