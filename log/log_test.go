package log

import (
	"path/filepath"
	"testing"

	"github.com/anisan-cli/vigil/filesystem"
	"github.com/anisan-cli/vigil/key"
	"github.com/anisan-cli/vigil/where"
	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		t.Setenv(where.EnvConfigPath, "/vigil")

		Convey("When logging is disabled", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)

			Convey("Then nothing is enabled and no file is created", func() {
				So(Enabled(), ShouldBeFalse)
				files := lo.Must(filesystem.API().ReadDir(where.Logs()))
				So(files, ShouldBeEmpty)
			})

			Convey("Then WithFields still returns a usable entry", func() {
				So(func() { WithFields(logrus.Fields{"a": 1}).Info("dropped") }, ShouldNotPanic)
			})
		})

		Convey("When logging is enabled", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			So(Setup(), ShouldBeNil)

			Convey("Then a daily log file is created and the level applied", func() {
				So(Enabled(), ShouldBeTrue)
				files := lo.Must(filesystem.API().ReadDir(where.Logs()))
				So(files, ShouldHaveLength, 1)
				So(filepath.Ext(files[0].Name()), ShouldEqual, ".log")
				So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)
			})
		})

		Reset(func() {
			viper.Reset()
			enabled = false
			filesystem.SetOsFs()
		})
	})
}
