package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/termolab/pyrofit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	ctx := context.Background()

	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		logger.Init(logger.WithWriter(&buf), logger.WithNoColor())
		So(logger.SetLevelString("info"), ShouldBeNil)

		log := logger.Get()

		Convey("When logging at info with fields", func() {
			log.Info(ctx, "trace loaded", logger.Int("points", 5), logger.Float64("beta", 10))

			Convey("Then the message and fields are rendered", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "trace loaded")
				So(out, ShouldContainSubstring, "points=5")
				So(out, ShouldContainSubstring, "beta=10")
			})
		})

		Convey("When logging below the active level", func() {
			log.Debug(ctx, "hidden detail")

			So(buf.String(), ShouldNotContainSubstring, "hidden detail")
		})

		Convey("When the level is lowered to debug", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			log.Debug(ctx, "now visible")

			So(buf.String(), ShouldContainSubstring, "now visible")
		})

		Convey("When using a named logger", func() {
			logger.Named("session").Warn(ctx, "busy", logger.String("run", "abc"))

			out := buf.String()
			So(out, ShouldContainSubstring, "busy")
			So(out, ShouldContainSubstring, "session")
		})
	})

	Convey("Given level strings", t, func() {
		Convey("Then known names parse and unknown ones fail", func() {
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(" error "), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
