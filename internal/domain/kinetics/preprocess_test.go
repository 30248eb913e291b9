package kinetics_test

import (
	"errors"
	"testing"

	"github.com/termolab/pyrofit/internal/domain/kinetics"
	"github.com/termolab/pyrofit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const quadratureTolerance = 1e-6

func TestPreprocess(t *testing.T) {
	Convey("Given a bell-shaped HRR trace", t, func() {
		tr := model.Trace{
			Beta:        10,
			Temperature: []float64{300, 400, 500, 600, 700},
			HRR:         []float64{0, 2, 10, 2, 0},
		}

		Convey("When preprocessing it", func() {
			curves, err := kinetics.Preprocess(tr)
			So(err, ShouldBeNil)

			Convey("Then the total heat matches the trapezoid integral over beta", func() {
				// trapezoid integral = 100+600+600+100 = 1400, beta = 10
				So(curves.DeltaQ, ShouldAlmostEqual, 140, quadratureTolerance)
			})

			Convey("And the conversion at the peak midpoint is one half", func() {
				So(curves.Alpha[2], ShouldAlmostEqual, 0.5, quadratureTolerance)
			})

			Convey("And the conversion curve spans [0,1] and is non-decreasing", func() {
				So(curves.Alpha[0], ShouldAlmostEqual, 0, quadratureTolerance)
				So(curves.Alpha[len(curves.Alpha)-1], ShouldAlmostEqual, 1, quadratureTolerance)
				for i := range curves.Alpha {
					So(curves.Alpha[i], ShouldBeBetweenOrEqual,
						-quadratureTolerance, 1+quadratureTolerance)
					if i > 0 {
						So(curves.Alpha[i], ShouldBeGreaterThanOrEqualTo,
							curves.Alpha[i-1]-quadratureTolerance)
					}
				}
			})

			Convey("And the rate curve is the HRR divided by the total heat", func() {
				So(curves.Rate[2], ShouldAlmostEqual, 10.0/140, quadratureTolerance)
				So(len(curves.Rate), ShouldEqual, tr.Len())
			})
		})

		Convey("When preprocessing the same trace twice", func() {
			first, err1 := kinetics.Preprocess(tr)
			second, err2 := kinetics.Preprocess(tr)

			Convey("Then the derived curves are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second.DeltaQ, ShouldEqual, first.DeltaQ)
				for i := range first.Alpha {
					So(second.Alpha[i], ShouldEqual, first.Alpha[i])
					So(second.Rate[i], ShouldEqual, first.Rate[i])
				}
			})
		})
	})

	Convey("Given degenerate traces", t, func() {
		Convey("When the HRR curve is all zero", func() {
			_, err := kinetics.Preprocess(model.Trace{
				Beta:        10,
				Temperature: []float64{300, 400, 500},
				HRR:         []float64{0, 0, 0},
			})

			Convey("Then preprocessing fails instead of dividing by zero", func() {
				So(errors.Is(err, kinetics.ErrInvalidTrace), ShouldBeTrue)
			})
		})

		Convey("When the temperature grid is not strictly increasing", func() {
			_, err := kinetics.Preprocess(model.Trace{
				Beta:        10,
				Temperature: []float64{300, 500, 400},
				HRR:         []float64{0, 2, 1},
			})

			So(errors.Is(err, kinetics.ErrInvalidTrace), ShouldBeTrue)
		})

		Convey("When the heating rate is not positive", func() {
			_, err := kinetics.Preprocess(model.Trace{
				Beta:        0,
				Temperature: []float64{300, 400},
				HRR:         []float64{1, 2},
			})

			So(errors.Is(err, kinetics.ErrInvalidTrace), ShouldBeTrue)
		})

		Convey("When the sequences have different lengths", func() {
			_, err := kinetics.Preprocess(model.Trace{
				Beta:        10,
				Temperature: []float64{300, 400, 500},
				HRR:         []float64{1, 2},
			})

			So(errors.Is(err, kinetics.ErrInvalidTrace), ShouldBeTrue)
		})

		Convey("When there is a single point", func() {
			_, err := kinetics.Preprocess(model.Trace{
				Beta:        10,
				Temperature: []float64{300},
				HRR:         []float64{1},
			})

			So(errors.Is(err, kinetics.ErrInvalidTrace), ShouldBeTrue)
		})
	})
}
