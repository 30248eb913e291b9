package kinetics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/termolab/pyrofit/internal/domain/kinetics"
	"github.com/termolab/pyrofit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConversion(t *testing.T) {
	Convey("Given the conversion function", t, func() {
		Convey("When evaluated at the alpha endpoints", func() {
			Convey("Then alpha = 0 with positive exponents yields only the offset", func() {
				So(kinetics.Conversion(0, 1, 0.5, 0.3), ShouldAlmostEqual, 0.3)
			})

			Convey("And alpha = 1 with a positive n yields zero", func() {
				So(kinetics.Conversion(1, 1.5, 0.5, 0.3), ShouldAlmostEqual, 0)
			})

			Convey("And neither endpoint produces NaN", func() {
				So(math.IsNaN(kinetics.Conversion(0, 2, 3, -0.5)), ShouldBeFalse)
				So(math.IsNaN(kinetics.Conversion(1, 2, 3, -0.5)), ShouldBeFalse)
			})
		})

		Convey("When a zero exponent meets a zero base", func() {
			Convey("Then 0^0 is one, not a floating-point accident", func() {
				// m = 0 at alpha = 0: f = (1-0)^n * (1 + alphaStar)
				So(kinetics.Conversion(0, 1, 0, 0.3), ShouldAlmostEqual, 1.3)
				// n = 0 at alpha = 1: f = 1 * (1 + alphaStar)
				So(kinetics.Conversion(1, 0, 1, 0.3), ShouldAlmostEqual, 1.3)
			})
		})

		Convey("When alpha drifts past the endpoints by quadrature error", func() {
			Convey("Then it is clamped before the powers are taken", func() {
				So(kinetics.Conversion(-1e-12, 0.5, 0.5, 0), ShouldAlmostEqual,
					kinetics.Conversion(0, 0.5, 0.5, 0))
				So(kinetics.Conversion(1+1e-12, 0.5, 0.5, 0), ShouldAlmostEqual,
					kinetics.Conversion(1, 0.5, 0.5, 0))
			})
		})
	})
}

func TestPredict(t *testing.T) {
	params := model.Params{A: 1e11, Ea: 1.2e5, N: 1, M: 0.5, AlphaStar: 0.3}

	Convey("Given a valid grid", t, func() {
		alpha := []float64{0, 0.25, 0.5, 0.75, 1}
		temperature := []float64{500, 550, 600, 650, 700}

		Convey("When predicting the rate curve", func() {
			rate, err := kinetics.Predict(params, alpha, temperature)

			Convey("Then every point is finite and matches the pointwise model", func() {
				So(err, ShouldBeNil)
				So(len(rate), ShouldEqual, len(alpha))
				for i := range rate {
					So(math.IsNaN(rate[i]), ShouldBeFalse)
					So(rate[i], ShouldEqual, kinetics.Rate(params, alpha[i], temperature[i]))
				}
			})
		})
	})

	Convey("Given a grid with a non-positive temperature", t, func() {
		_, err := kinetics.Predict(params, []float64{0, 0.5}, []float64{600, -1})

		Convey("Then prediction fails with a domain error", func() {
			So(errors.Is(err, kinetics.ErrInvalidDomain), ShouldBeTrue)
		})
	})

	Convey("Given mismatched grids", t, func() {
		_, err := kinetics.Predict(params, []float64{0, 0.5, 1}, []float64{600, 700})

		So(errors.Is(err, kinetics.ErrInvalidTrace), ShouldBeTrue)
	})
}

func TestSynthesize(t *testing.T) {
	Convey("Given a synthetic trace configuration", t, func() {
		cfg := kinetics.SynthConfig{
			Params: model.Params{A: 1e11, Ea: 1.2e5, N: 1, M: 0.5, AlphaStar: 0.3},
			Beta:   10,
			TStart: 400,
			TEnd:   900,
			TStep:  1,
			DeltaQ: 140,
		}

		Convey("When synthesizing", func() {
			tr, err := kinetics.Synthesize(cfg)
			So(err, ShouldBeNil)

			Convey("Then the trace declares its heating rate and parses back through preprocessing", func() {
				So(tr.Beta, ShouldEqual, cfg.Beta)
				So(tr.Len(), ShouldEqual, 501)

				curves, perr := kinetics.Preprocess(tr)
				So(perr, ShouldBeNil)
				So(curves.Alpha[len(curves.Alpha)-1], ShouldAlmostEqual, 1, 1e-9)
				So(curves.DeltaQ, ShouldBeGreaterThan, 0)
			})

			Convey("And the HRR curve is non-negative with an interior peak", func() {
				peak := 0
				for i, q := range tr.HRR {
					So(q, ShouldBeGreaterThanOrEqualTo, 0)
					if q > tr.HRR[peak] {
						peak = i
					}
				}
				So(peak, ShouldBeGreaterThan, 0)
				So(peak, ShouldBeLessThan, tr.Len()-1)
			})
		})

		Convey("When the configuration is degenerate", func() {
			Convey("Then a non-positive start temperature is a domain error", func() {
				bad := cfg
				bad.TStart = 0
				_, err := kinetics.Synthesize(bad)
				So(errors.Is(err, kinetics.ErrInvalidDomain), ShouldBeTrue)
			})

			Convey("And an empty range is an invalid trace", func() {
				bad := cfg
				bad.TEnd = cfg.TStart
				_, err := kinetics.Synthesize(bad)
				So(errors.Is(err, kinetics.ErrInvalidTrace), ShouldBeTrue)
			})
		})
	})
}
