package trace_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/termolab/pyrofit/internal/domain/trace"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleFile = `# Instrument: MCC-2
# Sample: PET film
# Heating Rate: 10.0
Temperature (K)	HRR (W/g)
300	0.0
400	2.0
500	10.0
600	2.0
700	0.0
`

func TestLoaderParse(t *testing.T) {
	ctx := context.Background()

	Convey("Given a well-formed trace file", t, func() {
		loader := trace.NewLoader()

		Convey("When parsing it", func() {
			tr, err := loader.Parse(ctx, strings.NewReader(sampleFile))
			So(err, ShouldBeNil)

			Convey("Then the heating rate comes from the header", func() {
				So(tr.Beta, ShouldEqual, 10.0)
			})

			Convey("And all header lines are retained without the marker", func() {
				So(tr.Header, ShouldResemble, []string{
					"Instrument: MCC-2",
					"Sample: PET film",
					"Heating Rate: 10.0",
				})
			})

			Convey("And the column-caption line is skipped", func() {
				So(tr.Len(), ShouldEqual, 5)
				So(tr.Temperature[0], ShouldEqual, 300)
				So(tr.HRR[2], ShouldEqual, 10)
			})
		})
	})

	Convey("Given header variations", t, func() {
		loader := trace.NewLoader()

		Convey("When the heating-rate field uses odd casing and spacing", func() {
			tr, err := loader.Parse(ctx, strings.NewReader(
				"#   heating RATE :  0.1666\n1 1\n2 2\n"))

			So(err, ShouldBeNil)
			So(tr.Beta, ShouldEqual, 0.1666)
		})

		Convey("When the heating-rate header is missing entirely", func() {
			_, err := loader.Parse(ctx, strings.NewReader("# Sample: PET\n300 1\n400 2\n"))

			So(errors.Is(err, trace.ErrMissingHeader), ShouldBeTrue)
		})

		Convey("When the heating rate is not a number", func() {
			_, err := loader.Parse(ctx, strings.NewReader("# Heating Rate: fast\n300 1\n400 2\n"))

			So(errors.Is(err, trace.ErrMissingHeader), ShouldBeTrue)
		})

		Convey("When the heating rate is non-positive", func() {
			_, err := loader.Parse(ctx, strings.NewReader("# Heating Rate: -5\n300 1\n400 2\n"))

			So(errors.Is(err, trace.ErrMissingHeader), ShouldBeTrue)
		})
	})

	Convey("Given malformed data rows", t, func() {
		input := "# Heating Rate: 10\n300 1\n400 oops\n500 3\n"

		Convey("When the loader is strict", func() {
			_, err := trace.NewLoader().Parse(ctx, strings.NewReader(input))

			Convey("Then parsing fails with a row error", func() {
				So(errors.Is(err, trace.ErrMalformedRow), ShouldBeTrue)
			})
		})

		Convey("When the loader skips malformed rows", func() {
			tr, err := trace.NewLoader(trace.WithSkipMalformedRows()).
				Parse(ctx, strings.NewReader(input))

			Convey("Then the bad row is dropped and the rest survives", func() {
				So(err, ShouldBeNil)
				So(tr.Len(), ShouldEqual, 2)
				So(tr.Temperature, ShouldResemble, []float64{300, 500})
			})
		})

		Convey("When more than one unparseable line precedes the data", func() {
			leading := "# Heating Rate: 10\nTemperature HRR\nnot a row either\n300 1\n400 2\n"
			_, err := trace.NewLoader().Parse(ctx, strings.NewReader(leading))

			Convey("Then only one caption line is tolerated in strict mode", func() {
				So(errors.Is(err, trace.ErrMalformedRow), ShouldBeTrue)
			})
		})

		Convey("When bad leading rows follow the caption under skip mode", func() {
			leading := "# Heating Rate: 10\nTemperature HRR\noops oops\n300 1\n400 2\n"
			tr, err := trace.NewLoader(trace.WithSkipMalformedRows()).
				Parse(ctx, strings.NewReader(leading))

			Convey("Then the extra row is skipped with a warning, not silently", func() {
				So(err, ShouldBeNil)
				So(tr.Temperature, ShouldResemble, []float64{300, 400})
			})
		})
	})

	Convey("Given delimiter variations", t, func() {
		loader := trace.NewLoader()

		Convey("When rows are comma-delimited", func() {
			tr, err := loader.Parse(ctx, strings.NewReader("# Heating Rate: 10\n300,1.5\n400,2.5\n"))

			So(err, ShouldBeNil)
			So(tr.HRR, ShouldResemble, []float64{1.5, 2.5})
		})

		Convey("When a row has a third column", func() {
			_, err := loader.Parse(ctx, strings.NewReader("# Heating Rate: 10\n300 1\n400 2 9\n"))

			So(errors.Is(err, trace.ErrMalformedRow), ShouldBeTrue)
		})
	})

	Convey("Given a Celsius trace and a Celsius-aware loader", t, func() {
		loader := trace.NewLoader(trace.WithCelsius())

		tr, err := loader.Parse(ctx, strings.NewReader("# Heating Rate: 10\n26.85 1\n126.85 2\n"))

		Convey("Then temperatures are shifted into Kelvin", func() {
			So(err, ShouldBeNil)
			So(tr.Temperature[0], ShouldAlmostEqual, 300, 1e-9)
			So(tr.Temperature[1], ShouldAlmostEqual, 400, 1e-9)
		})
	})

	Convey("Given a file with fewer than two data points", t, func() {
		_, err := trace.NewLoader().Parse(ctx, strings.NewReader("# Heating Rate: 10\n300 1\n"))

		So(errors.Is(err, trace.ErrEmptyTrace), ShouldBeTrue)
	})
}
