// Package trace loads experimental HRR(T) records from plain-text files.
//
// The format is a block of '#'-prefixed header lines, one of which declares
// the heating rate, optionally followed by a column-caption line, then
// whitespace- or comma-delimited numeric rows of temperature and HRR.
package trace

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/termolab/pyrofit/internal/domain/model"
	"github.com/termolab/pyrofit/pkg/logger"
)

const celsiusToKelvin = 273.15

// heatingRateRe matches the mandatory header field after the '#' is stripped,
// e.g. "Heating Rate: 10.0". Case and surrounding whitespace are tolerated.
var heatingRateRe = regexp.MustCompile(`(?i)^\s*heating\s*rate\s*:\s*(\S+)`)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithCelsius converts temperatures from Celsius to Kelvin on load.
func WithCelsius() Option {
	return func(l *Loader) {
		l.celsius = true
	}
}

// WithSkipMalformedRows makes the loader warn and continue on rows that fail
// to parse instead of aborting the whole load.
func WithSkipMalformedRows() Option {
	return func(l *Loader) {
		l.skipMalformed = true
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// Loader parses trace data files.
type Loader struct {
	celsius       bool
	skipMalformed bool
	logger        logger.Logger
}

// NewLoader creates a loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		logger: logger.Get().Named("trace"),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads and parses the file at path.
func (l *Loader) Load(ctx context.Context, path string) (model.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Trace{}, fmt.Errorf("open trace file: %w", err)
	}
	defer f.Close()

	tr, err := l.Parse(ctx, f)
	if err != nil {
		return model.Trace{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return tr, nil
}

// Parse reads a trace from r. The heating-rate header is mandatory; a
// missing or non-positive value fails with ErrMissingHeader so that no
// default ever substitutes for it.
func (l *Loader) Parse(ctx context.Context, r io.Reader) (model.Trace, error) {
	var (
		tr             model.Trace
		haveBeta       bool
		captionSkipped bool
		lineNo         int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			header := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			tr.Header = append(tr.Header, header)
			if m := heatingRateRe.FindStringSubmatch(header); m != nil {
				beta, err := strconv.ParseFloat(m[1], 64)
				if err != nil || beta <= 0 {
					return model.Trace{}, fmt.Errorf("%w: line %d: %q", ErrMissingHeader, lineNo, header)
				}
				tr.Beta = beta
				haveBeta = true
			}
			continue
		}

		t, q, err := parseRow(line)
		if err != nil {
			// At most one non-numeric line before any data is tolerated,
			// the column caption some instruments emit after the header
			// block. Anything further is a malformed row.
			if tr.Len() == 0 && !captionSkipped {
				captionSkipped = true
				continue
			}
			if l.skipMalformed {
				l.logger.Warn(ctx, "skipping malformed data row",
					logger.Int("line", lineNo),
					logger.String("row", line),
				)
				continue
			}
			return model.Trace{}, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, lineNo, err)
		}

		if l.celsius {
			t += celsiusToKelvin
		}
		tr.Temperature = append(tr.Temperature, t)
		tr.HRR = append(tr.HRR, q)
	}
	if err := scanner.Err(); err != nil {
		return model.Trace{}, fmt.Errorf("read trace: %w", err)
	}

	if !haveBeta {
		return model.Trace{}, ErrMissingHeader
	}
	if tr.Len() < 2 {
		return model.Trace{}, ErrEmptyTrace
	}
	return tr, nil
}

// parseRow splits a data line on whitespace or commas and parses the
// temperature/HRR pair.
func parseRow(line string) (float64, float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 columns, got %d", len(fields))
	}

	t, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("temperature %q: %w", fields[0], err)
	}
	q, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("heat release rate %q: %w", fields[1], err)
	}
	return t, q, nil
}
