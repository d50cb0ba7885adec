package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/dodkit/internal/constants"
)

// Entry is one requested statistic. Label identifies the request entry and
// Name is the statistic to compute.
type Entry struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// Request is an ordered set of requested statistics. Its order is the output order.
type Request []Entry

// Ask builds a request for names, labeled by position.
func Ask(names ...string) Request {
	req := make(Request, 0, len(names))
	for i, name := range names {
		req = append(req, Entry{Label: strconv.Itoa(i), Name: name})
	}

	return req
}

// With returns a copy of the request with one more entry.
func (r Request) With(label, name string) Request {
	out := make(Request, len(r), len(r)+1)
	copy(out, r)

	return append(out, Entry{Label: label, Name: name})
}

// hasNames reports whether at least one entry names a statistic.
func (r Request) hasNames() bool {
	for _, e := range r {
		if e.Name != "" {
			return true
		}
	}

	return false
}

// Aggregator writes the requested statistics of a sample as "<name>: <value>" lines.
type Aggregator struct {
	out      io.Writer
	marker   string
	registry *Registry
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWriter sets where report lines are written. The default is os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(a *Aggregator) {
		a.out = w
	}
}

// WithErrorMarker sets the line written per requested statistic when the sample is empty.
func WithErrorMarker(marker string) Option {
	return func(a *Aggregator) {
		a.marker = marker
	}
}

// WithRegistry sets the statistic registry used to dispatch names.
func WithRegistry(registry *Registry) Option {
	return func(a *Aggregator) {
		a.registry = registry
	}
}

// NewAggregator returns an aggregator writing to stdout with the default registry.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		out:      os.Stdout,
		marker:   constants.DefaultErrorMarker,
		registry: NewRegistry(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Report writes the statistics requested by req over the numeric entries of inputs.
func (a *Aggregator) Report(req Request, inputs ...any) error {
	summary, err := Compute(inputs...)

	return a.write(req, summary, err)
}

// ReportSample writes the statistics requested by req over sample.
//
// An empty sample writes one error marker per request entry, or nothing when
// no entry names a statistic. Names the registry does not know are skipped.
// The returned error only reports write failures.
func (a *Aggregator) ReportSample(req Request, sample Sample) error {
	summary, err := sample.Summary()

	return a.write(req, summary, err)
}

// write renders summary, or the error markers when summarizing failed.
func (a *Aggregator) write(req Request, summary Summary, err error) error {
	if err != nil {
		if !req.hasNames() {
			return nil
		}

		for range req {
			if _, err := fmt.Fprintln(a.out, a.marker); err != nil {
				return ewrap.Wrap(err, "writing report")
			}
		}

		return nil
	}

	for _, entry := range req {
		value, ok := a.registry.Format(entry.Name, summary)
		if !ok {
			continue
		}

		if _, err := fmt.Fprintf(a.out, "%s: %s\n", entry.Name, value); err != nil {
			return ewrap.Wrap(err, "writing report")
		}
	}

	return nil
}

// Statistics reports to stdout with the default aggregator.
func Statistics(req Request, inputs ...any) error {
	return NewAggregator().Report(req, inputs...)
}
