package throughput

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	gferrors "github.com/vnykmshr/great-appender/pkg/common/errors"
	"github.com/vnykmshr/great-appender/pkg/metrics"
	"github.com/vnykmshr/great-appender/pkg/shutdown"
	"github.com/vnykmshr/great-appender/pkg/streaming/queue"
)

// Reporter consumes byte counter snapshots and prints throughput.
type Reporter struct {
	out     *bufio.Writer
	meter   *Meter
	clock   Clock
	verbose bool
	name    string
	metrics *metrics.Registry
	logger  zerolog.Logger
	samples int64
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithVerbose enables a status line after every sample.
func WithVerbose(verbose bool) ReporterOption {
	return func(r *Reporter) { r.verbose = verbose }
}

// WithClock replaces the system clock.
func WithClock(clock Clock) ReporterOption {
	return func(r *Reporter) { r.clock = clock }
}

// WithName labels the reporter's metrics.
func WithName(name string) ReporterOption {
	return func(r *Reporter) { r.name = name }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(reg *metrics.Registry) ReporterOption {
	return func(r *Reporter) { r.metrics = reg }
}

// WithLogger replaces the package logger.
func WithLogger(l zerolog.Logger) ReporterOption {
	return func(r *Reporter) { r.logger = l }
}

// NewReporter creates a Reporter writing to out. The average throughput is
// measured from the moment NewReporter returns.
func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		out:    bufio.NewWriter(out),
		clock:  SystemClock{},
		name:   "reporter",
		logger: log.With().Str("component", "reporter").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.meter = NewMeter(r.clock)
	return r
}

// Run consumes snapshots from in until stop reports true, in is closed and
// drained, or ctx is done. It then prints one final status line followed by
// a newline and flushes, whatever the verbose setting.
func (r *Reporter) Run(ctx context.Context, stop shutdown.Stopper, in queue.Receiver[uint64]) error {
	var runErr error

	for !stop.Stopped() {
		total, err := in.Receive(ctx)
		if err != nil {
			if !errors.Is(err, queue.ErrQueueClosed) && ctx.Err() == nil {
				runErr = gferrors.NewOperationError("reporter", "Receive",
					fmt.Errorf("%w: %w", gferrors.ErrPipelineBroken, err))
			}
			break
		}

		r.observe(r.meter.Measure(total))

		if r.verbose {
			if err := r.render(); err != nil {
				runErr = err
				break
			}
		}
	}

	r.logger.Debug().Int64("samples", r.samples).Uint64("total", r.meter.Last().Total).Msg("reporter stopping")
	return errors.Join(runErr, r.finish())
}

// Last returns the most recent sample.
func (r *Reporter) Last() Sample {
	return r.meter.Last()
}

func (r *Reporter) observe(s Sample) {
	r.samples++
	if r.metrics == nil {
		return
	}
	r.metrics.ThroughputSamples.WithLabelValues(r.name).Inc()
	r.metrics.ThroughputInstant.WithLabelValues(r.name).Set(float64(s.Instant))
	r.metrics.ThroughputAverage.WithLabelValues(r.name).Set(float64(s.Average))
}

func (r *Reporter) render() error {
	if _, err := r.out.WriteString(ClearLine + FormatStatus(r.meter.Last())); err != nil {
		return fmt.Errorf("write status line: %w", err)
	}
	if err := r.out.Flush(); err != nil {
		return fmt.Errorf("flush status line: %w", err)
	}
	return nil
}

func (r *Reporter) finish() error {
	if _, err := r.out.WriteString(ClearLine + FormatStatus(r.meter.Last()) + "\n"); err != nil {
		return fmt.Errorf("write final status line: %w", err)
	}
	if err := r.out.Flush(); err != nil {
		return fmt.Errorf("flush final status line: %w", err)
	}
	return nil
}
