// Package app wires the writer loop, the counter pipeline and the
// throughput reporter together and runs them to completion.
package app

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/great-appender/pkg/metrics"
	"github.com/vnykmshr/great-appender/pkg/shutdown"
	"github.com/vnykmshr/great-appender/pkg/streaming/appender"
	"github.com/vnykmshr/great-appender/pkg/streaming/queue"
	"github.com/vnykmshr/great-appender/pkg/throughput"
)

// Options configures a Run.
type Options struct {
	Dst      io.Writer // destination, owned by the writer loop
	Out      io.Writer // status line output
	Message  string
	PerWrite int
	Verbose  bool
	Stop     *shutdown.Flag // nil runs until ctx is cancelled or a loop fails

	Metrics *metrics.Registry // nil disables instrumentation
	Clock   throughput.Clock  // nil selects the system clock
	Logger  *zerolog.Logger   // nil selects the global logger
}

// Result summarizes a finished Run.
type Result struct {
	Final  throughput.Sample
	Writer appender.Stats
	Queue  queue.Stats
}

// stopOrDone stops the writer on the shared flag, and also when the
// reporter has failed and cancelled the group.
type stopOrDone struct {
	flag shutdown.Stopper
	ctx  context.Context
}

func (s stopOrDone) Stopped() bool {
	return s.flag.Stopped() || s.ctx.Err() != nil
}

// Run appends until opts.Stop is set or either loop fails, and returns once
// both loops have exited and the final status line is flushed.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.Stop == nil {
		opts.Stop = shutdown.New()
	}
	clock := opts.Clock
	if clock == nil {
		clock = throughput.SystemClock{}
	}

	buf := appender.BuildRepeatBuffer(opts.Message, opts.PerWrite)
	logger.Info().
		Int("buffer_bytes", len(buf)).
		Int("repetitions", len(buf)/(len(opts.Message)+1)).
		Bool("verbose", opts.Verbose).
		Msg("appending")

	q := queue.NewWithConfig[uint64](queue.Config{
		Name:    "counter",
		Metrics: opts.Metrics,
	})
	a := appender.New(opts.Dst, buf,
		appender.WithMetrics(opts.Metrics),
		appender.WithLogger(logger.With().Str("component", "appender").Logger()),
	)
	r := throughput.NewReporter(opts.Out,
		throughput.WithVerbose(opts.Verbose),
		throughput.WithClock(clock),
		throughput.WithMetrics(opts.Metrics),
		throughput.WithLogger(logger.With().Str("component", "reporter").Logger()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(stopOrDone{flag: opts.Stop, ctx: gctx}, q)
	})
	g.Go(func() error {
		return r.Run(gctx, opts.Stop, q)
	})
	err := g.Wait()

	res := Result{
		Final:  r.Last(),
		Writer: a.Stats(),
		Queue:  q.Stats(),
	}
	logger.Debug().
		Uint64("bytes_written", res.Writer.BytesWritten).
		Int64("writes", res.Writer.WriteCount).
		Int64("short_writes", res.Writer.ShortWrites).
		Int("queue_peak", res.Queue.PeakLen).
		Dur("avg_write", res.Writer.AverageWriteTime).
		Msg("stopped")

	return res, err
}
