package appender

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	gferrors "github.com/vnykmshr/great-appender/pkg/common/errors"
	"github.com/vnykmshr/great-appender/pkg/metrics"
	"github.com/vnykmshr/great-appender/pkg/shutdown"
	"github.com/vnykmshr/great-appender/pkg/streaming/queue"
)

// ErrAlreadyRunning is returned when Run is called on an Appender that has
// already been started.
var ErrAlreadyRunning = errors.New("appender already started")

// Stats holds statistics about the writer loop.
type Stats struct {
	// BytesWritten is the total number of bytes the destination accepted.
	BytesWritten uint64

	// WriteCount is the total number of write calls issued.
	WriteCount int64

	// ShortWrites counts writes that accepted fewer bytes than the buffer held.
	ShortWrites int64

	// ErrorCount is the total number of failed writes.
	ErrorCount int64

	// TotalWriteTime is the total time spent inside Write.
	TotalWriteTime time.Duration

	// AverageWriteTime is the average time per write call.
	AverageWriteTime time.Duration

	// LastWriteTime is the timestamp of the last write.
	LastWriteTime time.Time
}

// Appender repeatedly writes a fixed buffer to its destination and
// publishes the cumulative byte count after every write.
type Appender struct {
	dst     io.Writer
	buf     []byte
	name    string
	metrics *metrics.Registry
	logger  zerolog.Logger

	started int32 // atomic

	stats   Stats
	statsMu sync.RWMutex
}

// Option configures an Appender.
type Option func(*Appender)

// WithName labels the appender's metrics and log lines.
func WithName(name string) Option {
	return func(a *Appender) { a.name = name }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(r *metrics.Registry) Option {
	return func(a *Appender) { a.metrics = r }
}

// WithLogger replaces the package logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Appender) { a.logger = l }
}

// New creates an Appender that writes buf to dst. buf is not copied and must
// not be modified afterwards.
func New(dst io.Writer, buf []byte, opts ...Option) *Appender {
	a := &Appender{
		dst:    dst,
		buf:    buf,
		name:   "appender",
		logger: log.With().Str("component", "appender").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run writes the buffer until stop reports true, publishing the running
// total to out after each write. The flag is checked before each write, so
// a write already in progress when it flips still completes and is
// published. Run closes out when it returns.
//
// A write error ends the loop immediately and is returned wrapping
// gferrors.ErrWriteFailed; it is never retried. A rejected publish is
// returned wrapping gferrors.ErrPipelineBroken.
func (a *Appender) Run(stop shutdown.Stopper, out queue.Sender[uint64]) error {
	if !atomic.CompareAndSwapInt32(&a.started, 0, 1) {
		return ErrAlreadyRunning
	}
	defer func() { _ = out.Close() }()

	var total uint64
	for !stop.Stopped() {
		start := time.Now()
		n, err := a.dst.Write(a.buf)
		total += uint64(n)
		a.record(n, time.Since(start), err)

		if err != nil {
			a.logger.Debug().Err(err).Uint64("total", total).Msg("write failed")
			return gferrors.NewOperationError("appender", "Write",
				fmt.Errorf("%w after %d bytes: %w", gferrors.ErrWriteFailed, total, err))
		}

		if err := out.Send(total); err != nil {
			return gferrors.NewOperationError("appender", "Publish",
				fmt.Errorf("%w: %w", gferrors.ErrPipelineBroken, err))
		}
	}

	a.logger.Debug().Uint64("total", total).Msg("stop requested")
	return nil
}

// Stats returns statistics about the writer loop.
func (a *Appender) Stats() Stats {
	a.statsMu.RLock()
	defer a.statsMu.RUnlock()

	stats := a.stats
	if stats.WriteCount > 0 {
		stats.AverageWriteTime = time.Duration(int64(stats.TotalWriteTime) / stats.WriteCount)
	}
	return stats
}

// BufferLen returns the number of bytes issued per write.
func (a *Appender) BufferLen() int {
	return len(a.buf)
}

func (a *Appender) record(n int, d time.Duration, err error) {
	a.updateStats(func(s *Stats) {
		s.WriteCount++
		s.BytesWritten += uint64(n)
		s.TotalWriteTime += d
		s.LastWriteTime = time.Now()
		if err != nil {
			s.ErrorCount++
		} else if n < len(a.buf) {
			s.ShortWrites++
		}
	})

	if a.metrics == nil {
		return
	}
	a.metrics.AppendWrites.WithLabelValues(a.name).Inc()
	a.metrics.AppendBytesWritten.WithLabelValues(a.name).Add(float64(n))
	if err != nil {
		a.metrics.AppendErrors.WithLabelValues(a.name).Inc()
	}
}

// updateStats safely updates statistics.
func (a *Appender) updateStats(updater func(*Stats)) {
	a.statsMu.Lock()
	defer a.statsMu.Unlock()
	updater(&a.stats)
}
