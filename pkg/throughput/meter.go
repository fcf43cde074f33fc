package throughput

import (
	"math"
	"time"
)

// Sample is the throughput derived from one byte counter snapshot.
type Sample struct {
	// Total is the cumulative number of bytes written.
	Total uint64

	// Instant is bytes per second since the previous sample.
	Instant uint64

	// Average is bytes per second since the meter was created.
	Average uint64
}

// Meter turns cumulative byte counts into throughput samples. Elapsed time
// is truncated to whole seconds, so a sample taken less than a second after
// the previous one has no defined instant rate; see rate.
//
// A Meter is not safe for concurrent use. It belongs to a single consumer.
type Meter struct {
	clock     Clock
	started   time.Time
	prev      time.Time
	prevTotal uint64
	last      Sample
}

// NewMeter creates a Meter whose start time is clock.Now().
func NewMeter(clock Clock) *Meter {
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now()
	return &Meter{
		clock:   clock,
		started: now,
		prev:    now,
	}
}

// Measure records a new cumulative total and returns the resulting sample.
func (m *Meter) Measure(total uint64) Sample {
	now := m.clock.Now()

	var delta uint64
	if total > m.prevTotal {
		delta = total - m.prevTotal
	}

	m.last = Sample{
		Total:   total,
		Instant: rate(delta, wholeSeconds(now.Sub(m.prev))),
		Average: rate(total, wholeSeconds(now.Sub(m.started))),
	}
	m.prev = now
	m.prevTotal = total

	return m.last
}

// Last returns the most recent sample, or the zero Sample before the first
// Measure.
func (m *Meter) Last() Sample {
	return m.last
}

// Started returns the time the meter was created.
func (m *Meter) Started() time.Time {
	return m.started
}

func wholeSeconds(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}
	return uint64(d / time.Second)
}

// rate divides bytes by seconds. Zero seconds is a known artifact of
// whole-second resolution: any bytes over it saturate to MaxUint64 and no
// bytes over it give 0, matching a saturating float conversion of +Inf and
// NaN.
func rate(bytes, seconds uint64) uint64 {
	if seconds == 0 {
		if bytes == 0 {
			return 0
		}
		return math.MaxUint64
	}
	return bytes / seconds
}
