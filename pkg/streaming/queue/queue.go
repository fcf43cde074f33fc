package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	gferrors "github.com/vnykmshr/great-appender/pkg/common/errors"
	"github.com/vnykmshr/great-appender/pkg/metrics"
)

// ErrQueueClosed is returned by Send after Close, and by Receive once the
// queue is closed and drained.
var ErrQueueClosed = fmt.Errorf("queue: %w", gferrors.ErrClosed)

// Sender is the producer side of a Queue.
type Sender[T any] interface {
	// Send enqueues value. It never blocks.
	Send(value T) error

	// Close marks the end of the stream. Pending values stay receivable.
	Close() error
}

// Receiver is the consumer side of a Queue.
type Receiver[T any] interface {
	// Receive blocks until a value is available, the queue is closed and
	// drained, or ctx is done.
	Receive(ctx context.Context) (T, error)
}

// Queue is an unbounded FIFO with a blocking receive.
type Queue[T any] interface {
	Sender[T]
	Receiver[T]

	// TryReceive returns the oldest value without blocking.
	TryReceive() (T, bool, error)

	// IsClosed returns true if the queue is closed.
	IsClosed() bool

	// Len returns the current number of buffered elements.
	Len() int

	// Cap returns the current ring capacity.
	Cap() int

	// Stats returns queue statistics.
	Stats() Stats
}

// Stats holds statistics about queue usage.
type Stats struct {
	// SendCount is the total number of values enqueued.
	SendCount int64

	// ReceiveCount is the total number of values dequeued.
	ReceiveCount int64

	// BlockedReceives is the number of receives that had to wait.
	BlockedReceives int64

	// PeakLen is the largest number of values buffered at once.
	PeakLen int

	// Grows is the number of times the ring was enlarged.
	Grows int64
}

// Config holds configuration for Queue.
type Config struct {
	// InitialCapacity is the starting ring size. The ring doubles when full.
	InitialCapacity int

	// Name labels the queue's metrics.
	Name string

	// Metrics enables instrumentation when non-nil.
	Metrics *metrics.Registry
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 64,
		Name:            "counter",
	}
}

type queue[T any] struct {
	config Config
	buffer []T
	mu     sync.Mutex

	head   int
	tail   int
	count  int
	closed int32

	recvCond *sync.Cond

	stats Stats
}

// New creates a new Queue with default configuration.
func New[T any]() Queue[T] {
	return NewWithConfig[T](DefaultConfig())
}

// NewWithConfig creates a new Queue with the specified configuration.
func NewWithConfig[T any](config Config) Queue[T] {
	if config.InitialCapacity <= 0 {
		config.InitialCapacity = DefaultConfig().InitialCapacity
	}
	if config.Name == "" {
		config.Name = DefaultConfig().Name
	}

	q := &queue[T]{
		config: config,
		buffer: make([]T, config.InitialCapacity),
	}
	q.recvCond = sync.NewCond(&q.mu)

	return q
}

// Send implements Sender.Send.
func (q *queue[T]) Send(value T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.IsClosed() {
		return ErrQueueClosed
	}

	if q.count == len(q.buffer) {
		q.growLocked()
	}
	q.buffer[q.tail] = value
	q.tail = (q.tail + 1) % len(q.buffer)
	q.count++

	q.stats.SendCount++
	if q.count > q.stats.PeakLen {
		q.stats.PeakLen = q.count
	}
	if q.config.Metrics != nil {
		q.config.Metrics.QueueSent.WithLabelValues(q.config.Name).Inc()
		q.config.Metrics.QueueDepth.WithLabelValues(q.config.Name).Set(float64(q.count))
	}

	q.recvCond.Signal()
	return nil
}

// Receive implements Receiver.Receive.
func (q *queue[T]) Receive(ctx context.Context) (T, error) {
	var zero T

	// Wake the waiter when ctx is done; Wait does not observe ctx itself.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.recvCond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	waited := false
	for q.count == 0 && !q.IsClosed() {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if !waited {
			q.stats.BlockedReceives++
			waited = true
		}
		q.recvCond.Wait()
	}

	if q.count == 0 {
		return zero, ErrQueueClosed
	}

	return q.popLocked(), nil
}

// TryReceive implements Queue.TryReceive.
func (q *queue[T]) TryReceive() (T, bool, error) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		if q.IsClosed() {
			return zero, false, ErrQueueClosed
		}
		return zero, false, nil
	}

	return q.popLocked(), true, nil
}

// Close implements Sender.Close.
func (q *queue[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&q.closed, 0, 1) {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.recvCond.Broadcast()

	return nil
}

// IsClosed implements Queue.IsClosed.
func (q *queue[T]) IsClosed() bool {
	return atomic.LoadInt32(&q.closed) != 0
}

// Len implements Queue.Len.
func (q *queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap implements Queue.Cap.
func (q *queue[T]) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buffer)
}

// Stats implements Queue.Stats.
func (q *queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// popLocked removes the oldest value (must hold lock, count > 0).
func (q *queue[T]) popLocked() T {
	value := q.buffer[q.head]
	var zero T
	q.buffer[q.head] = zero
	q.head = (q.head + 1) % len(q.buffer)
	q.count--

	q.stats.ReceiveCount++
	if q.config.Metrics != nil {
		q.config.Metrics.QueueDepth.WithLabelValues(q.config.Name).Set(float64(q.count))
	}
	return value
}

// growLocked doubles the ring, unrolling it so head is at index 0 (must hold lock).
func (q *queue[T]) growLocked() {
	grown := make([]T, len(q.buffer)*2)
	n := copy(grown, q.buffer[q.head:])
	copy(grown[n:], q.buffer[:q.head])

	q.buffer = grown
	q.head = 0
	q.tail = q.count
	q.stats.Grows++
}
