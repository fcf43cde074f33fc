package testutil

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// MockClock is a clock with controllable time. It satisfies the Clock
// interface used by the throughput meter.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set sets the mock clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// MockWriter is a test writer that can simulate short writes, errors and
// delays, and counts Write calls.
type MockWriter struct {
	buf        *bytes.Buffer
	mu         sync.Mutex
	writeDelay time.Duration
	errorOnNth int
	maxPerCall int
	writeCount int
	onWrite    func(n int)
	err        error
}

// ErrSimulated is returned by MockWriter on the configured failing write.
var ErrSimulated = errors.New("simulated error")

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		buf: &bytes.Buffer{},
	}
}

// Write implements io.Writer with configurable behavior.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	mw.writeCount++

	if mw.writeDelay > 0 {
		time.Sleep(mw.writeDelay)
	}

	if mw.err != nil {
		return 0, mw.err
	}

	if mw.errorOnNth > 0 && mw.writeCount == mw.errorOnNth {
		return 0, ErrSimulated
	}

	if mw.maxPerCall > 0 && len(p) > mw.maxPerCall {
		p = p[:mw.maxPerCall]
	}

	n, err := mw.buf.Write(p)
	if mw.onWrite != nil {
		mw.onWrite(mw.writeCount)
	}
	return n, err
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// Len returns the current buffer length.
func (mw *MockWriter) Len() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.Len()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// SetWriteDelay configures a delay for each write operation.
func (mw *MockWriter) SetWriteDelay(delay time.Duration) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeDelay = delay
}

// SetErrorOnNth configures the writer to fail the nth write with ErrSimulated.
func (mw *MockWriter) SetErrorOnNth(n int) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.errorOnNth = n
}

// SetAlwaysError configures the writer to always return the given error.
func (mw *MockWriter) SetAlwaysError(err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.err = err
}

// SetShortWrite limits every write to at most n bytes without reporting an
// error, like a partial write.
func (mw *MockWriter) SetShortWrite(n int) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.maxPerCall = n
}

// OnWrite registers a hook called after each successful write with the
// 1-based write number. It runs while the writer's lock is held.
func (mw *MockWriter) OnWrite(fn func(n int)) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.onWrite = fn
}

// Reset clears the buffer and resets counters.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.buf.Reset()
	mw.writeCount = 0
	mw.errorOnNth = 0
	mw.maxPerCall = 0
	mw.writeDelay = 0
	mw.onWrite = nil
	mw.err = nil
}
