// Package shutdown provides the cooperative stop flag shared by the writer
// and reporter loops.
package shutdown

import (
	"os"
	"os/signal"
	"sync/atomic"
)

// Stopper is the read-only view of a Flag held by the loops.
type Stopper interface {
	// Stopped reports whether shutdown has been requested.
	Stopped() bool
}

// Flag is a broadcast cancellation token. It starts unset and, once set,
// stays set. Reads and writes are lock-free.
type Flag struct {
	stopped atomic.Bool
}

// New creates an unset Flag.
func New() *Flag {
	return &Flag{}
}

// Set requests shutdown. It reports whether this call changed the flag.
func (f *Flag) Set() bool {
	return f.stopped.CompareAndSwap(false, true)
}

// Stopped implements Stopper.
func (f *Flag) Stopped() bool {
	return f.stopped.Load()
}

// NotifyOnSignal sets f when one of sigs arrives. The handler goroutine does
// nothing except the atomic store. The returned function unregisters the
// handler and waits for the goroutine to exit.
func NotifyOnSignal(f *Flag, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}

	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, sigs...)

	go func() {
		defer close(done)
		for range ch {
			f.Set()
		}
	}()

	return func() {
		signal.Stop(ch)
		close(ch)
		<-done
	}
}
