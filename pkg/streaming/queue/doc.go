/*
Package queue provides the unbounded FIFO that carries byte counter
snapshots from the writer loop to the throughput reporter.

A Queue has one producer and one consumer. Send never blocks: when the ring
is full it doubles. Receive blocks only while the queue is empty, and wakes
on a new value, on Close, or when its context is done. Values are delivered
in exactly the order they were sent.

	q := queue.New[uint64]()

	go func() {
		defer q.Close()
		for total := uint64(0); total < 4096; total += 1024 {
			_ = q.Send(total)
		}
	}()

	for {
		v, err := q.Receive(ctx)
		if errors.Is(err, queue.ErrQueueClosed) {
			break
		}
		...
	}

Close marks the end of the stream. Values already queued remain receivable;
ErrQueueClosed is returned only once the queue is closed and drained.
*/
package queue
