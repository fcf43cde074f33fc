/*
Package greatappender appends a message to a file as fast as it can and
reports the achieved write throughput until interrupted.

Components (pkg/):
  - streaming/appender: repeat buffer construction and the tight write loop
  - streaming/queue: unbounded FIFO carrying cumulative byte counts
  - throughput: whole-second meter and the status line reporter
  - shutdown: process-wide stop flag set from a signal handler
  - metrics: optional Prometheus instrumentation and /metrics endpoint
  - config: flag and environment parsing

The command lives in cmd/great-appender:

	great-appender -f out.log -m "hello" -p 65536 -v

Library usage:

	import (
		"github.com/vnykmshr/great-appender/pkg/shutdown"
		"github.com/vnykmshr/great-appender/pkg/streaming/appender"
		"github.com/vnykmshr/great-appender/pkg/streaming/queue"
		"github.com/vnykmshr/great-appender/pkg/throughput"
	)

	flag := shutdown.New()
	q := queue.New[uint64]()
	a := appender.New(file, appender.BuildRepeatBuffer("hello", 1024))
	r := throughput.NewReporter(os.Stdout)

	go a.Run(flag, q)
	err := r.Run(ctx, flag, q)
*/
package greatappender
