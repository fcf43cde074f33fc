/*
Package throughput measures and prints append throughput.

A Meter converts cumulative byte counts into a Sample holding the total,
the instant rate since the previous sample and the average rate since the
meter was created. Both rates use whole elapsed seconds. Two samples less
than a second apart therefore divide by zero; the instant rate then reads
MaxUint64 ("16 EiB/s") when bytes were written and 0 otherwise. This is an
artifact of the timing resolution and is reported as is.

A Reporter drains a queue.Receiver[uint64] and renders

	Written 1.2 GiB	300 MiB/s	410 MiB/s

In verbose mode the line is rewritten in place after every sample. On
shutdown exactly one final line is printed, followed by a newline.
*/
package throughput
