/*
Package appender implements the writer loop: it appends a fixed buffer to a
destination as fast as the destination accepts it.

# Repeat buffer

BuildRepeatBuffer precomputes the bytes issued on every write. It repeats
message plus a newline until the buffer reaches the requested size:

	buf := appender.BuildRepeatBuffer("x", 10) // "x\nx\nx\nx\nx\n"

The size is a minimum. The result is always a whole number of repetitions
and never empty.

# Writer loop

	f, _ := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	a := appender.New(f, buf)

	q := queue.New[uint64]()
	go func() {
		if err := a.Run(flag, q); err != nil {
			log.Fatal().Err(err).Msg("append")
		}
	}()

Run checks the stop flag before each write and publishes the cumulative
byte count after each write. Short writes count only the bytes the
destination accepted. Errors are fatal: the loop returns on the first
failed write without retrying.
*/
package appender
