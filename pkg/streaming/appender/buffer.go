package appender

import "bytes"

// BuildRepeatBuffer returns whole repetitions of message followed by a
// newline, stopping once the buffer holds at least size bytes. A repetition
// is never truncated, and the result always holds at least one repetition,
// even for size <= 0.
func BuildRepeatBuffer(message string, size int) []byte {
	line := len(message) + 1
	reps := 1
	if size > line {
		reps = (size + line - 1) / line
	}

	var buf bytes.Buffer
	buf.Grow(reps * line)
	for written := 0; ; {
		buf.WriteString(message)
		buf.WriteByte('\n')
		written += line
		if written >= size {
			break
		}
	}
	return buf.Bytes()
}
