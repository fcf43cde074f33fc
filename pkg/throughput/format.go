package throughput

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ClearLine erases the current terminal line and moves the cursor to its
// start, so the next status line overwrites the previous one.
const ClearLine = "\x1b[2K\x1b[1000D"

// FormatStatus renders s as "Written <total>\t<instant>/s\t<average>/s"
// with IEC byte units, e.g. "Written 1.2 MiB\t600 KiB/s\t1.2 MiB/s".
func FormatStatus(s Sample) string {
	return fmt.Sprintf("Written %s\t%s/s\t%s/s",
		humanize.IBytes(s.Total),
		humanize.IBytes(s.Instant),
		humanize.IBytes(s.Average),
	)
}
