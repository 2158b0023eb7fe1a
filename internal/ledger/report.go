package ledger

import (
	"fmt"
	"io"

	"github.com/backmassage/hevcshrink/internal/display"
)

const separator = " ==== ==== ==== "

// Summary is what one DrainAndReport call printed.
type Summary struct {
	Shrunk      int
	Skipped     int
	TotalBefore uint64
	TotalAfter  uint64
}

// Saved returns the bytes reclaimed. Negative when outputs grew.
func (s Summary) Saved() int64 {
	return int64(s.TotalBefore) - int64(s.TotalAfter)
}

// DrainAndReport writes this run's shrunk files, then its skips, then the
// grand total, and empties both views. The durable map is untouched.
func (l *Ledger) DrainAndReport(w io.Writer) Summary {
	var sum Summary

	if len(l.added) > 0 {
		fmt.Fprintln(w, separator)
		for _, a := range l.added {
			sum.Shrunk++
			sum.TotalBefore += a.record.SizeBefore
			sum.TotalAfter += a.record.SizeAfter
			fmt.Fprintf(w, "Compressed `%s`: %s -> %s\n", a.path,
				display.FormatSize(a.record.SizeBefore), display.FormatSize(a.record.SizeAfter))
		}
		fmt.Fprintln(w, separator)
		fmt.Fprintln(w)
	}

	if len(l.skipped) > 0 {
		fmt.Fprintln(w, separator)
		for _, s := range l.skipped {
			sum.Skipped++
			fmt.Fprintf(w, "Skipped `%s`: %s\n", s.Path, s)
		}
		fmt.Fprintln(w, separator)
		fmt.Fprintln(w)
	}

	if sum.Shrunk > 0 {
		fmt.Fprintf(w, "Total compression: %s -> %s\n",
			display.FormatSize(sum.TotalBefore), display.FormatSize(sum.TotalAfter))
	}

	l.added = nil
	l.skipped = nil
	return sum
}
