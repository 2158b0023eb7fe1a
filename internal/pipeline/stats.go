package pipeline

import "github.com/backmassage/hevcshrink/internal/ledger"

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Candidates  int // eligible files handed to the visitor
	Shrunk      int
	AlreadyDone int // fresh ledger record, not re-encoded
	Skipped     int // walk-level problems (unreadable dir, metadata, not regular)
	Failed      int // jobs that ended in a recoverable failure
	Interrupted bool

	// Report holds the byte totals of the end-of-run report. Zero when the
	// run aborted before reporting.
	Report ledger.Summary
}
