// Package pipeline walks the input tree, decides which files need work, and
// drives one transcode at a time while keeping the ledger current.
//
// Files:
//   - discover.go: Walker (explicit stack, eligibility filter).
//   - job.go: Job, the probe → encode → validate → replace lifecycle of one file.
//   - runner.go: Runner, control flow and the fatal/recoverable split.
//   - stats.go: RunStats.
package pipeline
