// Package ledger is the durable record of files that were already shrunk,
// plus the per-run views (newly shrunk, skipped) the end-of-run report is
// built from.
//
// The durable map is rewritten in full on every [Ledger.Persist]. The
// per-run views live only in memory and are emptied by
// [Ledger.DrainAndReport].
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/hevcshrink/internal/fsx"
)

// StateFile is the ledger's file name inside the ledger directory.
const StateFile = ".hevcshrink.json"

// FileRecord is the durable entry for one shrunk file. All three fields are
// written together, and only after a complete success.
type FileRecord struct {
	SizeBefore uint64 `json:"size_before"`
	SizeAfter  uint64 `json:"size_after"`
	MarkedAt   uint64 `json:"marked_at"`
}

// Debugger receives diagnostics that are only interesting with --verbose.
// *logging.Logger satisfies it.
type Debugger interface {
	Debug(format string, args ...interface{})
}

type nopDebugger struct{}

func (nopDebugger) Debug(string, ...interface{}) {}

type addedRecord struct {
	path   string
	record FileRecord
}

// Ledger owns the durable map and the per-run views. It is not safe for
// concurrent use; the runner is its only caller.
type Ledger struct {
	dir     string
	records map[string]FileRecord
	added   []addedRecord
	skipped []SkipEntry
	stamp   StampFunc
	log     Debugger
}

// Option configures a Ledger at load time.
type Option func(*Ledger)

// WithStamp overrides the MarkedAt source (default [DefaultStamp]).
func WithStamp(fn StampFunc) Option {
	return func(l *Ledger) { l.stamp = fn }
}

// WithDebug routes load diagnostics to d.
func WithDebug(d Debugger) Option {
	return func(l *Ledger) {
		if d != nil {
			l.log = d
		}
	}
}

// Load reads dir/StateFile. A missing or unparsable file yields an empty
// ledger; the reason is reported through the Debugger, never as an error.
func Load(dir string, opts ...Option) *Ledger {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	l := &Ledger{
		dir:     filepath.Clean(dir),
		records: make(map[string]FileRecord),
		stamp:   DefaultStamp,
		log:     nopDebugger{},
	}
	for _, opt := range opts {
		opt(l)
	}

	data, err := os.ReadFile(l.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
		l.log.Debug("No ledger at %s, starting empty", l.Path())
		return l
	case err != nil:
		l.log.Debug("Ledger %s unreadable, starting empty: %v", l.Path(), err)
		return l
	}

	var records map[string]FileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		l.log.Debug("Ledger %s unparsable, starting empty: %v", l.Path(), err)
		return l
	}
	for k, v := range records {
		l.records[k] = v
	}
	l.log.Debug("Loaded %d ledger record(s) from %s", len(l.records), l.Path())
	return l
}

// Path returns the state file location.
func (l *Ledger) Path() string { return filepath.Join(l.dir, StateFile) }

// Len returns the number of durable records.
func (l *Ledger) Len() int { return len(l.records) }

// Key maps a file path to its ledger key: slash-separated and relative to
// the ledger directory, or the cleaned absolute path when outside it.
func (l *Ledger) Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	rel, err := filepath.Rel(l.dir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// Record returns the durable record for path, if any. Runs only consult
// [Ledger.IsProcessed]; Record is for inspecting a loaded ledger.
func (l *Ledger) Record(path string) (FileRecord, bool) {
	r, ok := l.records[l.Key(path)]
	return r, ok
}

// IsProcessed reports whether path has a record whose MarkedAt is at least
// signal (see [Signal]).
func (l *Ledger) IsProcessed(path string, signal uint64) bool {
	r, ok := l.records[l.Key(path)]
	return ok && r.MarkedAt >= signal
}

// MarkProcessed stamps and stores the record for path, overwriting any
// previous one, and adds it to this run's report. A stamp failure leaves the
// ledger unchanged and must abort the run.
func (l *Ledger) MarkProcessed(path string, sizeBefore, sizeAfter uint64) error {
	at, err := l.stamp(path)
	if err != nil {
		return fmt.Errorf("stamp %s: %w", path, err)
	}
	rec := FileRecord{SizeBefore: sizeBefore, SizeAfter: sizeAfter, MarkedAt: at}
	l.records[l.Key(path)] = rec
	l.added = append(l.added, addedRecord{path: path, record: rec})
	return nil
}

// MarkSkipped appends path to this run's skip log. err may be nil.
func (l *Ledger) MarkSkipped(path string, reason Reason, err error) {
	entry := SkipEntry{Path: path, Reason: reason}
	if err != nil {
		entry.Detail = err.Error()
	}
	l.skipped = append(l.skipped, entry)
}

// Persist rewrites the state file with the full durable map. The per-run
// views are not written. A failure here must abort the run.
func (l *Ledger) Persist() error {
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	data = append(data, '\n')
	if err := fsx.WriteFileAtomic(l.dir, StateFile, data, 0o644); err != nil {
		return fmt.Errorf("persist ledger %s: %w", l.Path(), err)
	}
	return nil
}
