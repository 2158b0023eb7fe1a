package ledger

import "fmt"

// Reason classifies why a candidate was not transcoded. The set is closed;
// tests and the runner switch on it instead of matching error text.
type Reason int

const (
	ReadDir Reason = iota + 1
	Metadata
	NotRegular
	NotEligible
	AlreadyProcessed
	EncodeFailed
	OutputUnreadable
	Override
)

var reasonText = map[Reason]string{
	ReadDir:          "failed to read directory",
	Metadata:         "failed to read metadata",
	NotRegular:       "not a regular file",
	NotEligible:      "not an eligible source file",
	AlreadyProcessed: "already processed",
	EncodeFailed:     "encoder exited with an error",
	OutputUnreadable: "failed to open compressed file to read size",
	Override:         "failed to override file",
}

// String returns the human-readable category.
func (r Reason) String() string {
	if s, ok := reasonText[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Failure is the one error type for recoverable, per-file problems. The
// runner records it as a skip and moves on to the next file.
type Failure struct {
	Reason Reason
	Err    error
}

// Fail returns a Failure tagged with r wrapping err (which may be nil).
func Fail(r Reason, err error) *Failure {
	return &Failure{Reason: r, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Reason.String()
	}
	return f.Reason.String() + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// SkipEntry is one line of the per-run skip log. It is never persisted.
type SkipEntry struct {
	Path   string
	Reason Reason
	Detail string
}

func (s SkipEntry) String() string {
	if s.Detail == "" {
		return s.Reason.String()
	}
	return s.Reason.String() + ": " + s.Detail
}
