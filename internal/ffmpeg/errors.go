package ffmpeg

import (
	"fmt"
	"regexp"
)

// LaunchError means the encoder process could not be started (missing
// binary, exec permission, pipe setup). The run cannot continue.
type LaunchError struct {
	Bin string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Bin, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitError means the encoder ran and exited non-zero.
type ExitError struct {
	Code int
	Hint string
}

func (e *ExitError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("ffmpeg exited with status %d", e.Code)
	}
	return fmt.Sprintf("ffmpeg exited with status %d (%s)", e.Code, e.Hint)
}

// Pre-compiled stderr classifiers, checked in order by [Hint].
var (
	reMissingEncoder = regexp.MustCompile(
		`(?i)Unknown encoder|Encoder .* not found|Unrecognized option 'crf'`)

	reInvalidInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|moov atom not found|` +
			`could not find codec parameters`)

	reMissingInput = regexp.MustCompile(`No such file or directory`)

	reDiskFull = regexp.MustCompile(`(?i)No space left on device`)

	reInterrupted = regexp.MustCompile(`(?i)Exiting normally, received signal|received signal 2|Immediate exit requested`)
)

// Hint maps encoder stderr to a short explanation, or "" when nothing
// recognisable was printed.
func Hint(stderr string) string {
	switch {
	case reMissingEncoder.MatchString(stderr):
		return "ffmpeg build lacks libx265"
	case reInvalidInput.MatchString(stderr):
		return "input is not a readable media file"
	case reMissingInput.MatchString(stderr):
		return "input disappeared"
	case reDiskFull.MatchString(stderr):
		return "no space left on device"
	case reInterrupted.MatchString(stderr):
		return "interrupted"
	}
	return ""
}
