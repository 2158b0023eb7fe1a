package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// stderrTail is how much trailing stderr is kept for [Hint].
const stderrTail = 8 << 10

// Encoder transcodes input into output. Implementations report progress as
// they see fit; they return *LaunchError when the encoder cannot be started.
type Encoder interface {
	Encode(input, output string) error
}

// Exec is the Encoder that runs the ffmpeg binary at Bin. The live progress
// line goes to Progress (os.Stderr when nil).
//
// The encoder runs to completion: there is no timeout, and an interrupt
// reaches ffmpeg through the terminal's process group rather than from here.
type Exec struct {
	Bin      string
	Progress io.Writer
}

// NewExec returns an Exec running bin with progress on os.Stderr.
func NewExec(bin string) *Exec {
	return &Exec{Bin: bin, Progress: os.Stderr}
}

// Encode runs the fixed encode command, streaming stderr through a
// [ProgressParser] until the process exits.
func (e *Exec) Encode(input, output string) error {
	args := Build(e.Bin, input, output)
	cmd := exec.Command(args[0], args[1:]...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &LaunchError{Bin: e.Bin, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &LaunchError{Bin: e.Bin, Err: err}
	}

	out := e.Progress
	if out == nil {
		out = os.Stderr
	}
	parser := NewProgressParser(out)
	parser.Start()
	tail := &tailBuffer{max: stderrTail}

	// Copy errors only mean the pipe closed early; Wait reports the cause.
	_, _ = io.Copy(io.MultiWriter(parser, tail), stderr)
	parser.Finish()

	if err := cmd.Wait(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &ExitError{Code: ee.ExitCode(), Hint: Hint(tail.String())}
		}
		return fmt.Errorf("wait for %s: %w", e.Bin, err)
	}
	return nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		copy(t.buf, t.buf[over:])
		t.buf = t.buf[:t.max]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
