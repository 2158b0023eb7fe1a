package pipeline

import (
	"errors"
	"os"

	"github.com/backmassage/hevcshrink/internal/ffmpeg"
	"github.com/backmassage/hevcshrink/internal/fsx"
	"github.com/backmassage/hevcshrink/internal/ledger"
	"github.com/backmassage/hevcshrink/internal/logging"
	"github.com/backmassage/hevcshrink/internal/probe"
)

// Result is the outcome of a successful job.
type Result struct {
	SizeBefore uint64
	SizeAfter  uint64
}

// Job transcodes one eligible file in place.
type Job struct {
	Encoder ffmpeg.Encoder
	Prober  probe.Prober // optional
	Replace func(src, dst string) error
	Log     *logging.Logger
}

// Run probes, encodes, validates and replaces e.Path.
//
// Recoverable problems come back as *ledger.Failure and leave the original
// untouched. Any other error (an encoder that cannot be launched) is fatal
// to the run.
func (j *Job) Run(e Entry) (Result, error) {
	j.Log.Encode("Compressing %s...", e.Path)
	j.logDuration(e.Path)

	out := ffmpeg.OutputPath(e.Path)
	if err := j.Encoder.Encode(e.Path, out); err != nil {
		var le *ffmpeg.LaunchError
		if errors.As(err, &le) {
			return Result{}, err
		}
		if rmErr := os.Remove(out); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			j.Log.Warn("Could not remove partial output %s: %v", out, rmErr)
		}
		return Result{}, ledger.Fail(ledger.EncodeFailed, err)
	}

	sizeAfter, err := outputSize(out)
	if err != nil {
		return Result{}, ledger.Fail(ledger.OutputUnreadable, err)
	}

	replace := j.Replace
	if replace == nil {
		replace = fsx.Replace
	}
	if err := replace(out, e.Path); err != nil {
		if fsx.IsCrossDevice(err) {
			j.Log.Warn("%s and its output are on different filesystems", e.Path)
		}
		j.Log.Warn("Transcoded file kept at %s", out)
		return Result{}, ledger.Fail(ledger.Override, err)
	}

	return Result{SizeBefore: uint64(e.Info.Size()), SizeAfter: sizeAfter}, nil
}

// logDuration prints the source's duration when it can be probed. Probe
// failures never fail the job.
func (j *Job) logDuration(path string) {
	if j.Prober == nil {
		return
	}
	d, err := j.Prober.Duration(path)
	if err != nil {
		j.Log.Debug("Duration probe failed: %v", err)
		return
	}
	j.Log.Info("Video length: %s", probe.FormatDuration(d))
}

// outputSize opens the encoder output and returns its size. Opening (not
// just stat'ing) proves the file is readable.
func outputSize(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}
