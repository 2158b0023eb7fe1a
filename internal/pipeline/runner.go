package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/hevcshrink/internal/config"
	"github.com/backmassage/hevcshrink/internal/display"
	"github.com/backmassage/hevcshrink/internal/ffmpeg"
	"github.com/backmassage/hevcshrink/internal/ledger"
	"github.com/backmassage/hevcshrink/internal/logging"
	"github.com/backmassage/hevcshrink/internal/probe"
)

// errStopped ends the walk early after an interrupt.
var errStopped = errors.New("stopped")

// Runner drives one batch run over Root.
type Runner struct {
	Root    string
	Log     *logging.Logger
	Encoder ffmpeg.Encoder
	Prober  probe.Prober
	Replace func(src, dst string) error // nil means fsx.Replace
	Report  io.Writer                   // end-of-run report; nil means os.Stdout

	LedgerOptions []ledger.Option

	walker *Walker
}

// New returns a Runner wired to the real ffmpeg and ffprobe named in cfg.
func New(cfg *config.Config, log *logging.Logger) *Runner {
	return &Runner{
		Root:    cfg.Root,
		Log:     log,
		Encoder: ffmpeg.NewExec(cfg.FfmpegBin),
		Prober:  probe.New(cfg.FfprobeBin),
		Report:  os.Stdout,
	}
}

// Run is the top-level batch entry point.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	return New(cfg, log).Run(ctx)
}

// Run walks Root and transcodes every eligible file that the ledger does not
// already cover. Per-file problems are recorded and reported; the returned
// error is non-nil only for fatal conditions (encoder launch, clock, ledger
// persist), after a best-effort flush of the ledger.
//
// Cancelling ctx stops the run between files; the ledger is still reported
// and persisted and the error is nil.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	opts := append([]ledger.Option{ledger.WithDebug(r.Log)}, r.LedgerOptions...)
	led := ledger.Load(ledgerDir(r.Root), opts...)
	logBatchHeader(r.Log, r.Root, led)

	job := &Job{Encoder: r.Encoder, Prober: r.Prober, Replace: r.Replace, Log: r.Log}
	walker := r.walker
	if walker == nil {
		walker = &Walker{}
	}
	walker.OnSkip = func(path string, reason ledger.Reason, err error) {
		stats.Skipped++
		led.MarkSkipped(path, reason, err)
		if err != nil {
			r.Log.Warn("Skipping %s: %s: %v", path, reason, err)
		} else {
			r.Log.Warn("Skipping %s: %s", path, reason)
		}
	}
	walker.OnIgnore = func(path string) {
		r.Log.Debug("Ignoring %s", path)
	}

	persistFailed := false
	walkErr := walker.Walk(r.Root, func(e Entry) error {
		if ctx.Err() != nil {
			return errStopped
		}
		stats.Candidates++

		if led.IsProcessed(e.Path, ledger.Signal(e.Info)) {
			stats.AlreadyDone++
			led.MarkSkipped(e.Path, ledger.AlreadyProcessed, nil)
			r.Log.Debug("Already processed: %s", e.Path)
			return nil
		}

		res, err := job.Run(e)
		var f *ledger.Failure
		switch {
		case errors.As(err, &f):
			stats.Failed++
			led.MarkSkipped(e.Path, f.Reason, f.Err)
			r.Log.Error("%s: %v", e.Path, f)
			return nil
		case err != nil:
			return err
		}

		if err := led.MarkProcessed(e.Path, res.SizeBefore, res.SizeAfter); err != nil {
			return err
		}
		stats.Shrunk++
		r.Log.Success("%s: %s -> %s (%s)", filepath.Base(e.Path),
			display.FormatSize(res.SizeBefore), display.FormatSize(res.SizeAfter),
			display.FormatSizeDelta(res.SizeBefore, res.SizeAfter))

		if err := led.Persist(); err != nil {
			persistFailed = true
			return err
		}
		return nil
	})

	switch {
	case errors.Is(walkErr, errStopped):
		stats.Interrupted = true
		r.Log.Warn("Interrupted, stopping before the next file")
	case walkErr != nil:
		if !persistFailed {
			if err := led.Persist(); err != nil {
				r.Log.Error("Could not save ledger while aborting: %v", err)
			}
		}
		return stats, fmt.Errorf("aborting run: %w", walkErr)
	}

	report := r.Report
	if report == nil {
		report = os.Stdout
	}
	stats.Report = led.DrainAndReport(report)
	if err := led.Persist(); err != nil {
		return stats, fmt.Errorf("aborting run: %w", err)
	}

	logSummary(r.Log, &stats)
	return stats, nil
}

// ledgerDir is the root itself for a directory, or its parent otherwise.
func ledgerDir(root string) string {
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		return root
	}
	return filepath.Dir(root)
}

// --- Logging helpers ---

func logBatchHeader(log *logging.Logger, root string, led *ledger.Ledger) {
	log.Info("Root: %s", root)
	log.Info("Ledger: %s (%d record(s))", led.Path(), led.Len())
	log.Info("Codec: HEVC (%s, CRF %s), audio copied", ffmpeg.VideoCodec, ffmpeg.CRF)
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d shrunk, %d already done, %d failed, %d skipped",
		stats.Shrunk, stats.AlreadyDone, stats.Failed, stats.Skipped)
	log.Info("  Candidates seen: %d", stats.Candidates)

	sum := stats.Report
	if sum.Shrunk == 0 {
		return
	}
	saved := sum.Saved()
	in, out := sum.TotalBefore, sum.TotalAfter
	if saved >= 0 {
		log.Success("  Total space saved: %s, %.1f%% (input %s -> output %s)",
			display.FormatSize(uint64(saved)), display.SavedPercent(in, out),
			display.FormatSize(in), display.FormatSize(out))
	} else {
		log.Warn("  Total space saved: -%s (overall output is larger)",
			display.FormatSize(uint64(-saved)))
	}
}
