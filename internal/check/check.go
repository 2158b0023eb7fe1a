// Package check provides system diagnostics (--check mode) and the
// pre-run dependency validation (CheckDeps) for ffmpeg, ffprobe and libx265.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/hevcshrink/internal/config"
	"github.com/backmassage/hevcshrink/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found")
	ErrNoX265         = errors.New("ffmpeg has no libx265 encoder")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, the libx265 encoder and the result of a tiny test encode. It
// returns false when anything the encode path needs is unusable. A missing
// ffprobe only costs the "Video length" line and is reported as a warning.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkVersion(log, "ffmpeg", cfg.FfmpegBin, true)
	checkVersion(log, "ffprobe", cfg.FfprobeBin, false)
	if !ok {
		return false
	}
	if !checkEncoderListed(log, cfg.FfmpegBin) {
		ok = false
	}
	if !checkTestEncode(log, cfg.FfmpegBin) {
		ok = false
	}
	return ok
}

// CheckDeps is the pre-run validation: ffmpeg must resolve and list
// libx265. ffprobe is optional.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FfmpegBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FfmpegBin)
	}
	out, err := exec.Command(cfg.FfmpegBin, "-hide_banner", "-encoders").Output()
	if err != nil {
		return fmt.Errorf("%s -encoders: %w", cfg.FfmpegBin, err)
	}
	if !strings.Contains(string(out), ffmpeg.VideoCodec) {
		return ErrNoX265
	}
	return nil
}

// checkVersion verifies bin resolves and logs its version line. Missing
// required tools log an error, optional ones a warning.
func checkVersion(log Logger, label, bin string, required bool) bool {
	report := log.Warn
	if required {
		report = log.Error
	}
	if _, err := exec.LookPath(bin); err != nil {
		report("%s not found (%s)", label, bin)
		return false
	}
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		report("%s found but -version failed: %v", label, err)
		return false
	}
	log.Success("%s: %s", label, firstLine(string(out)))
	return true
}

// checkEncoderListed looks for libx265 in ffmpeg's encoder list.
func checkEncoderListed(log Logger, bin string) bool {
	out, err := exec.Command(bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, ffmpeg.VideoCodec) {
			log.Success("Encoder: %s", strings.TrimSpace(line))
			return true
		}
	}
	log.Error("%s not listed by %s -encoders", ffmpeg.VideoCodec, bin)
	return false
}

// checkTestEncode runs a minimal libx265 encode to verify CPU encoding works.
func checkTestEncode(log Logger, bin string) bool {
	log.Info("Testing %s...", ffmpeg.VideoCodec)
	if err := exec.Command(bin, testEncodeArgs()...).Run(); err != nil {
		log.Error("%s test encode failed: %v", ffmpeg.VideoCodec, err)
		return false
	}
	log.Success("%s works", ffmpeg.VideoCodec)
	return true
}

// testEncodeArgs returns the ffmpeg arguments for a minimal test encode
// using the same codec and CRF as real jobs.
func testEncodeArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", ffmpeg.VideoCodec, "-crf", ffmpeg.CRF,
		"-x265-params", "log-level=error",
		"-f", "null", "-",
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}
