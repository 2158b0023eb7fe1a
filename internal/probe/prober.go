package probe

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/floostack/transcoder/ffmpeg"
)

// ErrNoDuration is returned when ffprobe ran but reported no usable duration.
var ErrNoDuration = errors.New("no duration reported")

// Prober reports the playback duration of a media file.
type Prober interface {
	Duration(path string) (time.Duration, error)
}

// FFprobe is the Prober backed by the ffprobe binary at Bin.
type FFprobe struct {
	Bin string
}

// New returns an FFprobe that runs bin.
func New(bin string) *FFprobe {
	return &FFprobe{Bin: bin}
}

// Duration runs a single ffprobe metadata call against path.
func (p *FFprobe) Duration(path string) (time.Duration, error) {
	cfg := &ffmpeg.Config{FfprobeBinPath: p.Bin}
	metadata, err := ffmpeg.New(cfg).Input(path).GetMetadata()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	d, err := ParseDuration(metadata.GetFormat().GetDuration())
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return d, nil
}

// ParseDuration converts ffprobe's seconds string (e.g. "1437.123000") into
// a time.Duration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, ErrNoDuration
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("parse duration %q: %w", s, ErrNoDuration)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// FormatDuration renders d as HH:MM:SS, truncating fractional seconds.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
