package ledger

// Freshness decision point.
//
// A record is current when its MarkedAt is >= the file's Signal (mtime).
// MarkedAt is stamped with the wall clock at the moment of success, so a
// file replaced by content whose mtime predates that moment (a restore from
// backup, a copy with preserved times) is wrongly treated as processed.
// Setting DefaultStamp to ModTimeStamp stamps the replaced file's own mtime
// instead and closes that gap.

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrClock is returned when the system clock reads before the Unix epoch.
var ErrClock = errors.New("system clock is before the Unix epoch")

// StampFunc yields the MarkedAt value for a file that was just replaced.
type StampFunc func(path string) (uint64, error)

// DefaultStamp is the stamp used by ledgers loaded without [WithStamp].
var DefaultStamp StampFunc = WallClock

// clock is swapped by tests.
var clock = time.Now

// WallClock stamps the current time in Unix seconds, ignoring path.
func WallClock(string) (uint64, error) {
	secs := clock().Unix()
	if secs < 0 {
		return 0, ErrClock
	}
	return uint64(secs), nil
}

// ModTimeStamp stamps the file's own modification time.
func ModTimeStamp(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return Signal(info), nil
}

// Signal returns the freshness signal of a file: its modification time in
// Unix seconds. Pre-epoch times clamp to 0.
func Signal(info os.FileInfo) uint64 {
	secs := info.ModTime().Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}
