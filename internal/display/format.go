package display

import (
	"fmt"
)

// sizeUnits are the scales FormatSize steps through, capped at GB.
var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize returns size scaled by repeated division by 1024 while the value
// exceeds 1024, stopping at GB (e.g. "1.50MB", "3072.00GB").
func FormatSize(size uint64) string {
	v := float64(size)
	unit := 0
	for v > 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f%s", v, sizeUnits[unit])
}

// FormatSizeDelta renders after-before with an explicit sign, e.g. "-1.20GB"
// for a file that shrank. Zero renders without a sign.
func FormatSizeDelta(before, after uint64) string {
	switch {
	case after > before:
		return "+" + FormatSize(after-before)
	case after < before:
		return "-" + FormatSize(before-after)
	}
	return FormatSize(0)
}

// FormatClock renders an hour/minute/second triple as HH:MM:SS. Hours are
// not wrapped, so long inputs render as e.g. "123:04:05".
func FormatClock(h, m, s uint64) string {
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// SavedPercent returns how much smaller after is than before, in percent.
// Growth yields a negative value; an empty before yields 0.
func SavedPercent(before, after uint64) float64 {
	if before == 0 {
		return 0
	}
	return (float64(before) - float64(after)) * 100 / float64(before)
}
