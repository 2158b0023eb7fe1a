// Package term owns colour state and terminal detection.
//
// Colours are package-level [color.Color] values because several packages
// (logging, display) share them. [Configure] resolves the
// colour mode once during startup and flips [color.NoColor]; when colours are
// disabled every Sprint call returns its input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/fatih/color"
	xterm "golang.org/x/term"

	"github.com/backmassage/hevcshrink/internal/config"
)

// Level colours.
var (
	Red     = color.New(color.FgHiRed, color.Bold)
	Green   = color.New(color.FgHiGreen, color.Bold)
	Yellow  = color.New(color.FgHiYellow, color.Bold)
	Blue    = color.New(color.FgHiBlue, color.Bold)
	Cyan    = color.New(color.FgHiCyan)
	Magenta = color.New(color.FgHiMagenta, color.Bold)
)

// Configure resolves the colour mode and sets the global fatih/color switch.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	color.NoColor = !resolve(mode)
}

// resolve determines whether colours should be enabled based on the
// configured mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}
