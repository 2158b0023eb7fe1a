// Package config holds runtime configuration: defaults, environment overlay,
// CLI flag parsing, and validation.
//
// Precedence, lowest to highest: [DefaultConfig] → environment ([LoadEnv]) →
// command-line flags ([ParseFlags]). The codec policy is fixed and is not
// part of the configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
)

// ColorMode controls coloured log output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colours when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colours on.
	ColorNever  ColorMode = "never"  // Disable colours entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [LoadEnv] and then mutated by [ParseFlags] before being passed
// (by pointer) to the packages that need it.
type Config struct {
	// Root is the single positional argument: a directory or one file.
	Root string

	// External tools.
	FfmpegBin  string `env:"HEVCSHRINK_FFMPEG" env-description:"ffmpeg binary (name on PATH or absolute path)" validate:"required"`
	FfprobeBin string `env:"HEVCSHRINK_FFPROBE" env-description:"ffprobe binary used for the duration probe" validate:"required"`

	// Display and logging.
	Verbose   bool      `env:"HEVCSHRINK_VERBOSE" env-description:"Verbose output (true|false)"`
	ColorMode ColorMode `env:"HEVCSHRINK_COLOR" env-description:"Log colours: auto | always | never" validate:"oneof=auto always never"`
	LogFile   string    `env:"HEVCSHRINK_LOG" env-description:"Append logs to this file"`
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with built-in defaults. Used as the base
// before [LoadEnv] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		FfmpegBin:  "ffmpeg",
		FfprobeBin: "ffprobe",
		Verbose:    false,
		ColorMode:  ColorAuto,
		CheckOnly:  false,
	}
}

var validate = validator.New()

// Validate checks enum and required fields. When not in CheckOnly mode it
// also requires the root path.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return err
	}
	if c.CheckOnly {
		return nil
	}
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("%w: need exactly one path", ErrUsage)
	}
	return nil
}

// describe turns a validator field error into a CLI-facing message.
func describe(fe validator.FieldError) error {
	switch fe.Field() {
	case "ColorMode":
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", fe.Value())
	case "FfmpegBin":
		return errors.New("ffmpeg binary must not be empty")
	case "FfprobeBin":
		return errors.New("ffprobe binary must not be empty")
	}
	return fmt.Errorf("invalid %s (%s)", fe.Field(), fe.Tag())
}

// ExpandPaths resolves "~" in Root and LogFile and makes Root absolute so
// ledger keys are stable regardless of the working directory.
func (c *Config) ExpandPaths() error {
	if c.Root != "" {
		root, err := homedir.Expand(c.Root)
		if err != nil {
			return fmt.Errorf("expand path %q: %w", c.Root, err)
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve path %q: %w", root, err)
		}
		c.Root = abs
	}
	if c.LogFile != "" {
		lf, err := homedir.Expand(c.LogFile)
		if err != nil {
			return fmt.Errorf("expand log path %q: %w", c.LogFile, err)
		}
		c.LogFile = lf
	}
	return nil
}

// NormalizePathArg strips trailing separators from a path argument.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizePathArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
