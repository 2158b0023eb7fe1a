package config

// This file implements CLI flag parsing and help text.
// Negated flags (e.g. --no-color) are applied after Parse so earlier layers
// (defaults, environment) hold unless the user passes the flag.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// ErrUsage marks errors caused by a malformed command line. The caller prints
// the usage text and exits with status 2.
var ErrUsage = errors.New("usage")

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil; command-line
// mistakes wrap [ErrUsage].
func ParseFlags(cfg *Config, version string, args []string) error {
	fs := flag.NewFlagSet("hevcshrink", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var negated negatedFlags
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			PrintUsage(os.Stdout, version)
			os.Exit(0)
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		PrintUsage(os.Stdout, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "hevcshrink v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force coloured logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable coloured logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, _ *Config, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies colour overrides into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets Root from the single positional arg when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: need exactly one path (got %d arguments)", ErrUsage, len(args))
	}
	cfg.Root = NormalizePathArg(args[0])
	return nil
}

// PrintUsage writes the help text to w. Column-aligned for readability.
func PrintUsage(w io.Writer, version string) {
	const col1 = 24 // width of "  -x, --long <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "hevcshrink v" + version + " - shrink .mp4/.mov files in place with x265"},
		{"", ""},
		{"  hevcshrink [OPTIONS] <path>", ""},
		{"", ""},
		{"<path> is a directory (walked recursively) or a single video file.", ""},
		{"Already shrunk files are remembered in .hevcshrink.json next to them.", ""},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force coloured logs"},
		{"  --no-color", "Disable coloured logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, x265)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}

	if env := envHelp(); env != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, env)
	}
}
