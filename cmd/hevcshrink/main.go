// Command hevcshrink re-encodes .mp4/.mov files to HEVC in place and
// remembers what it already shrank, so re-runs over the same tree only touch
// new or changed files.
//
// It loads configuration (defaults, environment, flags), validates it, and
// either runs system diagnostics (--check) or the shrink pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/hevcshrink/internal/check"
	"github.com/backmassage/hevcshrink/internal/config"
	"github.com/backmassage/hevcshrink/internal/display"
	"github.com/backmassage/hevcshrink/internal/logging"
	"github.com/backmassage/hevcshrink/internal/pipeline"
	"github.com/backmassage/hevcshrink/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// Exit statuses.
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.LoadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "hevcshrink: %v\n", err)
		return exitFatal
	}
	if err := config.ParseFlags(&cfg, version, args); err != nil {
		return bootstrapError(err)
	}
	if err := cfg.Validate(); err != nil {
		return bootstrapError(err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		fmt.Fprintf(os.Stderr, "hevcshrink: %v\n", err)
		return exitFatal
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hevcshrink: %v\n", err)
		return exitFatal
	}
	defer log.Close()

	// Phase 2: Logger available.
	if term.IsTerminal(os.Stdout) {
		display.PrintBanner(os.Stdout)
	}

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return exitFatal
		}
		return exitOK
	}

	log.Info("=== hevcshrink v%s (%s) ===", version, commit)

	// Fail fast when ffmpeg itself is unusable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return exitFatal
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pipeline stops between files and still saves the ledger.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file...")
		cancel()
	}()

	// Phase 4: Run pipeline (walk → check ledger → encode → replace → report).
	if _, err := pipeline.Run(ctx, &cfg, log); err != nil {
		log.Error("%v", err)
		return exitFatal
	}
	return exitOK
}

// bootstrapError prints a configuration error. Usage mistakes also print the
// help text and map to exit status 2.
func bootstrapError(err error) int {
	fmt.Fprintf(os.Stderr, "hevcshrink: %v\n", err)
	if errors.Is(err, config.ErrUsage) {
		fmt.Fprintln(os.Stderr)
		config.PrintUsage(os.Stderr, version)
		return exitUsage
	}
	return exitFatal
}
