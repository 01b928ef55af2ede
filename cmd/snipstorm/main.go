// Package main is the entry point for the snipstorm expansion engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/snipstorm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, interactive := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
		application.Shutdown()
	}()

	if interactive {
		err = runInteractive(application)
	} else {
		err = runPipe(application, os.Stdin, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var interactive bool
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to settings file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to settings file (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload match files on change")
	flag.BoolVar(&opts.Watch, "w", false, "Reload match files on change (shorthand)")
	flag.BoolVar(&interactive, "interactive", false, "Interactive terminal mode")
	flag.BoolVar(&interactive, "i", false, "Interactive terminal mode (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Snipstorm - text expansion engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: snipstorm [options] <match-file>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snipstorm matches.yml               Expand stdin, JSON lines on stdout\n")
		fmt.Fprintf(os.Stderr, "  snipstorm -i matches.yml            Interactive terminal demo\n")
		fmt.Fprintf(os.Stderr, "  snipstorm -w base.yml extra.json    Reload match files on change\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Snipstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.MatchPaths = flag.Args()
	if len(opts.MatchPaths) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no match files given\n\n")
		flag.Usage()
		os.Exit(1)
	}

	return opts, interactive
}
