// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --timeout, --quit, --size, --verbose, --version

package main

import (
	"flag"
	"io"
	"time"
)

type cliArgs struct {
	config  string
	timeout time.Duration
	quit    string
	size    bool
	verbose bool
	version bool
}

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("ry", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&args.config, "config", "", "Read settings from this file instead of ~/.ry and ./.ry")
	fs.DurationVar(&args.timeout, "timeout", 0, "Raw-mode idle read timeout (e.g. 100ms, 1.5s)")
	fs.StringVar(&args.quit, "quit", "", "Key name that ends the probe (default ctrl-q)")
	fs.BoolVar(&args.size, "size", false, "Print the screen size and exit")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	return args, nil
}
