// ABOUTME: CLI entry point for ry, a raw-mode key probe with terminal crash recovery
// ABOUTME: Loads config, enters raw mode, prints the screen size and each key name until the quit key

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/ry-go/internal/config"
	rylog "github.com/mauromedda/ry-go/internal/log"
	"github.com/mauromedda/ry-go/pkg/key"
	"github.com/mauromedda/ry-go/pkg/ry"
	"github.com/mauromedda/ry-go/pkg/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("ry %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "ry: error: %v\n", err)
		terminal.Exit(1)
	}
	terminal.Exit(0)
}

// run loads settings, opens a raw-mode session and runs the probe loop next
// to the signal, resize, and config watchers.
func run(args cliArgs) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := loadSettings(args, cwd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg, args.verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	quit, _ := key.ParseName(cfg.QuitKey)

	pt := terminal.NewProcessTerminal(cfg.ReadTimeout)
	sess, err := ry.NewSession(pt)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer sess.Close()
	defer terminal.RestoreOnPanic(pt)

	// OPOST is off: log lines need explicit carriage returns.
	rylog.SetRawTerminal(true)
	defer rylog.SetRawTerminal(false)

	out := &printer{w: pt}

	w, h, err := sess.ScreenSize()
	if err != nil {
		return err
	}
	out.printf("size %dx%d", w, h)
	if args.size {
		return nil
	}
	out.printf("press %s to quit", quit.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	goGuarded(g, pt, func() error {
		return terminal.WatchSignals(gctx)
	})
	goGuarded(g, pt, func() error {
		return pt.WatchResize(gctx, func(w, h int) {
			out.printf("resize %dx%d", w, h)
		})
	})
	if args.config == "" {
		watcher := config.NewWatcher(0, config.GlobalConfigFile(), config.ProjectConfigFile(cwd))
		goGuarded(g, pt, func() error {
			return watcher.Run(gctx, func() { reloadLogLevel(cwd) })
		})
	}
	goGuarded(g, pt, func() error {
		defer cancel()
		return probeKeys(gctx, sess, quit, out)
	})

	return g.Wait()
}

// goGuarded runs fn in g. A panic restores t and fails the group, so the
// process exits non-zero with the terminal cooked.
func goGuarded(g *errgroup.Group, t terminal.Terminal, fn func() error) {
	g.Go(func() (err error) {
		defer terminal.RecoverError(t, &err)
		return fn()
	})
}

// probeKeys prints key names until quit arrives or ctx is cancelled.
func probeKeys(ctx context.Context, sess *ry.Session, quit key.Key, out *printer) error {
	for {
		k, err := sess.NextKey(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		// Rune names are raw bytes; print the quoted form so control bytes
		// like SO or FF never reach the terminal.
		out.printf("key %s", k)
		if k.Name() == quit.Name() {
			return nil
		}
	}
}

// loadSettings reads the configuration and applies flag overrides.
func loadSettings(args cliArgs, cwd string) (*config.Settings, error) {
	var (
		cfg *config.Settings
		err error
	)
	if args.config != "" {
		cfg, err = config.LoadFile(args.config)
	} else {
		cfg, err = config.Load(cwd)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if args.timeout > 0 {
		cfg.ReadTimeout = args.timeout
	}
	if args.quit != "" {
		cfg.QuitKey = args.quit
	}
	if args.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// setupLogging applies the level and, when log_file is set, redirects log
// output to that file. The returned func closes the file.
func setupLogging(cfg *config.Settings, verbose bool) (func(), error) {
	level, err := rylog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		level = rylog.LevelDebug
	}
	rylog.SetLevel(level)

	if cfg.LogFile == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	rylog.SetOutput(f)
	return func() {
		rylog.SetOutput(nil)
		f.Close()
	}, nil
}

// reloadLogLevel re-reads the config files after a change. Only the log
// level is applied live; other fields need a restart.
func reloadLogLevel(cwd string) {
	cfg, err := config.Load(cwd)
	if err != nil {
		rylog.Warn("config reload: %v", err)
		return
	}
	level, err := rylog.ParseLevel(cfg.LogLevel)
	if err != nil {
		rylog.Warn("config reload: log_level: %v", err)
		return
	}
	rylog.SetLevel(level)
	rylog.Info("config reloaded, log level %s", level)
}

// printer serializes CRLF-terminated lines from the key loop and the resize
// watcher.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format+"\r\n", args...)
}
