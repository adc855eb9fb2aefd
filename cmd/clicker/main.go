package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

type config struct {
	bindings    autoclicker.Bindings
	startRaw    string
	stopRaw     string
	backend     string
	devicePath  string
	listDevices bool
	captureKey  bool
	cli         bool
	secondsRaw  string
	millisRaw   string
	delayMillis int
	logLevel    slog.Level
	debug       bool
}

type lineSinkWriter struct {
	sink  func(line string)
	mu    sync.Mutex
	lines bytes.Buffer
}

func (w *lineSinkWriter) Write(p []byte) (int, error) {
	if w.sink == nil {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	total := len(p)
	for len(p) > 0 {
		idx := bytes.IndexByte(p, '\n')
		if idx == -1 {
			_, _ = w.lines.Write(p)
			break
		}
		_, _ = w.lines.Write(p[:idx])
		line := strings.TrimSpace(w.lines.String())
		w.lines.Reset()
		if line != "" {
			w.sink(line)
		}
		p = p[idx+1:]
	}
	return total, nil
}

// newSlogLogger discards everything unless debug is set. With debug, records
// go to stderr and, when sink is non-nil, to sink one line at a time.
func newSlogLogger(level slog.Level, debug bool, stderr io.Writer, sink func(line string)) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: level,
		}))
	}

	out := stderr
	if sink != nil {
		out = io.MultiWriter(stderr, &lineSinkWriter{sink: sink})
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func parseConfig(args []string, output io.Writer) (config, error) {
	var cfg config
	flags := flag.NewFlagSet("clicker", flag.ContinueOnError)
	flags.SetOutput(output)

	var backendRaw string
	var logLevelRaw string
	defaults := autoclicker.DefaultBindings()

	flags.StringVar(&cfg.startRaw, "start-key", formatCodeName(defaults.StartCode), "Key that starts clicking. Example: KEY_F6, F6 or a numeric code.")
	flags.StringVar(&cfg.stopRaw, "stop-key", formatCodeName(defaults.StopCode), "Key that stops clicking.")
	flags.StringVar(&backendRaw, "backend", "auto", backendFlagUsage())
	flags.StringVar(&cfg.devicePath, "device", "", "Keyboard event device to read hotkeys from, e.g. /dev/input/event4. Auto-detected if omitted.")
	flags.BoolVar(&cfg.listDevices, "list-devices", false, "Print available input devices and exit.")
	flags.BoolVar(&cfg.captureKey, "capture-key", false, "Wait for the next key press, print its code name and exit.")
	flags.BoolVar(&cfg.cli, "cli", false, "Run without a window. Hotkeys start and stop clicking with the --seconds/--millis delay.")
	flags.StringVar(&cfg.secondsRaw, "seconds", "0", "Delay seconds component (--cli only).")
	flags.StringVar(&cfg.millisRaw, "millis", "0", "Delay milliseconds component (--cli only).")
	flags.StringVar(&logLevelRaw, "log-level", "info", "Log verbosity (default: info). Allowed: debug, info, warning, error.")
	flags.BoolVar(&cfg.debug, "debug", false, "Write logs to stderr and show a log pane in the window.")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}
	if cfg.listDevices && cfg.captureKey {
		return cfg, fmt.Errorf("--list-devices and --capture-key are mutually exclusive")
	}

	startCode, err := parseKeyCode(cfg.startRaw)
	if err != nil {
		return cfg, fmt.Errorf("--start-key: %w", err)
	}
	stopCode, err := parseKeyCode(cfg.stopRaw)
	if err != nil {
		return cfg, fmt.Errorf("--stop-key: %w", err)
	}
	cfg.bindings = autoclicker.Bindings{StartCode: startCode, StopCode: stopCode}
	if err := cfg.bindings.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid hotkeys: %w", err)
	}

	if cfg.cli {
		delay, err := autoclicker.ValidateAndComputeDelay(cfg.secondsRaw, cfg.millisRaw)
		if err != nil {
			return cfg, fmt.Errorf("--seconds/--millis: %w", err)
		}
		cfg.delayMillis = delay
	}

	parsedLevel, err := parseLogLevel(logLevelRaw)
	if err != nil {
		return cfg, err
	}
	backendChoice, err := parseBackendChoice(backendRaw)
	if err != nil {
		return cfg, err
	}

	cfg.backend = backendChoice
	cfg.logLevel = parsedLevel
	return cfg, nil
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.listDevices {
		if err := listInputDevices(cfg.backend, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if cfg.captureKey {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		fmt.Fprintln(stderr, "Press a key...")
		code, err := captureNextCode(ctx, cfg.backend, cfg.devicePath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s (%d)\n", formatCodeName(code), code)
		return 0
	}

	var logPane *uiLog
	var sink func(line string)
	if cfg.debug && !cfg.cli {
		logPane = newUILog(maxUILogLines)
		sink = logPane.Append
	}
	logger := newSlogLogger(cfg.logLevel, cfg.debug, stderr, sink)

	runtime, err := openRuntime(cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if isPermissionError(err) {
			fmt.Fprintln(stderr, permissionDeniedHint())
		}
		return 1
	}
	defer runtime.Stop()

	if cfg.cli {
		if err := runCLI(cfg, runtime, logger, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if err := runUI(cfg, runtime, logger, logPane); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
