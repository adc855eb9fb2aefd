package main

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if cfg.bindings != autoclicker.DefaultBindings() {
		t.Fatalf("bindings=%+v, want %+v", cfg.bindings, autoclicker.DefaultBindings())
	}
	if cfg.startRaw != formatCodeName(autoclicker.KeyF1Code) || cfg.stopRaw != formatCodeName(autoclicker.KeyF2Code) {
		t.Fatalf("key flag defaults=%q/%q, want names of F1/F2", cfg.startRaw, cfg.stopRaw)
	}
	if cfg.backend != "auto" {
		t.Fatalf("backend=%q, want auto", cfg.backend)
	}
	if cfg.logLevel != slog.LevelInfo {
		t.Fatalf("logLevel=%v, want info", cfg.logLevel)
	}
	if cfg.debug || cfg.cli || cfg.listDevices || cfg.captureKey {
		t.Fatalf("unexpected mode flags set: %+v", cfg)
	}
}

func TestParseConfigCustomKeys(t *testing.T) {
	cfg, err := parseConfig([]string{"--start-key", "F6", "--stop-key", "KEY_F7"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if cfg.bindings.StartCode != 64 || cfg.bindings.StopCode != 65 {
		t.Fatalf("bindings=%+v, want F6/F7 (64/65)", cfg.bindings)
	}
}

func TestParseConfigCLIDelay(t *testing.T) {
	cfg, err := parseConfig([]string{"--cli", "--seconds", "1", "--millis", "500"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if cfg.delayMillis != 1500 {
		t.Fatalf("delayMillis=%d, want 1500", cfg.delayMillis)
	}

	_, err = parseConfig([]string{"--cli", "--millis", "10"}, io.Discard)
	if !errors.Is(err, autoclicker.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}

	// The delay flags only matter in CLI mode.
	if _, err := parseConfig([]string{"--millis", "abc"}, io.Discard); err != nil {
		t.Fatalf("window mode should ignore --millis, got %v", err)
	}
}

func TestParseConfigRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "same keys", args: []string{"--start-key", "F3", "--stop-key", "KEY_F3"}},
		{name: "unknown key", args: []string{"--start-key", "KEY_DOES_NOT_EXIST"}},
		{name: "bad log level", args: []string{"--log-level", "loud"}},
		{name: "bad backend", args: []string{"--backend", "carrier-pigeon"}},
		{name: "exclusive modes", args: []string{"--list-devices", "--capture-key"}},
		{name: "extra args", args: []string{"now"}},
		{name: "unknown flag", args: []string{"--cps", "16"}},
	}

	for _, tc := range tests {
		if _, err := parseConfig(tc.args, io.Discard); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestRunExitCodesForFlags(t *testing.T) {
	if code := run([]string{"--bogus"}, io.Discard, io.Discard); code != 2 {
		t.Fatalf("run(--bogus)=%d, want 2", code)
	}
	if code := run([]string{"-h"}, io.Discard, io.Discard); code != 0 {
		t.Fatalf("run(-h)=%d, want 0", code)
	}

	_, err := parseConfig([]string{"-h"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{raw: "debug", want: slog.LevelDebug},
		{raw: " INFO ", want: slog.LevelInfo},
		{raw: "warn", want: slog.LevelWarn},
		{raw: "warning", want: slog.LevelWarn},
		{raw: "error", want: slog.LevelError},
	}
	for _, tc := range tests {
		got, err := parseLogLevel(tc.raw)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) returned error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q)=%v, want %v", tc.raw, got, tc.want)
		}
	}
	if _, err := parseLogLevel("trace"); err == nil {
		t.Fatalf("parseLogLevel(trace) expected error")
	}
}

func TestLineSinkWriterSplitsLines(t *testing.T) {
	var got []string
	w := &lineSinkWriter{sink: func(line string) { got = append(got, line) }}

	for _, chunk := range []string{"first\nsec", "ond\n", "\n   \n", "tail"} {
		n, err := w.Write([]byte(chunk))
		if err != nil || n != len(chunk) {
			t.Fatalf("Write(%q)=%d,%v", chunk, n, err)
		}
	}

	want := []string{"first", "second"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines=%q, want %q", got, want)
	}
}

func TestNewSlogLoggerDiscardsWithoutDebug(t *testing.T) {
	var stderr strings.Builder
	var lines []string

	quiet := newSlogLogger(slog.LevelDebug, false, &stderr, func(line string) { lines = append(lines, line) })
	quiet.Info("hidden")
	if stderr.Len() != 0 || len(lines) != 0 {
		t.Fatalf("expected no output without debug, got %q and %q", stderr.String(), lines)
	}

	loud := newSlogLogger(slog.LevelInfo, true, &stderr, func(line string) { lines = append(lines, line) })
	loud.Debug("below level")
	loud.Info("shown", "key", "F1")
	if !strings.Contains(stderr.String(), "msg=shown") {
		t.Fatalf("stderr missing record: %q", stderr.String())
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "key=F1") {
		t.Fatalf("sink lines=%q, want one record with key=F1", lines)
	}
}
