//go:build windows

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sean-niemann/Clicker-Macro/internal/adapters/wininput"
)

func parseKeyCode(value string) (uint16, error) {
	return wininput.ParseCode(value)
}

func formatCodeName(code uint16) string {
	return wininput.FormatCodeName(code)
}

func backendFlagUsage() string {
	return "Input backend: auto|windows."
}

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "windows":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (windows supports auto|windows)", value)
	}
}

func listInputDevices(_ string, out io.Writer) error {
	fmt.Fprintln(out, "global: Windows low-level keyboard hook [physical, keyboard]")
	return nil
}

func captureNextCode(ctx context.Context, _ string, _ string) (uint16, error) {
	return wininput.CaptureNextKeyCode(ctx)
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend. Clicks cannot reach windows of elevated programs unless the clicker also runs elevated."
}

func openRuntime(cfg config, logger *slog.Logger) (clickerRuntime, error) {
	if cfg.devicePath != "" {
		logger.Warn("--device is ignored on Windows")
	}
	rt, err := wininput.NewRuntime(wininput.RuntimeConfig{Bindings: cfg.bindings}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Backend", "name", "windows")
	return rt, nil
}
