//go:build !linux && !windows

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sean-niemann/Clicker-Macro/internal/adapters/robotinput"
	"github.com/sean-niemann/Clicker-Macro/internal/adapters/wininput"
)

// The key table is the same Linux code space on every platform; here it is
// only used for the window shortcuts.
func parseKeyCode(value string) (uint16, error) {
	return wininput.ParseCode(value)
}

func formatCodeName(code uint16) string {
	return wininput.FormatCodeName(code)
}

func backendFlagUsage() string {
	return "Input backend: auto|robotgo."
}

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "robotgo":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (this platform supports auto|robotgo)", value)
	}
}

func listInputDevices(_ string, _ io.Writer) error {
	return fmt.Errorf("input device listing is not supported on this platform")
}

func captureNextCode(_ context.Context, _ string, _ string) (uint16, error) {
	return 0, fmt.Errorf("key capture is not supported on this platform")
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend. Grant the terminal or app accessibility access in the system settings."
}

func openRuntime(cfg config, logger *slog.Logger) (clickerRuntime, error) {
	rt, err := robotinput.NewRuntime(robotinput.RuntimeConfig{Bindings: cfg.bindings}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Backend", "name", "robotgo", "global_hotkeys", rt.GlobalHotkeys())
	return rt, nil
}
