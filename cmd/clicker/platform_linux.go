//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sean-niemann/Clicker-Macro/internal/adapters/linuxinput"
	"github.com/sean-niemann/Clicker-Macro/internal/adapters/x11input"
	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

func parseKeyCode(value string) (uint16, error) {
	return linuxinput.ParseCode(value)
}

func formatCodeName(code uint16) string {
	return linuxinput.FormatCodeName(code)
}

func backendFlagUsage() string {
	return "Input backend: auto|evdev|x11. auto tries evdev (uinput) first and falls back to X11."
}

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "evdev", "x11":
		return backend, nil
	case "wayland", "uinput":
		return "evdev", nil
	default:
		return "", fmt.Errorf("invalid --backend %q (linux supports auto|evdev|x11)", value)
	}
}

func listInputDevices(_ string, out io.Writer) error {
	devices, err := linuxinput.ListInputDevices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		tags := []string{"physical"}
		if dev.IsVirtual {
			tags[0] = "virtual"
		}
		if dev.IsKeyboard {
			tags = append(tags, "keyboard")
		}
		if dev.IsPointer {
			tags = append(tags, "pointer")
		}
		fmt.Fprintf(out, "%s: %s [%s]\n", dev.Path, dev.Name, strings.Join(tags, ", "))
	}
	return nil
}

func captureNextCode(ctx context.Context, backend, devicePath string) (uint16, error) {
	if backend == "x11" {
		return x11input.CaptureNextKeyCode(ctx)
	}
	code, err := linuxinput.CaptureNextKeyCode(ctx, devicePath)
	if err != nil && backend == "auto" && ctx.Err() == nil {
		if x11Code, x11Err := x11input.CaptureNextKeyCode(ctx); x11Err == nil {
			return x11Code, nil
		}
	}
	return code, err
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend. The evdev backend needs read access to /dev/input and write access to /dev/uinput (input group or udev rule). The X11 backend needs an X11 session."
}

type runtimeOpener func(cfg config, logger *slog.Logger) (clickerRuntime, error)

func openRuntime(cfg config, logger *slog.Logger) (clickerRuntime, error) {
	return selectRuntime(cfg, logger, openEvdevRuntime, openX11Runtime)
}

// selectRuntime prefers evdev. Auto mode moves to X11 when uinput is missing,
// or when no hotkey keyboard was found and X11 can grab the keys instead. An
// evdev runtime without hotkeys is kept only if X11 cannot be opened.
func selectRuntime(cfg config, logger *slog.Logger, openEvdev, openX11 runtimeOpener) (clickerRuntime, error) {
	switch cfg.backend {
	case "x11":
		return openX11(cfg, logger)
	case "evdev":
		return openEvdev(cfg, logger)
	}

	rt, err := openEvdev(cfg, logger)
	if err == nil {
		if rt.GlobalHotkeys() || cfg.devicePath != "" {
			return rt, nil
		}
		logger.Info("evdev has no hotkey keyboard, trying X11 key grabs")
		x11rt, x11Err := openX11(cfg, logger)
		if x11Err != nil {
			logger.Warn("X11 backend unavailable, using window shortcuts", "err", x11Err)
			return rt, nil
		}
		rt.Stop()
		return x11rt, nil
	}
	if !errors.Is(err, autoclicker.ErrInjectorUnavailable) {
		return nil, err
	}
	logger.Warn("evdev backend unavailable, trying X11", "err", err)

	x11rt, x11Err := openX11(cfg, logger)
	if x11Err != nil {
		return nil, errors.Join(err, x11Err)
	}
	return x11rt, nil
}

func openEvdevRuntime(cfg config, logger *slog.Logger) (clickerRuntime, error) {
	rt, err := linuxinput.NewRuntime(linuxinput.RuntimeConfig{
		Bindings:   cfg.bindings,
		DevicePath: cfg.devicePath,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Backend", "name", "evdev", "global_hotkeys", rt.GlobalHotkeys())
	return rt, nil
}

func openX11Runtime(cfg config, logger *slog.Logger) (clickerRuntime, error) {
	if cfg.devicePath != "" {
		logger.Warn("--device is ignored on X11 backend")
	}
	rt, err := x11input.NewRuntime(x11input.RuntimeConfig{Bindings: cfg.bindings}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Backend", "name", "x11")
	return rt, nil
}
