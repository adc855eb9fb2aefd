package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

// runCLI clicks without a window. Status lines go to stdout; the hotkeys
// start and stop sessions with the delay given on the command line.
func runCLI(cfg config, runtime clickerRuntime, logger autoclicker.Logger, stdout io.Writer) error {
	if !runtime.GlobalHotkeys() {
		return fmt.Errorf("--cli needs global hotkeys, which this backend does not provide")
	}

	var outMu sync.Mutex
	printStatus := func(status string) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintln(stdout, status)
	}

	ctrlCfg := autoclicker.DefaultConfig()
	ctrlCfg.OnStatus = printStatus
	ctrl, err := autoclicker.NewController(ctrlCfg, runtime.Injector(), logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serveActions(ctx, ctrl, runtime, cfg, logger, printStatus)
}

func serveActions(
	ctx context.Context,
	ctrl *autoclicker.Controller,
	runtime clickerRuntime,
	cfg config,
	logger autoclicker.Logger,
	printStatus func(string),
) error {
	// The hook callbacks must not block, so actions are handed to this loop.
	actions := make(chan autoclicker.Action, 8)
	if err := runtime.Listen(func(action autoclicker.Action) {
		select {
		case actions <- action:
		default:
			logger.Warn("Dropped hotkey action", "action", action.String())
		}
	}); err != nil {
		return err
	}

	printStatus(fmt.Sprintf("Press %s to start clicking every %d ms, %s to stop, Ctrl+C to quit",
		keyLabel(cfg.bindings.StartCode), cfg.delayMillis, keyLabel(cfg.bindings.StopCode)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case action := <-actions:
			switch action {
			case autoclicker.ActionStart:
				if err := ctrl.Start(cfg.delayMillis); err != nil && !errors.Is(err, autoclicker.ErrAlreadyRunning) {
					logger.Warn("Start failed", "err", err)
				}
			case autoclicker.ActionStop:
				if _, err := ctrl.Stop(); err != nil && !errors.Is(err, autoclicker.ErrNotRunning) {
					logger.Warn("Stop failed", "err", err)
				}
			}
		}
	}
}
