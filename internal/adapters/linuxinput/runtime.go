//go:build linux

package linuxinput

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"

	evdev "github.com/holoplot/go-evdev"
)

type RuntimeConfig struct {
	Bindings   autoclicker.Bindings
	DevicePath string
}

// Runtime pairs a uinput pointer, used to inject clicks, with evdev readers
// on the keyboards that carry the hotkeys.
type Runtime struct {
	sources  *SourceSelection
	injector *evdevInjector
	bindings autoclicker.Bindings
	logger   autoclicker.Logger

	stopCh    chan struct{}
	stopOnce  sync.Once
	readersWG sync.WaitGroup
}

type evdevInjector struct {
	mu  sync.Mutex
	dev *evdev.InputDevice
}

func (e *evdevInjector) WriteEvents(events ...autoclicker.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dev == nil {
		return fmt.Errorf("uinput device is closed")
	}
	for _, event := range events {
		ev := evdev.InputEvent{
			Type:  evdev.EvType(event.Type),
			Code:  evdev.EvCode(event.Code),
			Value: event.Value,
		}
		if err := e.dev.WriteOne(&ev); err != nil {
			return err
		}
	}
	return nil
}

func (e *evdevInjector) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dev == nil {
		return nil
	}
	err := e.dev.Close()
	e.dev = nil
	return err
}

// newEvdevInjector creates the uinput pointer. Failure here is fatal for the
// program.
func newEvdevInjector() (*evdevInjector, error) {
	id := evdev.InputID{
		BusType: uint16(evdev.BUS_VIRTUAL),
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}
	// REL_X/REL_Y make compositors treat the device as a pointer.
	capabilities := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: {evdev.BTN_LEFT},
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y},
	}
	dev, err := evdev.CreateDevice(VirtualDeviceName, id, capabilities)
	if err != nil {
		return nil, fmt.Errorf("%w: create uinput device: %w", autoclicker.ErrInjectorUnavailable, err)
	}
	return &evdevInjector{dev: dev}, nil
}

func NewRuntime(cfg RuntimeConfig, logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := cfg.Bindings.Validate(); err != nil {
		return nil, err
	}

	injector, err := newEvdevInjector()
	if err != nil {
		return nil, err
	}

	sources, err := OpenHotkeySources(cfg.DevicePath, cfg.Bindings.Codes())
	if err != nil {
		if cfg.DevicePath != "" {
			_ = injector.Close()
			return nil, err
		}
		// Clicking still works from the window without global hotkeys.
		logger.Warn("Global hotkeys unavailable", "err", err)
		sources = &SourceSelection{}
	}
	for _, dev := range sources.Devices {
		name, _ := dev.Name()
		logger.Info("Using hotkey source device", "path", dev.Path(), "name", name)
	}

	return &Runtime{
		sources:  sources,
		injector: injector,
		bindings: cfg.Bindings,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

func (r *Runtime) Injector() autoclicker.Injector {
	return r.injector
}

func (r *Runtime) GlobalHotkeys() bool {
	return len(r.sources.Devices) > 0
}

// Listen starts one reader per hotkey source. onAction runs on a reader
// goroutine.
func (r *Runtime) Listen(onAction func(autoclicker.Action)) error {
	dispatcher, err := autoclicker.NewKeyDispatcher(r.bindings, onAction)
	if err != nil {
		return err
	}

	for _, dev := range r.sources.Devices {
		if err := dev.NonBlock(); err != nil {
			return fmt.Errorf("failed to set nonblocking mode for %s: %w", dev.Path(), err)
		}
	}
	for _, dev := range r.sources.Devices {
		r.readersWG.Add(1)
		go r.readLoop(dev, dispatcher)
	}
	return nil
}

func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.sources.Close()
		r.readersWG.Wait()
		if err := r.injector.Close(); err != nil {
			r.logger.Warn("Failed to close uinput device", "err", err)
		}
	})
}

func (r *Runtime) readLoop(dev *evdev.InputDevice, dispatcher *autoclicker.KeyDispatcher) {
	defer r.readersWG.Done()

	path := dev.Path()
	for {
		events, err := dev.ReadSlice(64)
		if err != nil {
			if r.stopped() || isDeviceClosedError(err) {
				return
			}
			if isWouldBlockError(err) {
				if !r.sleepWithStop(10 * time.Millisecond) {
					return
				}
				continue
			}
			r.logger.Warn("Read failed", "path", path, "err", err)
			if !r.sleepWithStop(100 * time.Millisecond) {
				return
			}
			continue
		}

		for _, event := range events {
			if event.Type != evdev.EV_KEY {
				continue
			}
			if dispatcher.HandleEvent(path, autoclicker.Event{
				Type:  uint16(event.Type),
				Code:  uint16(event.Code),
				Value: event.Value,
			}) {
				r.logger.Debug("Hotkey pressed", "path", path, "key", FormatCodeName(uint16(event.Code)))
			}
		}
	}
}

func (r *Runtime) stopped() bool {
	select {
	case <-r.stopCh:
		return true
	default:
		return false
	}
}

func (r *Runtime) sleepWithStop(duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-r.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}
