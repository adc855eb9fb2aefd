//go:build !linux && !windows

// Package robotinput injects clicks through robotgo on platforms without a
// native backend and reads global hotkeys through a gohook event hook.
package robotinput

import (
	"fmt"
	"sync"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
)

type robotInjector struct {
	mu sync.Mutex
}

func (i *robotInjector) WriteEvents(events ...autoclicker.Event) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, event := range events {
		if event.Type != autoclicker.EventTypeKey || event.Code != autoclicker.LeftButtonCode {
			continue
		}

		var err error
		switch event.Value {
		case 1:
			err = robotgo.Toggle("left")
		case 0:
			err = robotgo.Toggle("left", "up")
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("robotgo toggle: %w", err)
		}
	}
	return nil
}

func (i *robotInjector) Close() error {
	return nil
}

type RuntimeConfig struct {
	Bindings autoclicker.Bindings
}

type Runtime struct {
	injector *robotInjector
	bindings autoclicker.Bindings
	logger   autoclicker.Logger

	mu       sync.Mutex
	hooked   bool
	stopCh   chan struct{}
	stopOnce sync.Once
	loopWG   sync.WaitGroup
}

func NewRuntime(cfg RuntimeConfig, logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := cfg.Bindings.Validate(); err != nil {
		return nil, err
	}
	width, height := robotgo.GetScreenSize()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: no display reported by robotgo", autoclicker.ErrInjectorUnavailable)
	}
	logger.Debug("robotgo backend ready", "screen_width", width, "screen_height", height)
	return &Runtime{
		injector: &robotInjector{},
		bindings: cfg.Bindings,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

func (r *Runtime) Injector() autoclicker.Injector {
	return r.injector
}

func (r *Runtime) GlobalHotkeys() bool {
	return true
}

func (r *Runtime) Listen(onAction func(autoclicker.Action)) error {
	dispatcher, err := autoclicker.NewKeyDispatcher(r.bindings, onAction)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.stopCh:
		return fmt.Errorf("runtime is stopped")
	default:
	}
	if r.hooked {
		return fmt.Errorf("hotkey hook already started")
	}
	events := hook.Start()
	r.hooked = true

	r.loopWG.Add(1)
	go r.eventLoop(events, dispatcher)
	return nil
}

func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		close(r.stopCh)
		hooked := r.hooked
		r.mu.Unlock()

		if hooked {
			hook.End()
		}
		r.loopWG.Wait()
	})
}

func (r *Runtime) eventLoop(events chan hook.Event, dispatcher *autoclicker.KeyDispatcher) {
	defer r.loopWG.Done()
	for {
		select {
		case <-r.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			// KeyHold is the press event; KeyDown only reports typed characters.
			var pressed bool
			switch ev.Kind {
			case hook.KeyHold:
				pressed = true
			case hook.KeyUp:
				pressed = false
			default:
				continue
			}
			event, ok := hookKeyEvent(ev.Keycode, pressed)
			if !ok {
				continue
			}
			if dispatcher.HandleEvent(hookSource, event) {
				r.logger.Debug("Hotkey", "code", event.Code)
			}
		}
	}
}
