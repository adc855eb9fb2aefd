//go:build linux

package x11input

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sean-niemann/Clicker-Macro/internal/adapters/linuxinput"
	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

const globalSourceIdentity = "x11-global"

type RuntimeConfig struct {
	Bindings autoclicker.Bindings
}

// Runtime injects clicks through XTest and grabs the hotkeys on the root
// window so they work whichever window has focus.
type Runtime struct {
	xu      *xgbutil.XUtil
	conn    *xgb.Conn
	rootWin xproto.Window
	logger  autoclicker.Logger

	bindings    autoclicker.Bindings
	keyToCode   map[xproto.Keycode]uint16
	grabbedKeys []xproto.Keycode

	injectMu sync.Mutex

	listening atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

type x11Injector struct {
	r *Runtime
}

func (i *x11Injector) WriteEvents(events ...autoclicker.Event) error {
	i.r.injectMu.Lock()
	defer i.r.injectMu.Unlock()

	dirty := false
	for _, event := range events {
		if event.Type != autoclicker.EventTypeKey || event.Code != autoclicker.LeftButtonCode {
			continue
		}

		var eventType byte
		switch event.Value {
		case 1:
			eventType = xproto.ButtonPress
		case 0:
			eventType = xproto.ButtonRelease
		default:
			continue
		}

		// Root coordinates of zero with no motion keep the pointer where it is.
		if err := xtest.FakeInputChecked(
			i.r.conn,
			eventType,
			byte(xproto.ButtonIndex1),
			xproto.TimeCurrentTime,
			i.r.rootWin,
			0,
			0,
			0,
		).Check(); err != nil {
			return err
		}
		dirty = true
	}

	if dirty {
		i.r.conn.Sync()
	}
	return nil
}

func (i *x11Injector) Close() error {
	return nil
}

func NewRuntime(cfg RuntimeConfig, logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := cfg.Bindings.Validate(); err != nil {
		return nil, err
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to X server: %w", autoclicker.ErrInjectorUnavailable, err)
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("%w: failed to open X11 connection", autoclicker.ErrInjectorUnavailable)
	}

	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: XTEST extension: %w", autoclicker.ErrInjectorUnavailable, err)
	}
	keybind.Initialize(xu)

	r := &Runtime{
		xu:       xu,
		conn:     conn,
		rootWin:  xu.RootWin(),
		logger:   logger,
		bindings: cfg.Bindings,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	if err := r.grabBindings(); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

func (r *Runtime) Injector() autoclicker.Injector {
	return &x11Injector{r: r}
}

func (r *Runtime) GlobalHotkeys() bool {
	return true
}

// Listen runs the X11 event loop. onAction runs on the event goroutine.
func (r *Runtime) Listen(onAction func(autoclicker.Action)) error {
	dispatcher, err := autoclicker.NewKeyDispatcher(r.bindings, onAction)
	if err != nil {
		return err
	}
	if !r.listening.CompareAndSwap(false, true) {
		return fmt.Errorf("x11 runtime is already listening")
	}
	go r.eventLoop(dispatcher)
	return nil
}

func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)

		r.injectMu.Lock()
		r.ungrabAll()
		r.conn.Close()
		r.injectMu.Unlock()

		if r.listening.Load() {
			<-r.doneCh
		}
	})
}

func (r *Runtime) eventLoop(dispatcher *autoclicker.KeyDispatcher) {
	defer close(r.doneCh)

	for {
		event, xerr := r.conn.WaitForEvent()
		if xerr != nil {
			select {
			case <-r.stopCh:
				return
			default:
			}
			r.logger.Warn("X11 event error", "err", xerr)
			continue
		}
		if event == nil {
			return
		}

		var (
			detail xproto.Keycode
			value  int32
		)
		switch ev := event.(type) {
		case xproto.KeyPressEvent:
			detail, value = ev.Detail, 1
		case xproto.KeyReleaseEvent:
			detail, value = ev.Detail, 0
		default:
			continue
		}

		code, ok := r.keyToCode[detail]
		if !ok {
			continue
		}
		if dispatcher.HandleEvent(globalSourceIdentity, autoclicker.Event{
			Type:  autoclicker.EventTypeKey,
			Code:  code,
			Value: value,
		}) {
			r.logger.Debug("Hotkey pressed", "key", linuxinput.FormatCodeName(code))
		}
	}
}

func (r *Runtime) grabBindings() error {
	keyToCode := make(map[xproto.Keycode]uint16)
	for _, code := range r.bindings.Codes() {
		keycodes, err := r.resolveKeycodes(code)
		if err != nil {
			return err
		}
		for _, key := range keycodes {
			if existing, ok := keyToCode[key]; ok && existing != code {
				return fmt.Errorf("start and stop keys resolve to the same X11 keycode")
			}
			keyToCode[key] = code
		}
	}

	keys := make([]xproto.Keycode, 0, len(keyToCode))
	for key := range keyToCode {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		if err := xproto.GrabKeyChecked(
			r.conn,
			false,
			r.rootWin,
			xproto.ModMaskAny,
			key,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Check(); err != nil {
			r.ungrabAll()
			return fmt.Errorf("grab key %d (already bound by another client?): %w", key, err)
		}
		r.grabbedKeys = append(r.grabbedKeys, key)
	}

	r.keyToCode = keyToCode
	return nil
}

func (r *Runtime) ungrabAll() {
	for _, key := range r.grabbedKeys {
		xproto.UngrabKey(r.conn, key, r.rootWin, xproto.ModMaskAny)
	}
	r.grabbedKeys = nil
}

func (r *Runtime) resolveKeycodes(code uint16) ([]xproto.Keycode, error) {
	keyName, ok := linuxCodeToXKeyString(code)
	if !ok {
		return nil, fmt.Errorf("unsupported X11 key code %s", linuxinput.FormatCodeName(code))
	}

	keycodes := keybind.StrToKeycodes(r.xu, keyName)
	if len(keycodes) == 0 {
		return nil, fmt.Errorf("failed to resolve X11 key %q", keyName)
	}

	uniq := make(map[xproto.Keycode]struct{}, len(keycodes))
	for _, keycode := range keycodes {
		uniq[keycode] = struct{}{}
	}
	result := make([]xproto.Keycode, 0, len(uniq))
	for key := range uniq {
		result = append(result, key)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

// CaptureNextKeyCode grabs the keyboard until a key is pressed or ctx ends.
func CaptureNextKeyCode(ctx context.Context) (uint16, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return 0, err
	}
	conn := xu.Conn()
	root := xu.RootWin()
	keybind.Initialize(xu)

	defer conn.Close()
	defer xproto.UngrabKeyboard(conn, xproto.TimeCurrentTime)

	if reply, err := xproto.GrabKeyboard(
		conn,
		false,
		root,
		xproto.TimeCurrentTime,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Reply(); err != nil {
		return 0, err
	} else if reply.Status != xproto.GrabStatusSuccess {
		return 0, fmt.Errorf("failed to grab keyboard (status=%d)", reply.Status)
	}

	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		event, xerr := conn.PollForEvent()
		if xerr != nil {
			return 0, xerr
		}
		if event == nil {
			select {
			case <-ctx.Done():
				return 0, fmt.Errorf("waiting for key input: %w", ctx.Err())
			case <-ticker.C:
			}
			continue
		}

		if ev, ok := event.(xproto.KeyPressEvent); ok {
			lookup := keybind.LookupString(xu, ev.State, ev.Detail)
			if code, ok := xLookupStringToLinuxCode(lookup); ok {
				return code, nil
			}
		}
	}
}
