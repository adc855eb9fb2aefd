//go:build windows

package wininput

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13

	wmQuit       = 0x0012
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	llkhfInjected        = 0x00000010
	llkhfLowerILInjected = 0x00000002

	inputMouse          = 0
	mouseeventfLeftDown = 0x0002
	mouseeventfLeftUp   = 0x0004

	globalSourceIdentity = "windows-global"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procSendInput           = user32.NewProc("SendInput")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")

	keyboardHookCallback = windows.NewCallback(keyboardLLCallback)

	activeRuntime atomic.Pointer[Runtime]
)

type point struct {
	X int32
	Y int32
}

type keyboardLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type message struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type input struct {
	Type uint32
	Mi   mouseInput
}

type windowsInjector struct{}

// WriteEvents turns BTN_LEFT presses and releases into a single SendInput
// batch. Other events carry no meaning for SendInput and are dropped.
func (i *windowsInjector) WriteEvents(events ...autoclicker.Event) error {
	inputs := make([]input, 0, len(events))
	for _, event := range events {
		if event.Type != autoclicker.EventTypeKey || event.Code != autoclicker.LeftButtonCode {
			continue
		}

		var flags uint32
		switch event.Value {
		case 1:
			flags = mouseeventfLeftDown
		case 0:
			flags = mouseeventfLeftUp
		default:
			continue
		}
		inputs = append(inputs, input{
			Type: inputMouse,
			Mi:   mouseInput{DwFlags: flags},
		})
	}
	if len(inputs) == 0 {
		return nil
	}

	sent, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if sent != uintptr(len(inputs)) {
		if callErr != nil && callErr != windows.Errno(0) {
			return callErr
		}
		return fmt.Errorf("SendInput sent %d of %d inputs", sent, len(inputs))
	}
	return nil
}

func (i *windowsInjector) Close() error {
	return nil
}

// Runtime owns a low-level keyboard hook for the global hotkeys and
// injects clicks with SendInput.
type Runtime struct {
	bindings autoclicker.Bindings
	logger   autoclicker.Logger

	dispatcher atomic.Pointer[autoclicker.KeyDispatcher]

	stopOnce sync.Once
	stopCh   chan struct{}

	threadID atomic.Uint32
	loopDone chan struct{}
}

func NewRuntime(cfg RuntimeConfig, logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := cfg.Bindings.Validate(); err != nil {
		return nil, err
	}
	if err := procSendInput.Find(); err != nil {
		return nil, fmt.Errorf("%w: SendInput: %w", autoclicker.ErrInjectorUnavailable, err)
	}

	return &Runtime{
		bindings: cfg.Bindings,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

func (r *Runtime) Injector() autoclicker.Injector {
	return &windowsInjector{}
}

func (r *Runtime) GlobalHotkeys() bool {
	return true
}

// Listen installs the keyboard hook on a dedicated OS thread. onAction runs
// on that thread and must not block.
func (r *Runtime) Listen(onAction func(autoclicker.Action)) error {
	dispatcher, err := autoclicker.NewKeyDispatcher(r.bindings, onAction)
	if err != nil {
		return err
	}
	if !activeRuntime.CompareAndSwap(nil, r) {
		return fmt.Errorf("windows runtime is already active")
	}
	r.dispatcher.Store(dispatcher)

	r.loopDone = make(chan struct{})
	ready := make(chan error, 1)
	go r.hookLoop(ready)

	if err := <-ready; err != nil {
		activeRuntime.CompareAndSwap(r, nil)
		return err
	}
	return nil
}

func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		if threadID := r.threadID.Load(); threadID != 0 {
			_, _, _ = procPostThreadMessageW.Call(uintptr(threadID), uintptr(wmQuit), 0, 0)
		}
		if r.loopDone != nil {
			<-r.loopDone
		}
		activeRuntime.CompareAndSwap(r, nil)
	})
}

func (r *Runtime) hookLoop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.loopDone)

	r.threadID.Store(windows.GetCurrentThreadId())

	keyboardHook, _, hookErr := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), keyboardHookCallback, 0, 0)
	if keyboardHook == 0 {
		ready <- fmt.Errorf("failed to install keyboard hook: %w", hookErr)
		return
	}
	defer func() {
		_, _, _ = procUnhookWindowsHookEx.Call(keyboardHook)
	}()

	ready <- nil

	var msg message
	for {
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			r.logger.Warn("Windows message loop failed", "err", callErr)
			return
		case 0:
			return
		default:
			_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
		}
	}
}

func keyboardLLCallback(code int, wParam uintptr, lParam uintptr) uintptr {
	if code >= 0 {
		if r := activeRuntime.Load(); r != nil {
			r.handleKeyboardHook(wParam, lParam)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(code), wParam, lParam)
	return ret
}

func (r *Runtime) handleKeyboardHook(wParam uintptr, lParam uintptr) {
	if lParam == 0 {
		return
	}
	event := (*keyboardLLHookStruct)(unsafe.Pointer(lParam))
	if event.Flags&llkhfInjected != 0 || event.Flags&llkhfLowerILInjected != 0 {
		return
	}

	code, ok := CodeFromVK(event.VkCode, event.Flags)
	if !ok {
		return
	}

	var value int32
	switch uint32(wParam) {
	case wmKeyDown, wmSysKeyDown:
		value = 1
	case wmKeyUp, wmSysKeyUp:
		value = 0
	default:
		return
	}

	dispatcher := r.dispatcher.Load()
	if dispatcher == nil {
		return
	}
	if dispatcher.HandleEvent(globalSourceIdentity, autoclicker.Event{
		Type:  autoclicker.EventTypeKey,
		Code:  code,
		Value: value,
	}) {
		r.logger.Debug("Hotkey pressed", "key", FormatCodeName(code))
	}
}

// CaptureNextKeyCode polls the async key state of every supported key and
// returns the first one that goes down.
func CaptureNextKeyCode(ctx context.Context) (uint16, error) {
	names := SupportedKeyNames()
	codes := make([]uint16, 0, len(names))
	for _, name := range names {
		code, err := ParseCode(name)
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}

	state := make(map[uint16]bool, len(codes))
	for _, code := range codes {
		state[code] = isCodeDown(code)
	}

	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		for _, code := range codes {
			down := isCodeDown(code)
			wasDown := state[code]
			state[code] = down
			if down && !wasDown {
				return code, nil
			}
		}

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("waiting for key input: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func isCodeDown(code uint16) bool {
	vk, ok := CodeToVK(code)
	if !ok {
		return false
	}
	state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(state)&0x8000 != 0
}
