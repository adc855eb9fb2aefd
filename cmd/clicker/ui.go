package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

// clickerRuntime is the platform backend: a click injector plus, where the
// platform allows it, a global hotkey source.
type clickerRuntime interface {
	Injector() autoclicker.Injector
	GlobalHotkeys() bool
	Listen(onAction func(autoclicker.Action)) error
	Stop()
}

type clickerTheme struct {
	base fyne.Theme
}

func newClickerTheme() fyne.Theme {
	return &clickerTheme{base: theme.DarkTheme()}
}

func (t *clickerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x0d, G: 0x10, B: 0x14, A: 0xff}
	case theme.ColorNameButton:
		return color.NRGBA{R: 0x1d, G: 0x23, B: 0x2c, A: 0xff}
	case theme.ColorNameDisabledButton:
		return color.NRGBA{R: 0x16, G: 0x1a, B: 0x20, A: 0xff}
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 0x13, G: 0x18, B: 0x1f, A: 0xff}
	case theme.ColorNameInputBorder, theme.ColorNameSeparator:
		return color.NRGBA{R: 0x2b, G: 0x33, B: 0x40, A: 0xff}
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x4f, G: 0x9d, B: 0xff, A: 0xff}
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0x4f, G: 0x9d, B: 0xff, A: 0x66}
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0xf2, G: 0xf4, B: 0xf8, A: 0xff}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xff, G: 0x82, B: 0x82, A: 0xff}
	}
	return t.base.Color(name, variant)
}

func (t *clickerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *clickerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *clickerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding, theme.SizeNameInnerPadding:
		return 8
	case theme.SizeNameInputRadius:
		return 6
	}
	return t.base.Size(name)
}

// normalizeDelayEntry rewrites an empty entry to "0" and returns the text to
// validate.
func normalizeDelayEntry(entry *widget.Entry) string {
	if entry.Text == "" {
		entry.SetText("0")
	}
	return entry.Text
}

// Delay validation failures already reach the user through the status line.
func logStartError(logger autoclicker.Logger, err error) {
	if errors.Is(err, autoclicker.ErrAlreadyRunning) {
		logger.Debug("Start ignored, already running")
	}
}

// forwardSignal calls onSignal for the first signal, or returns once done is
// closed.
func forwardSignal(sigCh <-chan os.Signal, done <-chan struct{}, onSignal func()) {
	select {
	case <-sigCh:
		onSignal()
	case <-done:
	}
}

func runUI(cfg config, runtime clickerRuntime, logger autoclicker.Logger, logPane *uiLog) error {
	fApp := app.New()
	fApp.Settings().SetTheme(newClickerTheme())

	window := fApp.NewWindow("Auto Clicker")
	window.Resize(fyne.NewSize(380, 220))
	window.SetFixedSize(true)
	window.CenterOnScreen()

	statusLabel := widget.NewLabel(autoclicker.StatusIdle)
	statusLabel.Alignment = fyne.TextAlignCenter
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	secondsEntry := widget.NewEntry()
	secondsEntry.SetText("0")
	millisEntry := widget.NewEntry()
	millisEntry.SetText("0")

	startBtn := widget.NewButton(fmt.Sprintf("Start (%s)", keyLabel(cfg.bindings.StartCode)), nil)
	startBtn.Importance = widget.HighImportance
	stopBtn := widget.NewButton(fmt.Sprintf("Stop (%s)", keyLabel(cfg.bindings.StopCode)), nil)

	var ctrl *autoclicker.Controller

	refreshButtons := func() {
		if ctrl.State() == autoclicker.StateRunning {
			startBtn.Disable()
			stopBtn.Enable()
			return
		}
		startBtn.Enable()
		stopBtn.Disable()
	}

	ctrlCfg := autoclicker.DefaultConfig()
	ctrlCfg.OnStatus = func(status string) {
		fyne.Do(func() {
			statusLabel.SetText(status)
		})
	}
	ctrlCfg.OnStateChange = func(autoclicker.State) {
		fyne.Do(refreshButtons)
	}

	var err error
	ctrl, err = autoclicker.NewController(ctrlCfg, runtime.Injector(), logger)
	if err != nil {
		return err
	}

	// Both actions run on the UI thread.
	startAction := func() {
		seconds := normalizeDelayEntry(secondsEntry)
		millis := normalizeDelayEntry(millisEntry)
		logStartError(logger, ctrl.StartFromInput(seconds, millis))
		refreshButtons()
	}
	stopAction := func() {
		if _, err := ctrl.Stop(); err != nil && !errors.Is(err, autoclicker.ErrNotRunning) {
			logger.Warn("Stop failed", "err", err)
		}
		refreshButtons()
	}
	handleAction := func(action autoclicker.Action) {
		switch action {
		case autoclicker.ActionStart:
			startAction()
		case autoclicker.ActionStop:
			stopAction()
		}
	}

	startBtn.OnTapped = startAction
	stopBtn.OnTapped = stopAction

	globalHotkeys := false
	if runtime.GlobalHotkeys() {
		if err := runtime.Listen(func(action autoclicker.Action) {
			fyne.Do(func() {
				handleAction(action)
			})
		}); err != nil {
			logger.Warn("Global hotkeys unavailable, using window shortcuts", "err", err)
		} else {
			globalHotkeys = true
		}
	}
	if !globalHotkeys {
		window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
			code, ok := fyneKeyCode(ev.Name)
			if !ok {
				return
			}
			switch code {
			case cfg.bindings.StartCode:
				handleAction(autoclicker.ActionStart)
			case cfg.bindings.StopCode:
				handleAction(autoclicker.ActionStop)
			}
		})
	}
	logger.Info("Hotkeys",
		"start", formatCodeName(cfg.bindings.StartCode),
		"stop", formatCodeName(cfg.bindings.StopCode),
		"global", globalHotkeys,
	)

	var closeOnce sync.Once
	requestQuit := func() {
		closeOnce.Do(func() {
			ctrl.Close()
			runtime.Stop()
			fApp.Quit()
		})
	}
	window.SetCloseIntercept(requestQuit)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	defer func() {
		signal.Stop(sigCh)
		close(done)
	}()
	go forwardSignal(sigCh, done, func() {
		fyne.Do(requestQuit)
	})

	delayForm := widget.NewForm(
		widget.NewFormItem("Seconds", secondsEntry),
		widget.NewFormItem("Milliseconds", millisEntry),
	)
	buttons := container.NewGridWithColumns(2, startBtn, stopBtn)
	mainPanel := container.NewPadded(container.NewVBox(
		delayForm,
		buttons,
		statusLabel,
	))

	var rootContent fyne.CanvasObject = mainPanel
	if logPane != nil {
		logGrid := widget.NewTextGrid()
		logGrid.SetText(logPane.Text())
		logScroll := container.NewVScroll(logGrid)
		logScroll.SetMinSize(fyne.NewSize(0, 150))
		logPane.SetOnChange(func(text string) {
			fyne.Do(func() {
				logGrid.SetText(text)
				logScroll.ScrollToBottom()
			})
		})

		title := canvas.NewText("Logs", theme.Color(theme.ColorNamePlaceHolder))
		title.TextStyle = fyne.TextStyle{Bold: true}
		split := container.NewVSplit(mainPanel, container.NewBorder(title, nil, nil, nil, logScroll))
		split.SetOffset(0.55)
		rootContent = split
		window.SetFixedSize(false)
		window.Resize(fyne.NewSize(640, 420))
	}

	refreshButtons()
	window.SetContent(rootContent)
	window.ShowAndRun()
	requestQuit()
	return nil
}
