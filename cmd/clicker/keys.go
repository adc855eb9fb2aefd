package main

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
)

const maxUILogLines = 50

// keyLabel is the short key name shown on the buttons, e.g. "F1".
func keyLabel(code uint16) string {
	return strings.TrimPrefix(formatCodeName(code), "KEY_")
}

var fyneKeyAliases = map[fyne.KeyName]string{
	fyne.KeyEscape:    "ESC",
	fyne.KeyReturn:    "ENTER",
	fyne.KeyEnter:     "KPENTER",
	fyne.KeySpace:     "SPACE",
	fyne.KeyTab:       "TAB",
	fyne.KeyBackspace: "BACKSPACE",
	fyne.KeyInsert:    "INSERT",
	fyne.KeyDelete:    "DELETE",
	fyne.KeyHome:      "HOME",
	fyne.KeyEnd:       "END",
	fyne.KeyPageUp:    "PAGEUP",
	fyne.KeyPageDown:  "PAGEDOWN",
	fyne.KeyUp:        "UP",
	fyne.KeyDown:      "DOWN",
	fyne.KeyLeft:      "LEFT",
	fyne.KeyRight:     "RIGHT",
}

// fyneKeyCode maps a key typed into the window onto the input code space
// used by the bindings.
func fyneKeyCode(name fyne.KeyName) (uint16, bool) {
	raw, ok := fyneKeyAliases[name]
	if !ok {
		raw = string(name)
	}
	if raw == "" {
		return 0, false
	}
	code, err := parseKeyCode(raw)
	if err != nil {
		return 0, false
	}
	return code, true
}

// uiLog keeps the last lines of log output for the debug pane.
type uiLog struct {
	mu       sync.Mutex
	max      int
	lines    []string
	onChange func(text string)
}

func newUILog(max int) *uiLog {
	if max <= 0 {
		max = maxUILogLines
	}
	return &uiLog{max: max, lines: make([]string, 0, max)}
}

func (l *uiLog) Append(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	l.mu.Lock()
	l.lines = append(l.lines, line)
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
	text := strings.Join(l.lines, "\n")
	onChange := l.onChange
	l.mu.Unlock()

	if onChange != nil {
		onChange(text)
	}
}

func (l *uiLog) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

func (l *uiLog) SetOnChange(fn func(text string)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}
