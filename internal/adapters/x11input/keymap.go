//go:build linux

package x11input

import (
	"strings"

	"github.com/sean-niemann/Clicker-Macro/internal/adapters/linuxinput"
)

// keysymNames pairs evdev key names (without the KEY_ prefix) with the X11
// keysym names keybind understands. Letters, digits and function keys are
// derived and do not need an entry.
var keysymNames = []struct {
	evdev  string
	keysym string
}{
	{"ESC", "Escape"},
	{"ENTER", "Return"},
	{"TAB", "Tab"},
	{"SPACE", "space"},
	{"BACKSPACE", "BackSpace"},
	{"LEFTSHIFT", "Shift_L"},
	{"RIGHTSHIFT", "Shift_R"},
	{"LEFTCTRL", "Control_L"},
	{"RIGHTCTRL", "Control_R"},
	{"LEFTALT", "Alt_L"},
	{"RIGHTALT", "Alt_R"},
	{"LEFTMETA", "Super_L"},
	{"RIGHTMETA", "Super_R"},
	{"CAPSLOCK", "Caps_Lock"},
	{"NUMLOCK", "Num_Lock"},
	{"SCROLLLOCK", "Scroll_Lock"},
	{"PAUSE", "Pause"},
	{"SYSRQ", "Print"},
	{"PAGEUP", "Page_Up"},
	{"PAGEDOWN", "Page_Down"},
	{"INSERT", "Insert"},
	{"DELETE", "Delete"},
	{"HOME", "Home"},
	{"END", "End"},
	{"UP", "Up"},
	{"DOWN", "Down"},
	{"LEFT", "Left"},
	{"RIGHT", "Right"},
	{"MENU", "Menu"},
	{"MINUS", "minus"},
	{"EQUAL", "equal"},
	{"LEFTBRACE", "bracketleft"},
	{"RIGHTBRACE", "bracketright"},
	{"SEMICOLON", "semicolon"},
	{"APOSTROPHE", "apostrophe"},
	{"GRAVE", "grave"},
	{"BACKSLASH", "backslash"},
	{"COMMA", "comma"},
	{"DOT", "period"},
	{"SLASH", "slash"},
	{"KPPLUS", "KP_Add"},
	{"KPMINUS", "KP_Subtract"},
	{"KPASTERISK", "KP_Multiply"},
	{"KPSLASH", "KP_Divide"},
	{"KPDOT", "KP_Decimal"},
	{"KPENTER", "KP_Enter"},
}

func linuxCodeToXKeyString(code uint16) (string, bool) {
	name := linuxinput.FormatCodeName(code)
	if !strings.HasPrefix(name, "KEY_") {
		return "", false
	}
	token := strings.TrimPrefix(name, "KEY_")

	for _, pair := range keysymNames {
		if pair.evdev == token {
			return pair.keysym, true
		}
	}

	switch {
	case len(token) == 1 && token[0] >= 'A' && token[0] <= 'Z':
		return strings.ToLower(token), true
	case len(token) == 1 && token[0] >= '0' && token[0] <= '9':
		return token, true
	case strings.HasPrefix(token, "F") && isDigits(token[1:]):
		return token, true
	case strings.HasPrefix(token, "KP") && len(token) == 3 && isDigits(token[2:]):
		return "KP_" + token[2:], true
	}
	return "", false
}

// xLookupStringToLinuxCode maps the string keybind.LookupString reports
// back to an evdev key code.
func xLookupStringToLinuxCode(value string) (uint16, bool) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, false
	}

	keyName := ""
	lower := strings.ToLower(raw)
	switch {
	case len(lower) == 1 && ((lower[0] >= 'a' && lower[0] <= 'z') || (lower[0] >= '0' && lower[0] <= '9')):
		keyName = "KEY_" + strings.ToUpper(lower)
	case strings.HasPrefix(lower, "f") && isDigits(lower[1:]):
		keyName = "KEY_" + strings.ToUpper(lower)
	case strings.HasPrefix(lower, "kp_") && len(lower) == 4 && isDigits(lower[3:]):
		keyName = "KEY_KP" + lower[3:]
	default:
		for _, pair := range keysymNames {
			if strings.EqualFold(pair.keysym, raw) {
				keyName = "KEY_" + pair.evdev
				break
			}
		}
	}
	if keyName == "" {
		return 0, false
	}

	code, err := linuxinput.ParseCode(keyName)
	if err != nil {
		return 0, false
	}
	return code, true
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
