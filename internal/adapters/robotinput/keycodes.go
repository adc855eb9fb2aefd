package robotinput

import "github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"

// Hook key codes below 0x59 are PC set-1 scan codes, which match the Linux
// key codes. Extended keys carry an 0x0E prefix.
const maxPlainHookCode = 0x58

// hookSource names the single global hook for the key dispatcher.
const hookSource = "gohook"

var extendedHookCodes = map[uint16]uint16{
	0x0E1C: 96,  // KP enter
	0x0E1D: 97,  // right ctrl
	0x0E35: 98,  // KP slash
	0x0E37: 99,  // print screen
	0x0E38: 100, // right alt
	0x0E45: 119, // pause
	0x0E47: 102, // home
	0x0E48: 103, // up
	0x0E49: 104, // page up
	0x0E4B: 105, // left
	0x0E4D: 106, // right
	0x0E4F: 107, // end
	0x0E50: 108, // down
	0x0E51: 109, // page down
	0x0E52: 110, // insert
	0x0E53: 111, // delete
	0x0E5B: 125, // left meta
	0x0E5C: 126, // right meta
}

func linuxCodeFromHook(keycode uint16) (uint16, bool) {
	if keycode == 0 {
		return 0, false
	}
	if keycode <= maxPlainHookCode {
		return keycode, true
	}
	code, ok := extendedHookCodes[keycode]
	return code, ok
}

func hookKeyEvent(keycode uint16, pressed bool) (autoclicker.Event, bool) {
	code, ok := linuxCodeFromHook(keycode)
	if !ok {
		return autoclicker.Event{}, false
	}
	value := int32(0)
	if pressed {
		value = 1
	}
	return autoclicker.Event{Type: autoclicker.EventTypeKey, Code: code, Value: value}, true
}
