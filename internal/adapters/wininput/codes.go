package wininput

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key codes use the Linux input code space so bindings mean the same thing
// on every backend.
const (
	CodeKeyF1    uint16 = 59
	CodeKeyF2    uint16 = 60
	codeKEYEnter uint16 = 28
	codeKEYA     uint16 = 30

	codeKEYKPEnter uint16 = 96
)

const (
	vkBACK    uint32 = 0x08
	vkTAB     uint32 = 0x09
	vkRETURN  uint32 = 0x0D
	vkPAUSE   uint32 = 0x13
	vkESCAPE  uint32 = 0x1B
	vkSPACE   uint32 = 0x20
	vkPRIOR   uint32 = 0x21
	vkNEXT    uint32 = 0x22
	vkEND     uint32 = 0x23
	vkHOME    uint32 = 0x24
	vkLEFT    uint32 = 0x25
	vkUP      uint32 = 0x26
	vkRIGHT   uint32 = 0x27
	vkDOWN    uint32 = 0x28
	vkINSERT  uint32 = 0x2D
	vkDELETE  uint32 = 0x2E
	vk0       uint32 = 0x30
	vkA       uint32 = 0x41
	vkF1      uint32 = 0x70
	vkF8      uint32 = 0x77
	vkSCROLL  uint32 = 0x91
	vkF11Base uint32 = 0x7A

	llkhfExtended uint32 = 0x01
)

type keyEntry struct {
	name string
	code uint16
	vk   uint32
}

var keyTable = buildKeyTable()

var (
	codeToEntry = make(map[uint16]keyEntry, len(keyTable))
	nameToCode  = make(map[string]uint16, len(keyTable))
	vkToCode    = make(map[uint32]uint16, len(keyTable))
)

func init() {
	for _, entry := range keyTable {
		codeToEntry[entry.code] = entry
		nameToCode[entry.name] = entry.code
		vkToCode[entry.vk] = entry.code
	}
}

func buildKeyTable() []keyEntry {
	table := []keyEntry{
		{"KEY_ESC", 1, vkESCAPE},
		{"KEY_BACKSPACE", 14, vkBACK},
		{"KEY_TAB", 15, vkTAB},
		{"KEY_ENTER", codeKEYEnter, vkRETURN},
		{"KEY_SPACE", 57, vkSPACE},
		{"KEY_SCROLLLOCK", 70, vkSCROLL},
		{"KEY_HOME", 102, vkHOME},
		{"KEY_UP", 103, vkUP},
		{"KEY_PAGEUP", 104, vkPRIOR},
		{"KEY_LEFT", 105, vkLEFT},
		{"KEY_RIGHT", 106, vkRIGHT},
		{"KEY_END", 107, vkEND},
		{"KEY_DOWN", 108, vkDOWN},
		{"KEY_PAGEDOWN", 109, vkNEXT},
		{"KEY_INSERT", 110, vkINSERT},
		{"KEY_DELETE", 111, vkDELETE},
		{"KEY_PAUSE", 119, vkPAUSE},
	}

	// Digits 1-9 then 0 occupy codes 2-11.
	for i := 1; i <= 10; i++ {
		digit := i % 10
		table = append(table, keyEntry{
			name: "KEY_" + strconv.Itoa(digit),
			code: uint16(i + 1),
			vk:   vk0 + uint32(digit),
		})
	}

	// Letters follow the QWERTY rows.
	rows := []struct {
		letters string
		first   uint16
	}{
		{"QWERTYUIOP", 16},
		{"ASDFGHJKL", codeKEYA},
		{"ZXCVBNM", 44},
	}
	for _, row := range rows {
		for i, letter := range row.letters {
			table = append(table, keyEntry{
				name: "KEY_" + string(letter),
				code: row.first + uint16(i),
				vk:   vkA + uint32(letter-'A'),
			})
		}
	}

	for i := 0; i < 10; i++ {
		table = append(table, keyEntry{
			name: "KEY_F" + strconv.Itoa(i+1),
			code: CodeKeyF1 + uint16(i),
			vk:   vkF1 + uint32(i),
		})
	}
	table = append(table,
		keyEntry{"KEY_F11", 87, vkF11Base},
		keyEntry{"KEY_F12", 88, vkF11Base + 1},
	)
	return table
}

// ParseCode accepts KEY_ names, bare names such as F1, or a numeric code.
func ParseCode(value string) (uint16, error) {
	raw := strings.ToUpper(strings.TrimSpace(value))
	if raw == "" {
		return 0, fmt.Errorf("key code is empty")
	}
	if code, ok := nameToCode[raw]; ok {
		return code, nil
	}
	if code, ok := nameToCode["KEY_"+raw]; ok {
		return code, nil
	}

	parsed, err := strconv.ParseInt(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown key %q: supported keys are %s", value, strings.Join(SupportedKeyNames(), ", "))
	}
	if parsed <= 0 || parsed > 0xFFFF {
		return 0, fmt.Errorf("key code out of range: %d", parsed)
	}
	code := uint16(parsed)
	if _, ok := codeToEntry[code]; !ok {
		return 0, fmt.Errorf("key code %d has no Windows virtual key", code)
	}
	return code, nil
}

func FormatCodeName(code uint16) string {
	if entry, ok := codeToEntry[code]; ok {
		return entry.name
	}
	return strconv.Itoa(int(code))
}

func SupportedKeyNames() []string {
	names := make([]string, 0, len(nameToCode))
	for name := range nameToCode {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func CodeToVK(code uint16) (uint32, bool) {
	entry, ok := codeToEntry[code]
	if !ok {
		return 0, false
	}
	return entry.vk, true
}

// CodeFromVK maps a low-level keyboard hook event to a key code. The
// extended flag separates the keypad Enter from the main one.
func CodeFromVK(vk uint32, flags uint32) (uint16, bool) {
	if vk == vkRETURN && flags&llkhfExtended != 0 {
		return codeKEYKPEnter, true
	}
	code, ok := vkToCode[vk]
	return code, ok
}
