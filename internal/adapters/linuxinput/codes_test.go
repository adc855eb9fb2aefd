//go:build linux

package linuxinput

import (
	"testing"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

func TestParseAndFormatHotkeyCodes(t *testing.T) {
	tests := []struct {
		raw      string
		expected uint16
	}{
		{raw: "KEY_F1", expected: CodeKeyF1},
		{raw: "key_f2", expected: CodeKeyF2},
		{raw: "F1", expected: CodeKeyF1},
		{raw: "59", expected: CodeKeyF1},
		{raw: "0x3c", expected: CodeKeyF2},
	}

	for _, tc := range tests {
		got, err := ParseCode(tc.raw)
		if err != nil {
			t.Fatalf("ParseCode(%q) returned error: %v", tc.raw, err)
		}
		if got != tc.expected {
			t.Fatalf("ParseCode(%q)=%d, want %d", tc.raw, got, tc.expected)
		}
	}

	if name := FormatCodeName(CodeKeyF2); name != "KEY_F2" {
		t.Fatalf("FormatCodeName(CodeKeyF2)=%q, want KEY_F2", name)
	}
}

func TestParseCodeRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "KEY_NOPE", "-4", "70000"} {
		if _, err := ParseCode(raw); err == nil {
			t.Fatalf("ParseCode(%q) expected error", raw)
		}
	}
}

func TestSharedCodeSpaceMatchesEvdev(t *testing.T) {
	if CodeKeyF1 != autoclicker.KeyF1Code || CodeKeyF2 != autoclicker.KeyF2Code {
		t.Fatalf("core hotkey defaults diverge from evdev codes")
	}
	if CodeBTNLeft != autoclicker.LeftButtonCode {
		t.Fatalf("core left button code diverges from evdev BTN_LEFT")
	}
}
