package wininput

import "testing"

func TestParseAndFormatKeyCodes(t *testing.T) {
	tests := []struct {
		raw      string
		expected uint16
	}{
		{raw: "KEY_F1", expected: CodeKeyF1},
		{raw: "f2", expected: CodeKeyF2},
		{raw: "KEY_A", expected: codeKEYA},
		{raw: "q", expected: 16},
		{raw: "m", expected: 50},
		{raw: "KEY_1", expected: 2},
		{raw: "0", expected: 11},
		{raw: "F11", expected: 87},
		{raw: "60", expected: CodeKeyF2},
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
	if name := FormatCodeName(999); name != "999" {
		t.Fatalf("FormatCodeName(999)=%q, want 999", name)
	}
}

func TestParseCodeRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "BTN_LEFT", "KEY_NOPE", "0x110", "-1"} {
		if _, err := ParseCode(raw); err == nil {
			t.Fatalf("ParseCode(%q) expected error", raw)
		}
	}
}

func TestCodeFromVKMappings(t *testing.T) {
	if code, ok := CodeFromVK(vkA, 0); !ok || code != codeKEYA {
		t.Fatalf("CodeFromVK(vkA)=%d,%v, want %d,true", code, ok, codeKEYA)
	}
	if code, ok := CodeFromVK(vkRETURN, 0); !ok || code != codeKEYEnter {
		t.Fatalf("CodeFromVK(vkRETURN)=%d,%v, want %d,true", code, ok, codeKEYEnter)
	}
	if code, ok := CodeFromVK(vkRETURN, llkhfExtended); !ok || code != codeKEYKPEnter {
		t.Fatalf("CodeFromVK(vkRETURN,extended)=%d,%v, want %d,true", code, ok, codeKEYKPEnter)
	}
	if _, ok := CodeFromVK(0xFF, 0); ok {
		t.Fatalf("CodeFromVK(0xFF) expected no mapping")
	}
}

func TestCodeToVKRoundTrip(t *testing.T) {
	if vk, ok := CodeToVK(CodeKeyF1 + 7); !ok || vk != vkF8 {
		t.Fatalf("CodeToVK(KEY_F8)=%d,%v, want %d,true", vk, ok, vkF8)
	}
	for _, name := range SupportedKeyNames() {
		code, err := ParseCode(name)
		if err != nil {
			t.Fatalf("ParseCode(%q) returned error: %v", name, err)
		}
		vk, ok := CodeToVK(code)
		if !ok {
			t.Fatalf("CodeToVK(%s) not mapped", name)
		}
		back, ok := CodeFromVK(vk, 0)
		if !ok || back != code {
			t.Fatalf("CodeFromVK(CodeToVK(%s))=%d,%v, want %d", name, back, ok, code)
		}
	}
}
