package main

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

func TestKeyLabel(t *testing.T) {
	if got := keyLabel(autoclicker.KeyF1Code); got != "F1" {
		t.Fatalf("keyLabel(F1)=%q, want F1", got)
	}
	if got := keyLabel(autoclicker.KeyF2Code); got != "F2" {
		t.Fatalf("keyLabel(F2)=%q, want F2", got)
	}
}

func TestFyneKeyCode(t *testing.T) {
	tests := []struct {
		name fyne.KeyName
		want uint16
	}{
		{name: fyne.KeyF1, want: autoclicker.KeyF1Code},
		{name: fyne.KeyF2, want: autoclicker.KeyF2Code},
		{name: fyne.KeyEscape, want: 1},
		{name: fyne.KeyA, want: 30},
		{name: fyne.KeyPageUp, want: 104},
	}
	for _, tc := range tests {
		got, ok := fyneKeyCode(tc.name)
		if !ok || got != tc.want {
			t.Fatalf("fyneKeyCode(%q)=%d,%v, want %d", tc.name, got, ok, tc.want)
		}
	}

	if _, ok := fyneKeyCode(""); ok {
		t.Fatalf("empty key name should not map")
	}
}

func TestUILogKeepsLastLines(t *testing.T) {
	log := newUILog(3)
	var lastText string
	log.SetOnChange(func(text string) { lastText = text })

	for _, line := range []string{"one", "  ", "two", "three", "four"} {
		log.Append(line)
	}

	want := "two\nthree\nfour"
	if got := log.Text(); got != want {
		t.Fatalf("Text()=%q, want %q", got, want)
	}
	if lastText != want {
		t.Fatalf("onChange text=%q, want %q", lastText, want)
	}
}
