package robotinput

import (
	"testing"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

func TestLinuxCodeFromHook(t *testing.T) {
	tests := []struct {
		keycode uint16
		want    uint16
	}{
		{keycode: 0x003B, want: autoclicker.KeyF1Code},
		{keycode: 0x003C, want: autoclicker.KeyF2Code},
		{keycode: 0x0001, want: 1},   // escape
		{keycode: 0x001E, want: 30},  // A
		{keycode: 0x0002, want: 2},   // 1
		{keycode: 0x0058, want: 88},  // F12
		{keycode: 0x0E47, want: 102}, // home
		{keycode: 0x0E53, want: 111}, // delete
	}

	for _, tc := range tests {
		got, ok := linuxCodeFromHook(tc.keycode)
		if !ok || got != tc.want {
			t.Fatalf("linuxCodeFromHook(0x%04X)=%d,%v, want %d", tc.keycode, got, ok, tc.want)
		}
	}

	for _, keycode := range []uint16{0, 0x0059, 0x0E00, 0xFFFF} {
		if code, ok := linuxCodeFromHook(keycode); ok {
			t.Fatalf("linuxCodeFromHook(0x%04X)=%d, expected no mapping", keycode, code)
		}
	}
}

func TestHookKeyEventsDriveDispatcher(t *testing.T) {
	var actions []autoclicker.Action
	dispatcher, err := autoclicker.NewKeyDispatcher(autoclicker.DefaultBindings(), func(action autoclicker.Action) {
		actions = append(actions, action)
	})
	if err != nil {
		t.Fatalf("NewKeyDispatcher() error = %v", err)
	}

	// Held keys repeat the press event.
	sequence := []struct {
		keycode uint16
		pressed bool
	}{
		{keycode: 0x003B, pressed: true},
		{keycode: 0x003B, pressed: true},
		{keycode: 0x003B, pressed: false},
		{keycode: 0x001E, pressed: true},
		{keycode: 0x003C, pressed: true},
		{keycode: 0x003C, pressed: false},
	}
	for _, step := range sequence {
		event, ok := hookKeyEvent(step.keycode, step.pressed)
		if !ok {
			t.Fatalf("hookKeyEvent(0x%04X) not mapped", step.keycode)
		}
		dispatcher.HandleEvent(hookSource, event)
	}

	if len(actions) != 2 || actions[0] != autoclicker.ActionStart || actions[1] != autoclicker.ActionStop {
		t.Fatalf("actions=%v, want [start stop]", actions)
	}
}
