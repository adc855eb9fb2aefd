package autoclicker

import (
	"fmt"
	"sync"
)

type Action int

const (
	ActionStart Action = iota + 1
	ActionStop
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Bindings holds the key codes of the global start and stop hotkeys.
type Bindings struct {
	StartCode uint16
	StopCode  uint16
}

func DefaultBindings() Bindings {
	return Bindings{StartCode: KeyF1Code, StopCode: KeyF2Code}
}

func (b Bindings) Validate() error {
	if b.StartCode == 0 {
		return fmt.Errorf("start key is not set")
	}
	if b.StopCode == 0 {
		return fmt.Errorf("stop key is not set")
	}
	if b.StartCode == b.StopCode {
		return fmt.Errorf("start and stop keys must be different")
	}
	return nil
}

func (b Bindings) Codes() []uint16 {
	return []uint16{b.StartCode, b.StopCode}
}

// KeyDispatcher turns raw key events from any backend into start and stop
// actions. Only the press edge fires; auto-repeat is ignored.
type KeyDispatcher struct {
	bindings Bindings
	onAction func(Action)

	mu      sync.Mutex
	pressed map[string]map[uint16]bool
}

func NewKeyDispatcher(bindings Bindings, onAction func(Action)) (*KeyDispatcher, error) {
	if err := bindings.Validate(); err != nil {
		return nil, err
	}
	if onAction == nil {
		return nil, fmt.Errorf("action handler is nil")
	}
	return &KeyDispatcher{
		bindings: bindings,
		onAction: onAction,
		pressed:  make(map[string]map[uint16]bool),
	}, nil
}

// HandleEvent reports whether the event fired an action.
func (d *KeyDispatcher) HandleEvent(source string, event Event) bool {
	if event.Type != EventTypeKey {
		return false
	}

	var action Action
	switch event.Code {
	case d.bindings.StartCode:
		action = ActionStart
	case d.bindings.StopCode:
		action = ActionStop
	default:
		return false
	}

	d.mu.Lock()
	keys := d.pressed[source]
	if keys == nil {
		keys = make(map[uint16]bool, 2)
		d.pressed[source] = keys
	}
	fire := false
	switch event.Value {
	case 0:
		delete(keys, event.Code)
	case 1:
		fire = !keys[event.Code]
		keys[event.Code] = true
	}
	d.mu.Unlock()

	if fire {
		d.onAction(action)
	}
	return fire
}
