package autoclicker

import (
	"errors"
	"fmt"
)

var (
	ErrNotNumeric   = errors.New("delay is not numeric")
	ErrBelowMinimum = errors.New("delay below minimum")
	ErrAboveMaximum = errors.New("delay above maximum")

	ErrAlreadyRunning      = errors.New("clicker is already running")
	ErrNotRunning          = errors.New("clicker is not running")
	ErrInjectorUnavailable = errors.New("input injector unavailable")
)

type ValidationKind int

const (
	NotNumeric ValidationKind = iota + 1
	BelowMinimum
	AboveMaximum
)

func (k ValidationKind) String() string {
	switch k {
	case NotNumeric:
		return "NotNumeric"
	case BelowMinimum:
		return "BelowMinimum"
	case AboveMaximum:
		return "AboveMaximum"
	default:
		return "Unknown"
	}
}

// ValidationError rejects a start request. Error returns the text shown
// in the status display.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case NotNumeric:
		return "Delay requires numeric values"
	case BelowMinimum:
		return fmt.Sprintf("Delay minimum is %d ms", MinDelayMillis)
	case AboveMaximum:
		return fmt.Sprintf("Delay maximum is %d ms", MaxDelayMillis)
	default:
		return "Invalid delay"
	}
}

func (e *ValidationError) Unwrap() error {
	switch e.Kind {
	case NotNumeric:
		return ErrNotNumeric
	case BelowMinimum:
		return ErrBelowMinimum
	case AboveMaximum:
		return ErrAboveMaximum
	default:
		return nil
	}
}
