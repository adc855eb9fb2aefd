package autoclicker

import (
	"errors"
	"strconv"
	"testing"
)

func TestValidateAndComputeDelayAcceptsRange(t *testing.T) {
	tests := []struct {
		seconds string
		millis  string
		want    int
	}{
		{seconds: "0", millis: "50", want: 50},
		{seconds: "1", millis: "500", want: 1500},
		{seconds: "60", millis: "0", want: 60000},
		{seconds: "59", millis: "1000", want: 60000},
		{seconds: "", millis: "75", want: 75},
		{seconds: "2", millis: "", want: 2000},
		{seconds: "3", millis: "007", want: 3007},
		{seconds: "0", millis: "60000", want: 60000},
	}

	for _, tc := range tests {
		got, err := ValidateAndComputeDelay(tc.seconds, tc.millis)
		if err != nil {
			t.Fatalf("ValidateAndComputeDelay(%q, %q) error = %v", tc.seconds, tc.millis, err)
		}
		if got != tc.want {
			t.Fatalf("ValidateAndComputeDelay(%q, %q) = %d, want %d", tc.seconds, tc.millis, got, tc.want)
		}
	}
}

func TestValidateAndComputeDelayMatchesFormulaAcrossRange(t *testing.T) {
	for seconds := 0; seconds <= 60; seconds++ {
		for _, millis := range []int{0, 1, 49, 50, 999, 1000, 4321} {
			delay := seconds*1000 + millis
			got, err := ValidateAndComputeDelay(strconv.Itoa(seconds), strconv.Itoa(millis))
			inRange := delay >= MinDelayMillis && delay <= MaxDelayMillis
			if inRange {
				if err != nil || got != delay {
					t.Fatalf("(%d, %d) = %d, %v; want %d, nil", seconds, millis, got, err, delay)
				}
				continue
			}
			if err == nil {
				t.Fatalf("(%d, %d) accepted out-of-range delay %d", seconds, millis, delay)
			}
		}
	}
}

func TestValidateAndComputeDelayRejects(t *testing.T) {
	tests := []struct {
		name    string
		seconds string
		millis  string
		kind    ValidationKind
		target  error
		message string
	}{
		{name: "below minimum", seconds: "0", millis: "10", kind: BelowMinimum, target: ErrBelowMinimum, message: "Delay minimum is 50 ms"},
		{name: "both empty", seconds: "", millis: "", kind: BelowMinimum, target: ErrBelowMinimum, message: "Delay minimum is 50 ms"},
		{name: "just below", seconds: "0", millis: "49", kind: BelowMinimum, target: ErrBelowMinimum},
		{name: "above maximum", seconds: "61", millis: "0", kind: AboveMaximum, target: ErrAboveMaximum, message: "Delay maximum is 60000 ms"},
		{name: "just above", seconds: "60", millis: "1", kind: AboveMaximum, target: ErrAboveMaximum},
		{name: "largest int millis", seconds: "0", millis: "2147483647", kind: AboveMaximum, target: ErrAboveMaximum},
		{name: "largest int seconds", seconds: "2147483647", millis: "0", kind: AboveMaximum, target: ErrAboveMaximum},
		{name: "overflowing millis", seconds: "0", millis: "2147483648", kind: NotNumeric, target: ErrNotNumeric},
		{name: "overflowing seconds", seconds: "99999999999999999999999", millis: "0", kind: NotNumeric, target: ErrNotNumeric},
		{name: "padded seconds", seconds: " 3 ", millis: "0", kind: NotNumeric, target: ErrNotNumeric},
		{name: "whitespace only", seconds: "1", millis: "  ", kind: NotNumeric, target: ErrNotNumeric},
		{name: "plus sign", seconds: "+1", millis: "0", kind: NotNumeric, target: ErrNotNumeric},
		{name: "letters", seconds: "abc", millis: "500", kind: NotNumeric, target: ErrNotNumeric, message: "Delay requires numeric values"},
		{name: "letters in millis", seconds: "1", millis: "5x", kind: NotNumeric, target: ErrNotNumeric},
		{name: "negative", seconds: "-1", millis: "2000", kind: NotNumeric, target: ErrNotNumeric},
		{name: "decimal", seconds: "1.5", millis: "0", kind: NotNumeric, target: ErrNotNumeric},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateAndComputeDelay(tc.seconds, tc.millis)
			if err == nil {
				t.Fatalf("expected error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Kind != tc.kind {
				t.Fatalf("kind = %s, want %s", verr.Kind, tc.kind)
			}
			if !errors.Is(err, tc.target) {
				t.Fatalf("errors.Is(%v, %v) = false", err, tc.target)
			}
			if tc.message != "" && err.Error() != tc.message {
				t.Fatalf("message = %q, want %q", err.Error(), tc.message)
			}
		})
	}
}
