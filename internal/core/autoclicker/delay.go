package autoclicker

import "strconv"

// ValidateAndComputeDelay turns the seconds and millis fields into a delay
// in milliseconds. Empty fields count as zero. Whitespace, signs and values
// beyond a 32-bit int are not numeric.
func ValidateAndComputeDelay(secondsText, millisText string) (int, error) {
	seconds, ok := parseField(secondsText)
	if !ok {
		return 0, &ValidationError{Kind: NotNumeric}
	}
	millis, ok := parseField(millisText)
	if !ok {
		return 0, &ValidationError{Kind: NotNumeric}
	}

	// Checked before multiplying so huge inputs cannot overflow.
	if seconds > MaxDelayMillis/1000 || millis > MaxDelayMillis {
		return 0, &ValidationError{Kind: AboveMaximum}
	}

	delay := int(seconds)*1000 + int(millis)
	if err := checkDelayRange(delay); err != nil {
		return 0, err
	}
	return delay, nil
}

func parseField(raw string) (uint64, bool) {
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func checkDelayRange(delayMillis int) error {
	if delayMillis < MinDelayMillis {
		return &ValidationError{Kind: BelowMinimum}
	}
	if delayMillis > MaxDelayMillis {
		return &ValidationError{Kind: AboveMaximum}
	}
	return nil
}
