package enums

import "fmt"

// EntryTarget names the line item field the keypad is editing.
type EntryTarget string

const (
	EntryTargetNone     EntryTarget = "none"
	EntryTargetQuantity EntryTarget = "quantity"
	EntryTargetPrice    EntryTarget = "price"
)

var validEntryTargets = []EntryTarget{
	EntryTargetNone,
	EntryTargetQuantity,
	EntryTargetPrice,
}

// String implements fmt.Stringer.
func (e EntryTarget) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntryTarget.
func (e EntryTarget) IsValid() bool {
	for _, candidate := range validEntryTargets {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntryTarget converts raw input into an EntryTarget. Empty input means none.
func ParseEntryTarget(value string) (EntryTarget, error) {
	if value == "" {
		return EntryTargetNone, nil
	}
	for _, candidate := range validEntryTargets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entry target %q", value)
}
