package numpad

import (
	"strings"

	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
)

// KeyKind distinguishes the keypad buttons.
type KeyKind int

const (
	KeyDigit KeyKind = iota
	KeyDecimalPoint
	KeyBackspace
	KeyClear
)

const (
	labelDecimalPoint = "."
	labelBackspace    = "backspace"
	labelClear        = "clear"
)

// Key is a single keypad press.
type Key struct {
	Kind  KeyKind
	Digit byte
}

func Digit(d byte) Key {
	return Key{Kind: KeyDigit, Digit: d}
}

// ParseKey maps a raw keypad label ("0".."9", ".", "backspace", "clear") to a Key.
func ParseKey(raw string) (Key, error) {
	label := strings.ToLower(strings.TrimSpace(raw))
	switch label {
	case labelDecimalPoint:
		return Key{Kind: KeyDecimalPoint}, nil
	case labelBackspace:
		return Key{Kind: KeyBackspace}, nil
	case labelClear:
		return Key{Kind: KeyClear}, nil
	}
	if len(label) == 1 && isDigit(label[0]) {
		return Digit(label[0]), nil
	}
	return Key{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown keypad key %q", raw).
		WithDetails(map[string]any{"key": raw})
}

func (k Key) String() string {
	switch k.Kind {
	case KeyDigit:
		return string(k.Digit)
	case KeyDecimalPoint:
		return labelDecimalPoint
	case KeyBackspace:
		return labelBackspace
	case KeyClear:
		return labelClear
	}
	return "unknown"
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
