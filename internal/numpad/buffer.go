package numpad

import (
	"strings"

	"github.com/angelmondragon/pos-register/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/shopspring/decimal"
)

// Buffer accumulates keypad input for the focused field. With no target every
// input is ignored.
type Buffer struct {
	target enums.EntryTarget
	text   string
}

func NewBuffer() *Buffer {
	return &Buffer{target: enums.EntryTargetNone}
}

func (b *Buffer) Target() enums.EntryTarget {
	return b.target
}

func (b *Buffer) Text() string {
	return b.text
}

// Focus switches the target and always discards pending text, so a partial
// quantity entry never leaks into a price edit.
func (b *Buffer) Focus(target enums.EntryTarget) {
	if !target.IsValid() {
		target = enums.EntryTargetNone
	}
	b.target = target
	b.text = ""
}

// Press dispatches a parsed key.
func (b *Buffer) Press(k Key) {
	switch k.Kind {
	case KeyDigit:
		b.PushDigit(k.Digit)
	case KeyDecimalPoint:
		b.PushDecimalPoint()
	case KeyBackspace:
		b.Backspace()
	case KeyClear:
		b.Clear()
	}
}

func (b *Buffer) PushDigit(d byte) {
	if !b.active() || !isDigit(d) {
		return
	}
	b.text += string(d)
}

// PushDecimalPoint appends '.' unless one is already present.
func (b *Buffer) PushDecimalPoint() {
	if !b.active() || strings.Contains(b.text, ".") {
		return
	}
	b.text += "."
}

func (b *Buffer) Backspace() {
	if !b.active() || b.text == "" {
		return
	}
	b.text = b.text[:len(b.text)-1]
}

func (b *Buffer) Clear() {
	b.text = ""
}

// Commit parses the pending text. On failure the buffer is left untouched; on
// success the text is reset and the target stays focused.
func (b *Buffer) Commit() (decimal.Decimal, error) {
	value, err := b.Peek()
	if err != nil {
		return decimal.Zero, err
	}
	b.text = ""
	return value, nil
}

// Peek parses the pending text without consuming it.
func (b *Buffer) Peek() (decimal.Decimal, error) {
	return parseEntry(b.text)
}

func (b *Buffer) active() bool {
	return b.target != enums.EntryTargetNone && b.target != ""
}

func parseEntry(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeParse, "numeric entry is empty")
	}

	digits := 0
	points := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case isDigit(c):
			digits++
		case c == '.':
			points++
		default:
			return decimal.Zero, invalidEntry(text)
		}
	}
	if digits == 0 || points > 1 {
		return decimal.Zero, invalidEntry(text)
	}

	normalized := strings.TrimSuffix(text, ".")
	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil || value.IsNegative() {
		return decimal.Zero, invalidEntry(text)
	}
	return value, nil
}

func invalidEntry(text string) error {
	return pkgerrors.Newf(pkgerrors.CodeParse, "%q is not a valid non-negative number", text).
		WithDetails(map[string]any{"text": text})
}
