package ui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// Validation failures of a NumericalEntry. The settings window swaps them for
// translated messages.
var (
	errNumberRequired = errors.New("value required")
	errNumberFormat   = errors.New("value is not a number")
	errNumberRange    = errors.New("value out of range")
)

// NumericalEntry is an Entry that only accepts digits and validates its value
// against an inclusive range.
type NumericalEntry struct {
	widget.Entry

	Min, Max int
}

// NewNumericalEntry creates an entry accepting integers in [lo, hi].
func NewNumericalEntry(lo, hi int) *NumericalEntry {
	entry := &NumericalEntry{Min: lo, Max: hi}
	entry.ExtendBaseWidget(entry)
	entry.Validator = entry.check
	return entry
}

// TypedRune drops everything but 0-9.
func (e *NumericalEntry) TypedRune(r rune) {
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// TypedShortcut refuses to paste anything that is not all digits.
func (e *NumericalEntry) TypedShortcut(s fyne.Shortcut) {
	if paste, ok := s.(*fyne.ShortcutPaste); ok && paste.Clipboard != nil {
		if !allDigits(paste.Clipboard.Content()) {
			return
		}
	}
	e.Entry.TypedShortcut(s)
}

// Keyboard shows a numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// IntValue parses and range-checks the current text.
func (e *NumericalEntry) IntValue() (int, error) {
	if err := e.check(e.Text); err != nil {
		return 0, err
	}
	return strconv.Atoi(e.Text)
}

func (e *NumericalEntry) check(s string) error {
	if s == "" {
		return errNumberRequired
	}
	n, err := strconv.Atoi(s)
	if err != nil || !allDigits(s) {
		return errNumberFormat
	}
	if n < e.Min || n > e.Max {
		return errNumberRange
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
