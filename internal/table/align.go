package table

import (
	"fmt"
	"strings"
)

// Align is the horizontal justification of a cell within its column.
type Align int

const (
	// AlignDefault means no alignment was given; it resolves to AlignLeft.
	AlignDefault Align = iota
	// AlignLeft pads content on the right.
	AlignLeft
	// AlignRight pads content on the left.
	AlignRight
)

// String returns the lower-case name used in flags and config files.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "default"
	}
}

// Resolve returns AlignLeft for AlignDefault and a otherwise.
func (a Align) Resolve() Align {
	if a == AlignDefault {
		return AlignLeft
	}
	return a
}

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Align) UnmarshalText(text []byte) error {
	parsed, err := ParseAlign(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlign converts a string to an Align.
// Empty string and "default" yield AlignDefault.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return AlignDefault, nil
	case "left", "l":
		return AlignLeft, nil
	case "right", "r":
		return AlignRight, nil
	default:
		return AlignDefault, fmt.Errorf("invalid alignment %q (expected left|right)", s)
	}
}
