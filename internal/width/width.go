// Package width measures how many terminal columns a cell occupies.
//
// ANSI escape sequences are invisible and never counted. Emoji clusters are
// corrected to double width by the reference measurer, which follows the
// cluster classification in Classify; alternative measurers backed by
// go-runewidth and uniseg are available for East-Asian aware layouts.
package width

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var (
	ansiPattern       = regexp.MustCompile(`\x1b\[[^A-Za-z]*[A-Za-z]`)
	whitespacePattern = regexp.MustCompile(`[\t\n\v\f\r ]+`)
)

// StripANSI removes ANSI escape sequences (ESC '[' params letter).
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiPattern.ReplaceAllString(s, "")
}

// Flatten collapses whitespace runs, newlines included, to single spaces
// and trims both ends. ANSI sequences are kept.
func Flatten(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// Measurer reports the visual width of a string.
type Measurer interface {
	Width(s string) int
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(s string) int

// Width calls f(s).
func (f MeasurerFunc) Width(s string) int {
	return f(s)
}

// Mode names a Measurer in flags and config files.
type Mode string

const (
	ModeReference Mode = "reference"
	ModeRuneWidth Mode = "runewidth"
	ModeUniseg    Mode = "uniseg"
)

var (
	// Reference counts code points and adds one column per emoji cluster.
	Reference Measurer = MeasurerFunc(referenceWidth)
	// RuneWidth uses East-Asian width tables from go-runewidth.
	RuneWidth Measurer = MeasurerFunc(func(s string) int {
		return runewidth.StringWidth(StripANSI(s))
	})
	// Uniseg sums the widths of uniseg grapheme clusters.
	Uniseg Measurer = MeasurerFunc(func(s string) int {
		return uniseg.StringWidth(StripANSI(s))
	})
)

func referenceWidth(s string) int {
	clean := StripANSI(s)
	return utf8.RuneCountInString(clean) + CountClusters(clean)
}

// ParseMode converts a string to a Mode. Empty string yields ModeReference.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeReference:
		return ModeReference, nil
	case ModeRuneWidth:
		return ModeRuneWidth, nil
	case ModeUniseg:
		return ModeUniseg, nil
	default:
		return "", fmt.Errorf("invalid width mode %q (expected reference|runewidth|uniseg)", s)
	}
}

// Measurer returns the measurer for m.
func (m Mode) Measurer() Measurer {
	switch m {
	case ModeRuneWidth:
		return RuneWidth
	case ModeUniseg:
		return Uniseg
	default:
		return Reference
	}
}

// PadRight appends fill until s is w columns wide.
func PadRight(s string, w int, fill string, m Measurer) string {
	if n := w - m.Width(s); n > 0 {
		return s + strings.Repeat(fill, n)
	}
	return s
}

// PadLeft prepends fill until s is w columns wide.
func PadLeft(s string, w int, fill string, m Measurer) string {
	if n := w - m.Width(s); n > 0 {
		return strings.Repeat(fill, n) + s
	}
	return s
}

// Report is a breakdown of how a string is measured.
type Report struct {
	Text       string    `json:"text" yaml:"text"`
	Visible    string    `json:"visible" yaml:"visible"`
	Bytes      int       `json:"bytes" yaml:"bytes"`
	CodePoints int       `json:"code_points" yaml:"code_points"`
	Graphemes  int       `json:"graphemes" yaml:"graphemes"`
	Clusters   []Cluster `json:"clusters" yaml:"clusters"`
	Mode       Mode      `json:"mode" yaml:"mode"`
	Width      int       `json:"width" yaml:"width"`
}

// Inspect measures s the way the renderer would, after flattening.
func Inspect(s string, mode Mode) Report {
	flat := Flatten(s)
	visible := StripANSI(flat)
	return Report{
		Text:       flat,
		Visible:    visible,
		Bytes:      len(flat),
		CodePoints: utf8.RuneCountInString(visible),
		Graphemes:  uniseg.GraphemeClusterCount(visible),
		Clusters:   Classify(visible),
		Mode:       mode,
		Width:      mode.Measurer().Width(flat),
	}
}
