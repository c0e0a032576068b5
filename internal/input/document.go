// Package input decodes tabular documents (CSV, TSV, JSON, YAML) into a
// Document that the output package turns into a table.
package input

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RuleMarker is the row value that requests a horizontal rule.
const RuleMarker = "---"

// Row is one body entry of a Document: either cells or a rule marker.
type Row struct {
	Cells []interface{}
	Rule  bool
}

// RuleRow returns a rule marker row.
func RuleRow() Row {
	return Row{Rule: true}
}

// CellRow returns a row holding cells.
func CellRow(cells ...interface{}) Row {
	return Row{Cells: cells}
}

// MarshalJSON encodes a rule as "---" and cells as an array.
func (r Row) MarshalJSON() ([]byte, error) {
	if r.Rule {
		return json.Marshal(RuleMarker)
	}
	if r.Cells == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Cells)
}

// MarshalYAML encodes a rule as "---" and cells as a sequence.
func (r Row) MarshalYAML() (interface{}, error) {
	if r.Rule {
		return RuleMarker, nil
	}
	if r.Cells == nil {
		return []interface{}{}, nil
	}
	return r.Cells, nil
}

// Document is a decoded table before layout.
type Document struct {
	Headers []string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    []Row    `json:"rows" yaml:"rows"`
	Footer  []string `json:"footer,omitempty" yaml:"footer,omitempty"`
	// Aligns holds per-column body alignments ("left" or "right") given by
	// the document itself.
	Aligns []string `json:"aligns,omitempty" yaml:"aligns,omitempty"`
}

// BodyRows returns the number of rows that are not rule markers.
func (d *Document) BodyRows() int {
	n := 0
	for _, r := range d.Rows {
		if !r.Rule {
			n++
		}
	}
	return n
}

// Clone returns a copy whose slices can be reordered without touching d.
func (d *Document) Clone() *Document {
	return &Document{
		Headers: cloneStrings(d.Headers),
		Rows:    append([]Row(nil), d.Rows...),
		Footer:  cloneStrings(d.Footer),
		Aligns:  cloneStrings(d.Aligns),
	}
}

// cloneStrings copies s, keeping the difference between nil and empty.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// ColumnIndex resolves a column reference, either a header name (case and
// separator insensitive) or a zero-based index.
func (d *Document) ColumnIndex(ref string) (int, bool) {
	norm := normalizeName(ref)
	for i, h := range d.Headers {
		if normalizeName(h) == norm {
			return i, true
		}
	}
	if idx, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil && idx >= 0 {
		return idx, true
	}
	return 0, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "_", ""), "-", ""))
}
