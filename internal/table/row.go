package table

import (
	"fmt"
	"strconv"
)

// Row is an ordered run of cells addressed by column index. Columns that
// were never written read back as empty strings.
type Row struct {
	cells  []string
	aligns []Align
}

// Len returns the highest written column index plus one.
func (r Row) Len() int {
	return len(r.cells)
}

// Cell returns the display text at col, or "" when col is outside the row.
func (r Row) Cell(col int) string {
	if col < 0 || col >= len(r.cells) {
		return ""
	}
	return r.cells[col]
}

// Align returns the alignment given when the cell at col was written.
func (r Row) Align(col int) Align {
	if col < 0 || col >= len(r.aligns) {
		return AlignDefault
	}
	return r.aligns[col]
}

// Cells returns a copy of the row's display strings.
func (r Row) Cells() []string {
	out := make([]string, len(r.cells))
	copy(out, r.cells)
	return out
}

func (r *Row) set(col int, text string, align Align) {
	for len(r.cells) <= col {
		r.cells = append(r.cells, "")
		r.aligns = append(r.aligns, AlignDefault)
	}
	r.cells[col] = text
	r.aligns[col] = align
}

func (r Row) clone() Row {
	c := Row{
		cells:  make([]string, len(r.cells)),
		aligns: make([]Align, len(r.aligns)),
	}
	copy(c.cells, r.cells)
	copy(c.aligns, r.aligns)
	return c
}

func newRow(cells []interface{}, aligns []Align) *Row {
	r := &Row{}
	for i, content := range cells {
		align := AlignDefault
		if i < len(aligns) {
			align = aligns[i]
		}
		r.set(i, Text(content), align)
	}
	return r
}

// Text converts a cell value to its display string.
func Text(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	default:
		return fmt.Sprint(val)
	}
}
