// Package render lays out a table.Table as fixed-width text.
package render

import (
	"strings"

	"github.com/salmonumbrella/consoletable/internal/table"
	"github.com/salmonumbrella/consoletable/internal/width"
)

// Options configures a Renderer.
type Options struct {
	// Border draws '|' and '+' around cells and the outer rule lines.
	Border bool
	// AllBorders draws a rule after every body row.
	AllBorders bool
	// Padding is the number of blanks on each side of a cell.
	Padding int
	// Indent is the number of spaces before the first column of every line.
	Indent int
	// Measurer computes visual widths. Nil means width.Reference.
	Measurer width.Measurer
}

// DefaultOptions returns a bordered layout with one blank of padding.
func DefaultOptions() Options {
	return Options{
		Border:   true,
		Padding:  1,
		Measurer: width.Reference,
	}
}

// Option is a function that configures Options.
type Option func(*Options)

// WithBorder shows or hides the table border.
func WithBorder(show bool) Option {
	return func(o *Options) {
		o.Border = show
	}
}

// WithAllBorders draws a rule after every row. Enabling it also shows the
// border; a later WithBorder(false) hides it again.
func WithAllBorders(all bool) Option {
	return func(o *Options) {
		o.AllBorders = all
		if all {
			o.Border = true
		}
	}
}

// WithPadding sets the cell padding.
func WithPadding(n int) Option {
	return func(o *Options) {
		o.Padding = n
	}
}

// WithIndent sets the left indentation.
func WithIndent(n int) Option {
	return func(o *Options) {
		o.Indent = n
	}
}

// WithMeasurer sets the width measurer.
func WithMeasurer(m width.Measurer) Option {
	return func(o *Options) {
		o.Measurer = m
	}
}

// Renderer turns tables into text. It keeps no state between calls.
type Renderer struct {
	opts Options
}

// New creates a Renderer from DefaultOptions and opts.
func New(opts ...Option) *Renderer {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithOptions(o)
}

// NewWithOptions creates a Renderer from a complete Options value.
// Negative padding and indent are clamped to zero.
func NewWithOptions(o Options) *Renderer {
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Indent < 0 {
		o.Indent = 0
	}
	if o.Measurer == nil {
		o.Measurer = width.Reference
	}
	return &Renderer{opts: o}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// ColumnWidths returns the visual width of every column of t.
func (r *Renderer) ColumnWidths(t *table.Table) []int {
	widths := make([]int, t.MaxColumnCount())
	measure := func(row table.Row) {
		for col := 0; col < row.Len() && col < len(widths); col++ {
			if w := r.opts.Measurer.Width(width.Flatten(row.Cell(col))); w > widths[col] {
				widths[col] = w
			}
		}
	}

	if header, ok := t.Header(); ok {
		measure(header)
	}
	for _, e := range t.Entries() {
		if e.Slot.Kind == table.SlotBody {
			measure(e.Row)
		}
	}
	if footer, ok := t.Footer(); ok {
		measure(footer)
	}
	return widths
}

// Render lays out t. The table is only read; rendering the same table twice
// gives the same text.
func (r *Renderer) Render(t *table.Table) string {
	if t == nil || t.MaxColumnCount() == 0 {
		return ""
	}

	w := &lineWriter{opts: r.opts, widths: r.ColumnWidths(t)}
	all := r.opts.AllBorders

	if r.opts.Border {
		w.rule()
	}

	if header, ok := t.Header(); ok {
		w.content(padded(header, len(w.widths)), func(col int) table.Align {
			return header.Align(col).Resolve()
		})
		w.rule()
	}

	for _, e := range t.Entries() {
		switch e.Slot.Kind {
		case table.SlotRule:
			if !all {
				w.rule()
			}
		case table.SlotBody:
			if e.Row.Len() == 0 {
				continue
			}
			row := e.Row
			w.content(row.Cells(), func(col int) table.Align {
				return t.BodyAlign(row, col)
			})
			if all {
				w.rule()
			}
		}
	}

	if footer, ok := t.Footer(); ok {
		if !all || !w.lastRule {
			w.rule()
		}
		w.content(padded(footer, len(w.widths)), func(col int) table.Align {
			return footer.Align(col).Resolve()
		})
	}

	if r.opts.Border && (!all || !w.lastRule) {
		w.rule()
	}

	return w.String()
}

// padded returns the cells of row extended with blanks to n columns.
func padded(row table.Row, n int) []string {
	cells := row.Cells()
	for len(cells) < n {
		cells = append(cells, "")
	}
	return cells
}

type lineWriter struct {
	strings.Builder
	opts     Options
	widths   []int
	lastRule bool
}

// rule writes a horizontal rule spanning every column.
func (w *lineWriter) rule() {
	cells := make([]string, len(w.widths))
	w.line(cells, "+", "-", func(int) table.Align { return table.AlignLeft })
	w.lastRule = true
}

// content writes one line of cells.
func (w *lineWriter) content(cells []string, align func(col int) table.Align) {
	w.line(cells, "|", " ", align)
	w.lastRule = false
}

func (w *lineWriter) line(cells []string, edge, fill string, align func(col int) table.Align) {
	pad := strings.Repeat(fill, w.opts.Padding)
	for col, raw := range cells {
		if col == 0 {
			w.WriteString(strings.Repeat(" ", w.opts.Indent))
		}
		if w.opts.Border {
			w.WriteString(edge)
		}
		w.WriteString(pad)
		text := width.Flatten(raw)
		if align(col) == table.AlignRight {
			w.WriteString(width.PadLeft(text, w.widths[col], fill, w.opts.Measurer))
		} else {
			w.WriteString(width.PadRight(text, w.widths[col], fill, w.opts.Measurer))
		}
		w.WriteString(pad)
	}
	if w.opts.Border {
		w.WriteString(edge)
	}
	w.WriteByte('\n')
}
