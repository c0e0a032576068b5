// Package table holds the data model of a console table: an optional header
// and footer, body rows and horizontal rule markers in insertion order, and
// the alignment settings that the renderer resolves at render time.
package table

// position is one step of the row cursor. A nil row with rule unset is a
// gap left by an explicit write further down the table.
type position struct {
	rule bool
	row  *Row
}

// Entry is a read-only snapshot of one body position.
type Entry struct {
	Slot Slot
	Row  Row
}

// Table accumulates header, body, footer and rule entries. The zero value
// is not ready for use; call New.
type Table struct {
	header *Row
	footer *Row
	body   []position
	cursor int

	columnAligns map[int]Align
	firstAligns  map[int]Align

	maxColumnCount int
	err            error
}

// New returns an empty table.
func New() *Table {
	return &Table{
		cursor:       -1,
		columnAligns: make(map[int]Align),
		firstAligns:  make(map[int]Align),
	}
}

// CellOption configures a single AddColumn call.
type CellOption func(*cellConfig)

type cellConfig struct {
	col    int
	hasCol bool
	row    int
	hasRow bool
	align  Align
}

// Column writes the cell at column index col instead of the next free one.
func Column(col int) CellOption {
	return func(c *cellConfig) {
		c.col = col
		c.hasCol = true
	}
}

// AtRow writes the cell into body row index instead of the current row.
func AtRow(row int) CellOption {
	return func(c *cellConfig) {
		c.row = row
		c.hasRow = true
	}
}

// Aligned sets the alignment of the written cell.
func Aligned(align Align) CellOption {
	return func(c *cellConfig) {
		c.align = align
	}
}

// AddHeader appends one cell to the header row.
func (t *Table) AddHeader(content interface{}, align Align) *Table {
	if t.header == nil {
		t.header = &Row{}
	}
	t.header.set(t.header.Len(), Text(content), align)
	t.setMaxColumnCount(t.header.Len())
	return t
}

// SetHeaders replaces the header row. aligns may be shorter than cells.
func (t *Table) SetHeaders(cells []interface{}, aligns ...Align) *Table {
	t.header = newRow(cells, aligns)
	t.setMaxColumnCount(t.header.Len())
	return t
}

// Headers returns the header cells, or false if no header was ever set.
func (t *Table) Headers() ([]string, bool) {
	if t.header == nil {
		return nil, false
	}
	return t.header.Cells(), true
}

// Header returns a copy of the header row.
func (t *Table) Header() (Row, bool) {
	if t.header == nil {
		return Row{}, false
	}
	return t.header.clone(), true
}

// AddFooter appends one cell to the footer row.
func (t *Table) AddFooter(content interface{}, align Align) *Table {
	if t.footer == nil {
		t.footer = &Row{}
	}
	t.footer.set(t.footer.Len(), Text(content), align)
	t.setMaxColumnCount(t.footer.Len())
	return t
}

// SetFooters replaces the footer row. aligns may be shorter than cells.
func (t *Table) SetFooters(cells []interface{}, aligns ...Align) *Table {
	t.footer = newRow(cells, aligns)
	t.setMaxColumnCount(t.footer.Len())
	return t
}

// Footers returns the footer cells, or false if no footer was ever set.
func (t *Table) Footers() ([]string, bool) {
	if t.footer == nil {
		return nil, false
	}
	return t.footer.Cells(), true
}

// Footer returns a copy of the footer row.
func (t *Table) Footer() (Row, bool) {
	if t.footer == nil {
		return Row{}, false
	}
	return t.footer.clone(), true
}

// AddRow advances the row cursor. When cells are given they populate the
// new row from column 0.
func (t *Table) AddRow(cells ...interface{}) *Table {
	t.cursor++
	row := t.rowAt(t.cursor)
	for col, content := range cells {
		row.set(col, Text(content), AlignDefault)
	}
	if len(cells) > 0 {
		t.setMaxColumnCount(row.Len())
	}
	return t
}

// AddColumn writes one cell. By default it goes into the current row at
// the row's next free column; see Column, AtRow and Aligned.
//
// A right alignment given here becomes the column default when the column
// has none yet. SetColumnAlign always overrides it.
func (t *Table) AddColumn(content interface{}, opts ...CellOption) *Table {
	cfg := cellConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	rowIndex := t.cursor
	if cfg.hasRow {
		rowIndex = cfg.row
	}
	if rowIndex < 0 && !cfg.hasRow {
		t.AddRow()
		rowIndex = t.cursor
	}
	if rowIndex < 0 {
		t.fail(BodySlot(rowIndex), cfg.col, ErrNegativeIndex)
		return t
	}
	if rowIndex < len(t.body) && t.body[rowIndex].rule {
		t.fail(RuleSlot(rowIndex), cfg.col, ErrRulePosition)
		return t
	}

	row := t.rowAt(rowIndex)
	col := row.Len()
	if cfg.hasCol {
		col = cfg.col
	}
	if col < 0 {
		t.fail(BodySlot(rowIndex), col, ErrNegativeIndex)
		return t
	}

	row.set(col, Text(content), cfg.align)
	t.setMaxColumnCount(row.Len())

	if cfg.align == AlignRight {
		if _, ok := t.firstAligns[col]; !ok {
			t.firstAligns[col] = AlignRight
		}
	}
	return t
}

// SetColumnAlign sets the alignment of a body column. It takes precedence
// over any alignment given per cell.
func (t *Table) SetColumnAlign(col int, align Align) *Table {
	if col < 0 {
		t.fail(BodySlot(t.cursor), col, ErrNegativeIndex)
		return t
	}
	t.columnAligns[col] = align.Resolve()
	return t
}

// AddBorderLine advances the row cursor and marks the position as a
// horizontal rule.
func (t *Table) AddBorderLine() *Table {
	t.cursor++
	t.grow(t.cursor)
	t.body[t.cursor] = position{rule: true}
	return t
}

// BodyAlign resolves the alignment of column col in a body row.
func (t *Table) BodyAlign(row Row, col int) Align {
	if a, ok := t.columnAligns[col]; ok {
		return a
	}
	if a := row.Align(col); a != AlignDefault {
		return a
	}
	if a, ok := t.firstAligns[col]; ok {
		return a
	}
	return AlignLeft
}

// Entries returns the body rows and rule markers in position order.
// Positions that were skipped over by explicit row writes are omitted.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.body))
	for i, p := range t.body {
		switch {
		case p.rule:
			entries = append(entries, Entry{Slot: RuleSlot(i)})
		case p.row != nil:
			entries = append(entries, Entry{Slot: BodySlot(i), Row: p.row.clone()})
		}
	}
	return entries
}

// RowCount returns the number of body rows, excluding rule markers.
func (t *Table) RowCount() int {
	n := 0
	for _, p := range t.body {
		if !p.rule && p.row != nil {
			n++
		}
	}
	return n
}

// MaxColumnCount returns the widest row length seen so far.
func (t *Table) MaxColumnCount() int {
	return t.maxColumnCount
}

// Err returns the first structural problem met while building the table.
func (t *Table) Err() error {
	return t.err
}

func (t *Table) rowAt(index int) *Row {
	t.grow(index)
	p := &t.body[index]
	if p.row == nil {
		p.row = &Row{}
	}
	return p.row
}

func (t *Table) grow(index int) {
	for len(t.body) <= index {
		t.body = append(t.body, position{})
	}
}

func (t *Table) setMaxColumnCount(count int) {
	if count > t.maxColumnCount {
		t.maxColumnCount = count
	}
}

func (t *Table) fail(slot Slot, col int, err error) {
	if t.err == nil {
		t.err = &StructuralError{Slot: slot, Column: col, Err: err}
	}
}
