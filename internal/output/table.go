package output

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/salmonumbrella/consoletable/internal/input"
	"github.com/salmonumbrella/consoletable/internal/table"
)

// TableOptions controls how a Document is laid into a table.Table.
// Column keys are zero-based.
type TableOptions struct {
	// NumbersRight right-aligns numeric cells; the first one in a column
	// makes right alignment that column's default.
	NumbersRight bool
	ColumnAligns map[int]table.Align
	HeaderAligns map[int]table.Align
	FooterAligns map[int]table.Align
}

// BuildTable lays doc into a new table. Column alignments from the document
// come first and are overridden by opts.ColumnAligns.
func BuildTable(doc *input.Document, opts TableOptions) (*table.Table, error) {
	t := table.New()
	if doc == nil {
		return t, nil
	}

	for i, h := range doc.Headers {
		t.AddHeader(h, opts.HeaderAligns[i])
	}

	for i, a := range doc.Aligns {
		align, err := table.ParseAlign(a)
		if err != nil {
			return nil, fmt.Errorf("aligns[%d]: %w", i, err)
		}
		if align != table.AlignDefault {
			t.SetColumnAlign(i, align)
		}
	}
	for _, col := range sortedKeys(opts.ColumnAligns) {
		t.SetColumnAlign(col, opts.ColumnAligns[col])
	}

	for _, row := range doc.Rows {
		if row.Rule {
			t.AddBorderLine()
			continue
		}
		t.AddRow()
		for col, cell := range row.Cells {
			var cellOpts []table.CellOption
			if opts.NumbersRight && isNumeric(cell) {
				cellOpts = append(cellOpts, table.Aligned(table.AlignRight))
			}
			t.AddColumn(cell, append(cellOpts, table.Column(col))...)
		}
	}

	if doc.Footer != nil {
		for i, f := range doc.Footer {
			t.AddFooter(f, opts.FooterAligns[i])
		}
	}
	return t, t.Err()
}

// DocumentOf reads a table back into a Document for structured output.
func DocumentOf(t *table.Table) *input.Document {
	doc := &input.Document{}
	if headers, ok := t.Headers(); ok {
		doc.Headers = headers
	}
	for _, e := range t.Entries() {
		if e.Slot.Kind == table.SlotRule {
			doc.Rows = append(doc.Rows, input.RuleRow())
			continue
		}
		cells := e.Row.Cells()
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		doc.Rows = append(doc.Rows, input.CellRow(row...))
	}
	if footers, ok := t.Footers(); ok {
		doc.Footer = footers
	}
	return doc
}

func sortedKeys(m map[int]table.Align) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func isNumeric(v interface{}) bool {
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}

// documentOf tabulates arbitrary values: slices of structs use exported
// fields as columns, slices of maps their sorted keys, and a single struct
// or map becomes key/value rows.
func documentOf(data interface{}) (*input.Document, error) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return &input.Document{}, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return listDocument(v), nil
	case reflect.Struct, reflect.Map:
		doc := &input.Document{Headers: []string{"key", "value"}}
		for _, f := range fieldsOf(v) {
			doc.Rows = append(doc.Rows, input.CellRow(f.name, cellOf(f.get(v))))
		}
		return doc, nil
	case reflect.Invalid:
		return &input.Document{}, nil
	default:
		return &input.Document{Rows: []input.Row{input.CellRow(v.Interface())}}, nil
	}
}

func listDocument(v reflect.Value) *input.Document {
	doc := &input.Document{}
	if v.Len() == 0 {
		return doc
	}

	first := indirect(v.Index(0))
	if first.Kind() != reflect.Struct && first.Kind() != reflect.Map {
		doc.Headers = []string{"value"}
		for i := 0; i < v.Len(); i++ {
			doc.Rows = append(doc.Rows, input.CellRow(cellOf(v.Index(i))))
		}
		return doc
	}

	fields := fieldsOf(first)
	for _, f := range fields {
		doc.Headers = append(doc.Headers, f.name)
	}
	for i := 0; i < v.Len(); i++ {
		item := indirect(v.Index(i))
		cells := make([]interface{}, len(fields))
		if item.Kind() == first.Kind() {
			for j, f := range fields {
				cells[j] = cellOf(f.get(item))
			}
		}
		doc.Rows = append(doc.Rows, input.CellRow(cells...))
	}
	return doc
}

type field struct {
	name string
	get  func(reflect.Value) reflect.Value
}

func fieldsOf(v reflect.Value) []field {
	if v.Kind() == reflect.Map {
		keys := v.MapKeys()
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, fmt.Sprint(k.Interface()))
		}
		sort.Strings(names)
		fields := make([]field, 0, len(names))
		for _, name := range names {
			name := name
			fields = append(fields, field{name: name, get: func(m reflect.Value) reflect.Value {
				for _, k := range m.MapKeys() {
					if fmt.Sprint(k.Interface()) == name {
						return m.MapIndex(k)
					}
				}
				return reflect.Value{}
			}})
		}
		return fields
	}

	t := v.Type()
	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		idx := i
		fields = append(fields, field{name: name, get: func(s reflect.Value) reflect.Value {
			return s.Field(idx)
		}})
	}
	return fields
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// cellOf returns the cell content of a reflected value. Nil pointers and
// interfaces give an empty cell and slices are joined with ", ".
func cellOf(v reflect.Value) interface{} {
	v = indirect(v)
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = table.Text(cellOf(v.Index(i)))
		}
		return strings.Join(parts, ", ")
	default:
		return v.Interface()
	}
}
