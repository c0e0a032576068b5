package output

import (
	"context"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/salmonumbrella/consoletable/internal/input"
	"github.com/salmonumbrella/consoletable/internal/table"
)

// ApplyShaping applies the Shaping attached to ctx to output data when
// possible. The input is never modified.
//
// Documents sort and limit their body rows. Sorting drops rule markers since
// they no longer separate anything meaningful. Slices sort by a field or
// map key of their items.
func ApplyShaping(ctx context.Context, data interface{}) interface{} {
	s := ShapingFromContext(ctx)
	if data == nil || !s.active() {
		return data
	}

	switch v := data.(type) {
	case *input.Document:
		return applyToDocument(v, s)
	case *table.Table:
		return applyToDocument(DocumentOf(v), s)
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return data
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return data
	}
	return applyToSlice(rv, s).Interface()
}

func applyToDocument(doc *input.Document, s Shaping) *input.Document {
	out := doc.Clone()

	if s.SortBy != "" {
		if col, ok := doc.ColumnIndex(s.SortBy); ok {
			rows := out.Rows[:0]
			for _, r := range out.Rows {
				if !r.Rule {
					rows = append(rows, r)
				}
			}
			sort.SliceStable(rows, func(i, j int) bool {
				a, aok := cellAt(rows[i], col)
				b, bok := cellAt(rows[j], col)
				return less(a, aok, b, bok, s.Desc)
			})
			out.Rows = rows
		}
	}

	if s.Limit > 0 {
		seen := 0
		for i, r := range out.Rows {
			if r.Rule {
				continue
			}
			if seen == s.Limit {
				out.Rows = trimRules(out.Rows[:i])
				break
			}
			seen++
		}
	}
	return out
}

// trimRules drops rule markers left dangling at the end of rows.
func trimRules(rows []input.Row) []input.Row {
	for len(rows) > 0 && rows[len(rows)-1].Rule {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func cellAt(r input.Row, col int) (interface{}, bool) {
	if col >= len(r.Cells) || r.Cells[col] == nil {
		return nil, false
	}
	return r.Cells[col], true
}

// applyToSlice copies, sorts, and limits a slice value.
func applyToSlice(v reflect.Value, s Shaping) reflect.Value {
	sliceType := v.Type()
	if v.Kind() == reflect.Array {
		sliceType = reflect.SliceOf(v.Type().Elem())
	}
	out := reflect.MakeSlice(sliceType, v.Len(), v.Len())
	reflect.Copy(out, v)

	if s.SortBy != "" {
		key := normalizeName(s.SortBy)
		sort.SliceStable(out.Interface(), func(i, j int) bool {
			a, aok := lookup(out.Index(i), key)
			b, bok := lookup(out.Index(j), key)
			return less(a, aok, b, bok, s.Desc)
		})
	}

	if s.Limit > 0 && s.Limit < out.Len() {
		return out.Slice(0, s.Limit)
	}
	return out
}

// lookup finds a struct field (by name or json tag) or map key matching key.
func lookup(v reflect.Value, key string) (interface{}, bool) {
	v = indirect(v)
	if !v.IsValid() || (v.Kind() != reflect.Struct && v.Kind() != reflect.Map) {
		return nil, false
	}
	for _, f := range fieldsOf(v) {
		if normalizeName(f.name) != key {
			continue
		}
		got := indirect(f.get(v))
		if !got.IsValid() {
			return nil, false
		}
		return got.Interface(), true
	}
	return nil, false
}

// less orders present values before missing ones regardless of direction.
func less(a interface{}, aok bool, b interface{}, bok bool, desc bool) bool {
	if !aok || !bok {
		return aok && !bok
	}
	c := compareValues(a, b)
	if desc {
		return c > 0
	}
	return c < 0
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "_", ""), "-", ""))
}

// compareValues compares numerically when both sides read as numbers,
// including numeric strings from CSV input, and as text otherwise.
func compareValues(a, b interface{}) int {
	fa, aok := number(a)
	fb, bok := number(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(table.Text(a), table.Text(b))
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
