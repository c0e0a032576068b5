package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"reflect"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/consoletable/internal/input"
	"github.com/salmonumbrella/consoletable/internal/render"
	"github.com/salmonumbrella/consoletable/internal/table"
)

// Format represents the output format type.
type Format string

const (
	// FormatAuto picks html when running behind a web gateway and table otherwise.
	FormatAuto Format = "auto"
	// FormatTable is the bordered text table (default).
	FormatTable Format = "table"
	// FormatText is the table without its border.
	FormatText Format = "text"
	// FormatHTML is the table wrapped in a <pre> block.
	FormatHTML Format = "html"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatNDJSON is newline-delimited JSON format.
	FormatNDJSON Format = "ndjson"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatTable, FormatText, FormatHTML, FormatJSON, FormatNDJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.New("invalid --output format (expected auto|table|text|html|json|ndjson|yaml)")
	}
}

// Resolve turns FormatAuto into a concrete format. web reports whether the
// process runs behind a web gateway, where output ends up in a browser.
func (f Format) Resolve(web bool) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if web {
		return FormatHTML
	}
	return FormatTable
}

// IsStructured reports whether the format is machine-readable structured output.
func IsStructured(format Format) bool {
	switch format {
	case FormatJSON, FormatNDJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Printer handles output formatting across different formats.
type Printer struct {
	w        io.Writer
	format   Format
	renderer *render.Renderer
	table    TableOptions
}

// NewPrinter creates a new Printer that writes to w in the given format.
// A nil renderer uses the default layout.
func NewPrinter(w io.Writer, format Format, r *render.Renderer, opts TableOptions) *Printer {
	if r == nil {
		r = render.New()
	}
	return &Printer{
		w:        w,
		format:   format.Resolve(false),
		renderer: r,
		table:    opts,
	}
}

// Print outputs data in the configured format.
// Documents and tables are laid out by the renderer; other values are
// tabulated by reflection first.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	data = ApplyShaping(ctx, data)

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, structured(data))
	case FormatNDJSON:
		return p.printNDJSON(ctx, data)
	case FormatYAML:
		return p.printYAML(structured(data))
	case FormatTable, FormatText, FormatHTML:
		return p.printTable(data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// Render lays out data as text using the printer's format and renderer
// without writing it.
func (p *Printer) Render(data interface{}) (string, error) {
	t, err := p.tableFor(data)
	if err != nil {
		return "", err
	}
	r := p.renderer
	if p.format == FormatText {
		o := r.Options()
		o.Border = false
		o.AllBorders = false
		r = render.NewWithOptions(o)
	}
	return r.Render(t), nil
}

func (p *Printer) printTable(data interface{}) error {
	out, err := p.Render(data)
	if err != nil {
		return err
	}
	if p.format == FormatHTML {
		out = "<pre>" + html.EscapeString(out) + "</pre>\n"
	} else if out == "" {
		return nil
	}
	_, err = io.WriteString(p.w, out)
	return err
}

func (p *Printer) tableFor(data interface{}) (*table.Table, error) {
	switch v := data.(type) {
	case *table.Table:
		return v, nil
	case *input.Document:
		return BuildTable(v, p.table)
	case input.Document:
		return BuildTable(&v, p.table)
	default:
		doc, err := documentOf(data)
		if err != nil {
			return nil, err
		}
		return BuildTable(doc, p.table)
	}
}

// printJSON outputs data as pretty-printed JSON.
// If a jq query is present in the context, it filters the output.
func (p *Printer) printJSON(ctx context.Context, data interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	query := QueryFromContext(ctx)
	if query == "" {
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return runQuery(query, data, enc)
}

// printNDJSON writes one JSON value per line. Documents emit one line per
// body row, keyed by header when the document has headers.
func (p *Printer) printNDJSON(ctx context.Context, data interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	if query := QueryFromContext(ctx); query != "" {
		return runQuery(query, structured(data), enc)
	}

	var items []interface{}
	switch v := data.(type) {
	case *input.Document:
		items = records(v)
	case *table.Table:
		items = records(DocumentOf(v))
	default:
		rv := reflect.ValueOf(data)
		for rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return enc.Encode(data)
		}
		for i := 0; i < rv.Len(); i++ {
			items = append(items, rv.Index(i).Interface())
		}
	}

	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// printYAML outputs data as YAML.
func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// runQuery feeds data through a jq program and encodes every result.
func runQuery(query string, data interface{}, enc *json.Encoder) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	value, err := plain(data)
	if err != nil {
		return err
	}

	iter := code.Run(value)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// plain converts data to the map/slice shapes gojq accepts by a JSON round trip.
func plain(data interface{}) (interface{}, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode query input: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode query input: %w", err)
	}
	return v, nil
}

// structured returns the value that structured formats encode: tables
// become documents, everything else is encoded as is.
func structured(data interface{}) interface{} {
	if t, ok := data.(*table.Table); ok {
		return DocumentOf(t)
	}
	return data
}

// records returns the body rows of doc as NDJSON items.
func records(doc *input.Document) []interface{} {
	items := make([]interface{}, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		if row.Rule {
			continue
		}
		if len(doc.Headers) == 0 {
			items = append(items, row)
			continue
		}
		rec := make(map[string]interface{}, len(doc.Headers))
		for i, h := range doc.Headers {
			if i < len(row.Cells) {
				rec[h] = row.Cells[i]
			} else {
				rec[h] = nil
			}
		}
		items = append(items, rec)
	}
	return items
}
