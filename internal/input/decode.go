package input

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/consoletable/internal/table"
)

// Format is the encoding of an input document.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format. Empty string yields FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatTSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid input format %q (expected auto|csv|tsv|json|yaml)", s)
	}
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".json", ".ndjson":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Sniff guesses the format from the first non-blank byte of data.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatCSV
	}
	switch trimmed[0] {
	case '[', '{':
		return FormatJSON
	}
	if bytes.HasPrefix(trimmed, []byte("---\n")) || bytes.HasPrefix(trimmed, []byte("- ")) ||
		bytes.HasPrefix(trimmed, []byte("headers:")) || bytes.HasPrefix(trimmed, []byte("rows:")) {
		return FormatYAML
	}
	if line, _, _ := bytes.Cut(trimmed, []byte("\n")); bytes.Contains(line, []byte("\t")) {
		return FormatTSV
	}
	return FormatCSV
}

// Options controls how records become a Document.
type Options struct {
	// NoHeader treats the first CSV/TSV record as a body row.
	NoHeader bool
	// FooterLast moves the last body row into the footer.
	FooterLast bool
	// Select is a jq expression applied to JSON/YAML input before tabulating.
	Select string
	// Columns picks and orders object keys when rows are objects.
	Columns []string
}

// ParseError reports input that could not be decoded.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s input: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrEmpty is returned when the input holds no data at all.
var ErrEmpty = errors.New("input is empty")

// Decode reads a whole document from data.
func Decode(data []byte, format Format, opts Options) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Format: format, Err: ErrEmpty}
	}
	if format == FormatAuto || format == "" {
		format = Sniff(data)
	}

	var (
		doc *Document
		err error
	)
	switch format {
	case FormatCSV:
		doc, err = decodeDelimited(data, ',', opts)
	case FormatTSV:
		doc, err = decodeDelimited(data, '\t', opts)
	case FormatJSON, FormatYAML:
		doc, err = decodeStructured(data, format, opts)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &ParseError{Format: format, Err: err}
	}

	if opts.FooterLast {
		moveFooter(doc)
	}
	return doc, nil
}

func decodeDelimited(data []byte, comma rune, opts Options) (*Document, error) {
	if opts.Select != "" {
		return nil, errors.New("--select requires json or yaml input")
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	doc := &Document{}
	headerDone := opts.NoHeader
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == RuleMarker {
			doc.Rows = append(doc.Rows, RuleRow())
			continue
		}
		if !headerDone {
			doc.Headers = record
			headerDone = true
			continue
		}
		cells := make([]interface{}, len(record))
		for i, field := range record {
			cells[i] = field
		}
		doc.Rows = append(doc.Rows, CellRow(cells...))
	}
	return doc, nil
}

func decodeStructured(data []byte, format Format, opts Options) (*Document, error) {
	var value interface{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		var values []interface{}
		for {
			var v interface{}
			if err := dec.Decode(&v); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		// NDJSON: one object per line becomes one row each.
		if len(values) == 1 {
			value = values[0]
		} else {
			value = values
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, err
		}
		value = normalize(value)
	}

	if opts.Select != "" {
		selected, err := Select(value, opts.Select)
		if err != nil {
			return nil, err
		}
		value = selected
	}
	return tabulate(value, opts)
}

// normalize converts YAML specific values into the JSON-like shapes jq and
// the tabulator understand.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

func tabulate(value interface{}, opts Options) (*Document, error) {
	switch val := value.(type) {
	case map[string]interface{}:
		if isDocumentShape(val) {
			return documentFromObject(val, opts)
		}
		// A single object is shown as one row.
		return rowsFromList([]interface{}{val}, opts)
	case []interface{}:
		return rowsFromList(val, opts)
	case nil:
		return &Document{}, nil
	default:
		return &Document{Rows: []Row{CellRow(val)}}, nil
	}
}

func isDocumentShape(m map[string]interface{}) bool {
	_, ok := m["rows"]
	return ok
}

func documentFromObject(m map[string]interface{}, opts Options) (*Document, error) {
	rows, ok := m["rows"].([]interface{})
	if !ok && m["rows"] != nil {
		return nil, fmt.Errorf("rows must be a list, got %T", m["rows"])
	}
	doc, err := rowsFromList(rows, opts)
	if err != nil {
		return nil, err
	}
	if headers, ok := m["headers"]; ok {
		doc.Headers, err = stringList("headers", headers)
		if err != nil {
			return nil, err
		}
	}
	if footer, ok := m["footer"]; ok {
		doc.Footer, err = stringList("footer", footer)
		if err != nil {
			return nil, err
		}
	}
	if aligns, ok := m["aligns"]; ok {
		doc.Aligns, err = stringList("aligns", aligns)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func stringList(field string, v interface{}) ([]string, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be a list, got %T", field, v)
	}
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = cellString(item)
	}
	return out, nil
}

func rowsFromList(list []interface{}, opts Options) (*Document, error) {
	doc := &Document{}

	columns := opts.Columns
	if len(columns) == 0 {
		columns = objectKeys(list)
	}
	if len(columns) > 0 {
		doc.Headers = append([]string(nil), columns...)
	}

	for _, item := range list {
		switch val := item.(type) {
		case string:
			if strings.TrimSpace(val) == RuleMarker {
				doc.Rows = append(doc.Rows, RuleRow())
				continue
			}
			doc.Rows = append(doc.Rows, CellRow(val))
		case []interface{}:
			cells := make([]interface{}, len(val))
			for i, cell := range val {
				cells[i] = cellValue(cell)
			}
			doc.Rows = append(doc.Rows, CellRow(cells...))
		case map[string]interface{}:
			cells := make([]interface{}, len(columns))
			for i, key := range columns {
				cells[i] = cellValue(val[key])
			}
			doc.Rows = append(doc.Rows, CellRow(cells...))
		default:
			doc.Rows = append(doc.Rows, CellRow(cellValue(val)))
		}
	}
	return doc, nil
}

// objectKeys returns the sorted union of keys of the objects in list.
func objectKeys(list []interface{}) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// cellValue keeps scalars as they are and encodes nested values as compact
// JSON so they fit on one line.
func cellValue(v interface{}) interface{} {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return v
	}
}

func cellString(v interface{}) string {
	switch val := cellValue(v).(type) {
	case nil:
		return ""
	default:
		return table.Text(val)
	}
}

func moveFooter(doc *Document) {
	for i := len(doc.Rows) - 1; i >= 0; i-- {
		if doc.Rows[i].Rule {
			continue
		}
		footer := make([]string, len(doc.Rows[i].Cells))
		for j, c := range doc.Rows[i].Cells {
			footer[j] = cellString(c)
		}
		doc.Footer = footer
		doc.Rows = append(doc.Rows[:i], doc.Rows[i+1:]...)
		return
	}
}
