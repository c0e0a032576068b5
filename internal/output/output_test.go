package output

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/salmonumbrella/consoletable/internal/input"
	"github.com/salmonumbrella/consoletable/internal/render"
	"github.com/salmonumbrella/consoletable/internal/table"
)

func languages() *input.Document {
	return &input.Document{
		Headers: []string{"Language", "Year"},
		Rows: []input.Row{
			input.CellRow("PHP", "1994"),
			input.RuleRow(),
			input.CellRow("C++", "1983"),
			input.CellRow("C", "1970"),
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "TEXT", " html ", "json", "ndjson", "yaml"} {
		if _, err := ParseFormat(in); err != nil {
			t.Fatalf("ParseFormat(%q): %v", in, err)
		}
	}
	if f, _ := ParseFormat(""); f != FormatAuto {
		t.Fatalf("expected auto for empty format, got %q", f)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}

	if FormatAuto.Resolve(true) != FormatHTML || FormatAuto.Resolve(false) != FormatTable {
		t.Fatal("auto should resolve to html behind a gateway and table otherwise")
	}
	if FormatJSON.Resolve(true) != FormatJSON {
		t.Fatal("explicit formats must not change")
	}
}

func TestPrintTable(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatTable, nil, TableOptions{})

	if err := p.Print(context.Background(), languages()); err != nil {
		t.Fatalf("Print table failed: %v", err)
	}
	want := strings.Join([]string{
		"+----------+------+",
		"| Language | Year |",
		"+----------+------+",
		"| PHP      | 1994 |",
		"+----------+------+",
		"| C++      | 1983 |",
		"| C        | 1970 |",
		"+----------+------+",
		"",
	}, "\n")
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintTextHidesBorder(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatText, render.New(render.WithAllBorders(true)), TableOptions{})

	if err := p.Print(context.Background(), &input.Document{Rows: []input.Row{input.CellRow("a", "b")}}); err != nil {
		t.Fatalf("Print text failed: %v", err)
	}
	if sb.String() != " a  b \n" {
		t.Fatalf("unexpected text output: %q", sb.String())
	}
}

func TestPrintHTMLEscapes(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatHTML, nil, TableOptions{})

	doc := &input.Document{Rows: []input.Row{input.CellRow("<b>&</b>")}}
	if err := p.Print(context.Background(), doc); err != nil {
		t.Fatalf("Print html failed: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "<pre>+") || !strings.HasSuffix(out, "+\n</pre>\n") {
		t.Fatalf("expected <pre> wrapping, got %q", out)
	}
	if !strings.Contains(out, "| &lt;b&gt;&amp;&lt;/b&gt; |") {
		t.Fatalf("expected escaped cell, got %q", out)
	}
}

func TestPrintEmptyTable(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatTable, nil, TableOptions{})
	if err := p.Print(context.Background(), &input.Document{}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if sb.Len() != 0 {
		t.Fatalf("expected no output, got %q", sb.String())
	}
}

func TestPrintJSONAndQuery(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatJSON, nil, TableOptions{})

	if err := p.Print(context.Background(), languages()); err != nil {
		t.Fatalf("Print JSON failed: %v", err)
	}
	if !strings.Contains(sb.String(), `"headers": [`) || !strings.Contains(sb.String(), `"---"`) {
		t.Fatalf("unexpected json output: %s", sb.String())
	}

	sb.Reset()
	ctx := WithQuery(context.Background(), `.rows | map(select(. != "---")) | length`)
	if err := p.Print(ctx, languages()); err != nil {
		t.Fatalf("Print JSON with query failed: %v", err)
	}
	if sb.String() != "3\n" {
		t.Fatalf("unexpected query output: %q", sb.String())
	}

	sb.Reset()
	if err := p.Print(WithQuery(context.Background(), ".["), languages()); err == nil {
		t.Fatal("expected invalid query error")
	}
}

func TestPrintNDJSONRecords(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatNDJSON, nil, TableOptions{})

	if err := p.Print(context.Background(), languages()); err != nil {
		t.Fatalf("Print NDJSON failed: %v", err)
	}
	want := `{"Language":"PHP","Year":"1994"}` + "\n" +
		`{"Language":"C++","Year":"1983"}` + "\n" +
		`{"Language":"C","Year":"1970"}` + "\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("ndjson mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintYAMLTable(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatYAML, nil, TableOptions{})

	tbl := table.New().AddHeader("k", table.AlignDefault).AddRow("v")
	if err := p.Print(context.Background(), tbl); err != nil {
		t.Fatalf("Print YAML failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "headers:\n  - k") || !strings.Contains(out, "- - v") {
		t.Fatalf("unexpected yaml output: %s", out)
	}
}

func TestPrintStructSlice(t *testing.T) {
	type item struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
		skip  bool
	}
	var sb strings.Builder
	p := NewPrinter(&sb, FormatTable, nil, TableOptions{NumbersRight: true})

	if err := p.Print(context.Background(), []item{{Name: "a", Count: 10}, {Name: "bb", Count: 2}}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := strings.Join([]string{
		"+------+-------+",
		"| name | count |",
		"+------+-------+",
		"| a    |    10 |",
		"| bb   |     2 |",
		"+------+-------+",
		"",
	}, "\n")
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintMapAsKeyValue(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, FormatText, nil, TableOptions{})

	if err := p.Print(context.Background(), map[string]interface{}{"padding": 2, "border": true}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := " key      value \n" +
		"----------------\n" +
		" border   true  \n" +
		" padding  2     \n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTableAlignments(t *testing.T) {
	doc := &input.Document{
		Headers: []string{"Name", "Age", "City"},
		Rows:    []input.Row{input.CellRow("John", float64(25), "Oslo")},
		Footer:  []string{"Total", "1"},
		Aligns:  []string{"", "right", "right"},
	}
	tbl, err := BuildTable(doc, TableOptions{
		ColumnAligns: map[int]table.Align{2: table.AlignLeft},
		FooterAligns: map[int]table.Align{1: table.AlignRight},
	})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	row := tbl.Entries()[0].Row
	if got := tbl.BodyAlign(row, 1); got != table.AlignRight {
		t.Fatalf("expected document align right for column 1, got %v", got)
	}
	if got := tbl.BodyAlign(row, 2); got != table.AlignLeft {
		t.Fatalf("expected flag align to override document, got %v", got)
	}
	footer, ok := tbl.Footer()
	if !ok || footer.Align(1) != table.AlignRight {
		t.Fatalf("expected right aligned footer cell, got %v", footer.Align(1))
	}

	if _, err := BuildTable(&input.Document{Aligns: []string{"middle"}}, TableOptions{}); err == nil {
		t.Fatal("expected error for unknown alignment")
	}
}

func TestDocumentOfRoundTrip(t *testing.T) {
	tbl := table.New().
		SetHeaders([]interface{}{"a", "b"}).
		AddRow(1, 2).
		AddBorderLine().
		AddRow("x").
		AddFooter("sum", table.AlignDefault)

	doc := DocumentOf(tbl)
	want := &input.Document{
		Headers: []string{"a", "b"},
		Rows:    []input.Row{input.CellRow("1", "2"), input.RuleRow(), input.CellRow("x")},
		Footer:  []string{"sum"},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyShapingDocument(t *testing.T) {
	doc := languages()

	ctx := WithShaping(context.Background(), Shaping{SortBy: "year", Limit: 2})
	got := ApplyShaping(ctx, doc).(*input.Document)

	want := []input.Row{input.CellRow("C", "1970"), input.CellRow("C++", "1983")}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Rows) != 4 {
		t.Fatalf("input document was modified: %v", doc.Rows)
	}

	got = ApplyShaping(WithShaping(context.Background(), Shaping{Limit: 1}), doc).(*input.Document)
	if diff := cmp.Diff([]input.Row{input.CellRow("PHP", "1994")}, got.Rows); diff != "" {
		t.Fatalf("limit should drop the trailing rule (-want +got):\n%s", diff)
	}
}

func TestApplyShapingSlice(t *testing.T) {
	items := []map[string]interface{}{
		{"name": "b", "size": 2},
		{"name": "a"},
		{"name": "c", "size": 10},
	}
	ctx := WithShaping(context.Background(), Shaping{SortBy: "size", Desc: true})
	got := ApplyShaping(ctx, items).([]map[string]interface{})

	var names []string
	for _, item := range got {
		names = append(names, item["name"].(string))
	}
	if diff := cmp.Diff([]string{"c", "b", "a"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b interface{}
		want int
	}{
		{"10", "9", 1},
		{2, 2.5, -1},
		{"abc", "abd", -1},
		{"x", 1, 1},
		{3.0, "3", 0},
	}
	for _, tt := range tests {
		if got := compareValues(tt.a, tt.b); got != tt.want {
			t.Fatalf("compareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
