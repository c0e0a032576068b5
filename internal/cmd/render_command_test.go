package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const languagesCSV = "Language,Year\nPHP,1994\n---\nC++,1983\nC,1970\n"

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestRenderCommand_Stdin(t *testing.T) {
	res := runCLI(t, languagesCSV, "render")
	if res.err != nil {
		t.Fatalf("render: %v (stderr %q)", res.err, res.errOut)
	}
	want := lines(
		"+----------+------+",
		"| Language | Year |",
		"+----------+------+",
		"| PHP      | 1994 |",
		"+----------+------+",
		"| C++      | 1983 |",
		"| C        | 1970 |",
		"+----------+------+",
	)
	if diff := cmp.Diff(want, res.out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommand_Layout(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no border",
			args: []string{"render", "--no-border"},
			want: lines(
				" Language  Year ",
				"----------------",
				" PHP       1994 ",
				"----------------",
				" C++       1983 ",
				" C         1970 ",
			),
		},
		{
			name: "all borders",
			args: []string{"render", "--all-borders"},
			want: lines(
				"+----------+------+",
				"| Language | Year |",
				"+----------+------+",
				"| PHP      | 1994 |",
				"+----------+------+",
				"| C++      | 1983 |",
				"+----------+------+",
				"| C        | 1970 |",
				"+----------+------+",
			),
		},
		{
			name: "numbers right with indent",
			args: []string{"render", "--numbers-right", "--indent", "2", "--padding", "0"},
			want: lines(
				"  +--------+----+",
				"  |Language|Year|",
				"  +--------+----+",
				"  |PHP     |1994|",
				"  +--------+----+",
				"  |C++     |1983|",
				"  |C       |1970|",
				"  +--------+----+",
			),
		},
		{
			name: "text output",
			args: []string{"render", "-o", "text"},
			want: lines(
				" Language  Year ",
				"----------------",
				" PHP       1994 ",
				"----------------",
				" C++       1983 ",
				" C         1970 ",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, languagesCSV, tt.args...)
			if res.err != nil {
				t.Fatalf("render: %v", res.err)
			}
			if diff := cmp.Diff(tt.want, res.out); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderCommand_Align(t *testing.T) {
	in := "Name,Qty\napple,3\nfig,12\n"
	res := runCLI(t, in, "render", "--align", "Qty=right", "--header-align", "1=right")
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	want := lines(
		"+-------+-----+",
		"| Name  | Qty |",
		"+-------+-----+",
		"| apple |   3 |",
		"| fig   |  12 |",
		"+-------+-----+",
	)
	if diff := cmp.Diff(want, res.out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	res = runCLI(t, in, "render", "--align", "Price=right")
	if res.err == nil || !strings.Contains(res.err.Error(), `unknown column "Price"`) {
		t.Fatalf("expected unknown column error, got %v", res.err)
	}

	res = runCLI(t, in, "render", "--align", "Qty")
	if res.err == nil || !strings.Contains(res.err.Error(), "--align") {
		t.Fatalf("expected malformed --align error, got %v", res.err)
	}
}

func TestRenderCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sizes.tsv")
	if err := os.WriteFile(path, []byte("Size\tCount\nS\t4\nM\t10\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	res := runCLI(t, "", "render", "--footer-last", path)
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	want := lines(
		"+------+-------+",
		"| Size | Count |",
		"+------+-------+",
		"| S    | 4     |",
		"+------+-------+",
		"| M    | 10    |",
		"+------+-------+",
	)
	if diff := cmp.Diff(want, res.out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	res = runCLI(t, "", "render", filepath.Join(t.TempDir(), "missing.csv"))
	if res.err == nil || !strings.Contains(res.err.Error(), "failed to read") {
		t.Fatalf("expected read error, got %v", res.err)
	}
}

func TestRenderCommand_JSONInput(t *testing.T) {
	in := `[{"name":"b","size":2},{"name":"a","size":10}]`
	res := runCLI(t, in, "render", "-f", "json", "--columns", "size,name", "--result-sort-by", "name")
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	want := lines(
		"+------+------+",
		"| size | name |",
		"+------+------+",
		"| 10   | a    |",
		"| 2    | b    |",
		"+------+------+",
	)
	if diff := cmp.Diff(want, res.out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommand_StructuredOutput(t *testing.T) {
	res := runCLI(t, languagesCSV, "render", "-o", "json", "--result-limit", "1")
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	var doc struct {
		Headers []string      `json:"headers"`
		Rows    []interface{} `json:"rows"`
	}
	if err := json.Unmarshal([]byte(res.out), &doc); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, res.out)
	}
	if diff := cmp.Diff([]string{"Language", "Year"}, doc.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Rows) != 1 {
		t.Fatalf("expected one row after limit, got %v", doc.Rows)
	}

	res = runCLI(t, languagesCSV, "render", "-o", "ndjson", "--query", `.rows[] | select(. != "---") | .[0]`)
	if res.err != nil {
		t.Fatalf("render ndjson: %v", res.err)
	}
	if res.out != "\"PHP\"\n\"C++\"\n\"C\"\n" {
		t.Fatalf("unexpected ndjson output: %q", res.out)
	}

	res = runCLI(t, languagesCSV, "render", "--query", ".rows")
	if res.err == nil || !strings.Contains(res.err.Error(), "--query requires") {
		t.Fatalf("expected --query error for table output, got %v", res.err)
	}
}

func TestRenderCommand_FlagsResetBetweenRuns(t *testing.T) {
	res := runCLI(t, languagesCSV, "render", "--no-border", "--result-limit", "1", "--align", "Year=right")
	if res.err != nil {
		t.Fatalf("first render: %v", res.err)
	}

	res = runCLI(t, languagesCSV, "render")
	if res.err != nil {
		t.Fatalf("second render: %v", res.err)
	}
	want := lines(
		"+----------+------+",
		"| Language | Year |",
		"+----------+------+",
		"| PHP      | 1994 |",
		"+----------+------+",
		"| C++      | 1983 |",
		"| C        | 1970 |",
		"+----------+------+",
	)
	if diff := cmp.Diff(want, res.out); diff != "" {
		t.Fatalf("flags from the first run leaked (-want +got):\n%s", diff)
	}
}

func TestRenderCommand_WebGateway(t *testing.T) {
	res := runCLIWithEnv(t, map[string]string{"GATEWAY_INTERFACE": "CGI/1.1"}, "a,b\n<i>,&\n", "render")
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	if !strings.HasPrefix(res.out, "<pre>+") || !strings.HasSuffix(res.out, "</pre>\n") {
		t.Fatalf("expected html output, got %q", res.out)
	}
	if !strings.Contains(res.out, "| &lt;i&gt; | &amp; |") {
		t.Fatalf("expected escaped cells, got %q", res.out)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "empty input", stdin: "", args: []string{"render", "-f", "csv"}, want: "input is empty"},
		{name: "bad input format", stdin: "a\n", args: []string{"render", "-f", "xml"}, want: "xml"},
		{name: "negative padding", stdin: "a\n", args: []string{"render", "--padding", "-1"}, want: "--padding"},
		{name: "bad width mode", stdin: "a\n", args: []string{"render", "--width-mode", "wide"}, want: "wide"},
		{name: "bad output", stdin: "a\n", args: []string{"render", "-o", "xml"}, want: "invalid --output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.stdin, tt.args...)
			if res.err == nil {
				t.Fatalf("expected error, got output %q", res.out)
			}
			if !strings.Contains(res.err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", res.err, tt.want)
			}
		})
	}
}
