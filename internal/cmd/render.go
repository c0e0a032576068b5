package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/consoletable/internal/input"
	"github.com/salmonumbrella/consoletable/internal/output"
	"github.com/salmonumbrella/consoletable/internal/table"
)

// Render flags
var (
	inputFmt     string
	noHeader     bool
	footerLast   bool
	selectExpr   string
	columnNames  []string
	numbersRight bool
	columnAlign  []string
	headerAlign  []string
	footerAlign  []string
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render a CSV, TSV, JSON or YAML document as a table",
	Long: `Render a tabular document as a fixed-width table.

Input is read from the given file, or from stdin when the file is "-" or
omitted. The format is taken from --input-format, then the config, then the
file extension, and is otherwise guessed from the content.

CSV and TSV: the first record is the header unless --no-header is given.
A record holding only "---" draws a rule line.

JSON and YAML: a list of lists, a list of objects (keys become headers) or
an object {headers, rows, footer, aligns}. A row given as the string "---"
draws a rule line. Use --select to pick rows with a jq expression first.

Examples:
  consoletable render languages.csv
  consoletable render --all-borders --numbers-right stats.json
  kubectl get pods -o json | consoletable render --select '[.items[] | {name: .metadata.name, phase: .status.phase}]'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&inputFmt, "input-format", "f", "", "Input format (auto|csv|tsv|json|yaml)")
	f.BoolVar(&noHeader, "no-header", false, "Treat the first CSV/TSV record as a body row")
	f.BoolVar(&footerLast, "footer-last", false, "Use the last body row as the footer")
	f.StringVar(&selectExpr, "select", "", "jq expression applied to JSON/YAML input before tabulating")
	f.StringSliceVar(&columnNames, "columns", nil, "Object keys to show, in order")
	f.BoolVar(&numbersRight, "numbers-right", false, "Right-align numeric cells")
	f.StringSliceVar(&columnAlign, "align", nil, "Body column alignment, e.g. Age=right or 2=left")
	f.StringSliceVar(&headerAlign, "header-align", nil, "Header cell alignment, e.g. Age=right")
	f.StringSliceVar(&footerAlign, "footer-align", nil, "Footer cell alignment, e.g. 1=right")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := loggerFromContext(ctx)

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	stdin := stdinFromContext(ctx)
	if source == "-" && !inputHasData(stdin) {
		return fmt.Errorf("no input: pass a file or pipe data on stdin")
	}

	format, err := resolveInputFormat(cmd, source)
	if err != nil {
		return err
	}

	data, err := readInputSource(source, stdin)
	if err != nil {
		return err
	}

	doc, err := input.Decode(data, format, input.Options{
		NoHeader:   noHeader,
		FooterLast: footerLast,
		Select:     selectExpr,
		Columns:    columnNames,
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"source":  source,
		"format":  string(format),
		"bytes":   len(data),
		"headers": len(doc.Headers),
		"rows":    doc.BodyRows(),
		"footer":  doc.Footer != nil,
	}).Debug("Decoded input document.")

	opts := output.TableOptions{NumbersRight: numbersRight}
	if opts.ColumnAligns, err = parseAlignPairs(doc, columnAlign); err != nil {
		return fmt.Errorf("--align: %w", err)
	}
	if opts.HeaderAligns, err = parseAlignPairs(doc, headerAlign); err != nil {
		return fmt.Errorf("--header-align: %w", err)
	}
	if opts.FooterAligns, err = parseAlignPairs(doc, footerAlign); err != nil {
		return fmt.Errorf("--footer-align: %w", err)
	}

	if log.IsLevelEnabled(logrus.DebugLevel) {
		if t, err := output.BuildTable(doc, opts); err == nil {
			log.WithFields(logrus.Fields{
				"widths":  GetRenderer().ColumnWidths(t),
				"columns": t.MaxColumnCount(),
				"rows":    t.RowCount(),
			}).Debug("Measured columns.")
		}
	}

	return printResult(ctx, doc, opts)
}

// resolveInputFormat picks the input format: flag > config > file extension
// > content sniffing (done by the decoder).
func resolveInputFormat(cmd *cobra.Command, source string) (input.Format, error) {
	if flagChanged(cmd, "input-format") {
		return input.ParseFormat(inputFmt)
	}
	if activeConfig != nil && activeConfig.InputFormat != "" {
		return input.ParseFormat(activeConfig.InputFormat)
	}
	if source != "-" {
		return input.FormatForPath(source), nil
	}
	return input.FormatAuto, nil
}

// parseAlignPairs turns "column=align" pairs into column alignments. The
// column is a header name or a zero-based index.
func parseAlignPairs(doc *input.Document, pairs []string) (map[int]table.Align, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	aligns := make(map[int]table.Align, len(pairs))
	for _, pair := range pairs {
		ref, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected column=left|right, got %q", pair)
		}
		col, found := doc.ColumnIndex(ref)
		if !found {
			return nil, fmt.Errorf("unknown column %q", ref)
		}
		align, err := table.ParseAlign(value)
		if err != nil {
			return nil, err
		}
		aligns[col] = align
	}
	return aligns, nil
}
