package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/consoletable/internal/output"
	"github.com/salmonumbrella/consoletable/internal/table"
	"github.com/salmonumbrella/consoletable/internal/width"
)

var widthCmd = &cobra.Command{
	Use:   "width <text>...",
	Short: "Show how strings are measured",
	Long: `Show the visual width of each argument as the renderer measures it,
together with its byte, code point and grapheme counts and the emoji
clusters found in it. Whitespace is collapsed and ANSI sequences are
ignored, exactly as for table cells.

Examples:
  consoletable width "中文" "👍🏽" $'\e[31mred\e[0m'
  consoletable width --width-mode runewidth "中文"
  consoletable width -o json "🇳🇴"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWidth,
}

func init() {
	rootCmd.AddCommand(widthCmd)
}

func runWidth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mode, err := widthMode(cmd)
	if err != nil {
		return err
	}

	reports := make([]width.Report, 0, len(args))
	for _, arg := range args {
		reports = append(reports, width.Inspect(arg, mode))
	}
	loggerFromContext(ctx).WithField("mode", string(mode)).Debugf("Measured %d strings.", len(reports))

	if structuredOutputRequested() {
		return printResult(ctx, reports, output.TableOptions{})
	}
	return printResult(ctx, widthTable(reports), output.TableOptions{})
}

// widthTable lays reports out one per row with a total width footer.
func widthTable(reports []width.Report) *table.Table {
	t := table.New().
		AddHeader("text", table.AlignLeft).
		AddHeader("bytes", table.AlignRight).
		AddHeader("code points", table.AlignRight).
		AddHeader("graphemes", table.AlignRight).
		AddHeader("clusters", table.AlignLeft).
		AddHeader("width", table.AlignRight)

	total := 0
	for _, r := range reports {
		kinds := make([]string, len(r.Clusters))
		for i, c := range r.Clusters {
			kinds[i] = c.Kind.String()
		}
		right := table.Aligned(table.AlignRight)

		t.AddRow().
			AddColumn(r.Text).
			AddColumn(r.Bytes, right).
			AddColumn(r.CodePoints, right).
			AddColumn(r.Graphemes, right).
			AddColumn(strings.Join(kinds, " ")).
			AddColumn(r.Width, right)
		total += r.Width
	}

	if len(reports) > 1 {
		t.AddFooter("total", table.AlignLeft).
			AddFooter("", table.AlignDefault).
			AddFooter("", table.AlignDefault).
			AddFooter("", table.AlignDefault).
			AddFooter("", table.AlignDefault).
			AddFooter(total, table.AlignRight)
	}
	return t
}
