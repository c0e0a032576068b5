package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/consoletable/internal/config"
	"github.com/salmonumbrella/consoletable/internal/output"
	"github.com/salmonumbrella/consoletable/internal/render"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionLine() + "\n")
}

// Global flags
var (
	outputFmt   string
	outputType  output.Format
	debug       bool
	logFormat   string
	configFile  string
	queryExpr   string
	queryFile   string
	errorFmt    string
	quietFlag   bool
	resultLimit int
	resultSort  string
	resultDesc  bool

	// Layout flags
	paddingFlag    int
	indentFlag     int
	noBorderFlag   bool
	allBordersFlag bool
	widthModeFlag  string
)

// renderer is the shared table renderer, built from flags and config.
var renderer *render.Renderer

// activeConfig is the config loaded for the running command.
var activeConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "consoletable",
	Short: "Render tabular data as aligned console tables",
	Long: `consoletable renders CSV, TSV, JSON and YAML documents as fixed-width
text tables with borders, rule lines, padding, indentation and per-column
alignment. Widths account for wide characters, emoji and ANSI colour codes.

Layout defaults come from ~/.config/consoletable/config.yaml.

Environment Variables:
  GATEWAY_INTERFACE  When set (CGI), --output auto wraps tables in <pre>`,
	Version:       version,
	SilenceUsage:  false,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		logger, err := newLogger(cmd.ErrOrStderr(), debug, logFormat)
		if err != nil {
			return err
		}

		skipConfigLoad := cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
		cfg := &config.Config{}
		if !skipConfigLoad {
			loadedCfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			cfg = loadedCfg
		}
		activeConfig = cfg

		// Output format selection: --output > config > auto
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && strings.TrimSpace(cfg.OutputFormat) != "" {
			formatStr = strings.TrimSpace(cfg.OutputFormat)
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format.Resolve(isWebGateway())
		outputFmt = string(outputType)

		// jq query
		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = strings.TrimSpace(string(loaded))
		}
		if queryExpr != "" && outputType != output.FormatJSON && outputType != output.FormatNDJSON {
			return fmt.Errorf("--query requires --output json or ndjson")
		}

		// Default quiet mode for non-interactive structured output
		if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		opts, err := layoutOptions(cmd, cfg)
		if err != nil {
			return err
		}
		renderer = render.NewWithOptions(opts)

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = withLogger(ctx, logger)
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithShaping(ctx, output.Shaping{Limit: resultLimit, SortBy: resultSort, Desc: resultDesc})
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)
		if cmd != cmd.Root() {
			cmd.Root().SetContext(ctx)
		}

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}
		if effectiveErrorFormat(ctx) != "text" {
			cmd.SilenceUsage = true
		}

		logger.WithFields(logrus.Fields{
			"command": cmd.CommandPath(),
			"output":  string(outputType),
			"border":  opts.Border,
			"padding": opts.Padding,
			"indent":  opts.Indent,
		}).Debug("Command initialised.")
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(currentContext(), err)
		return err
	}
	return nil
}

// GetRenderer returns the renderer configured for the running command.
func GetRenderer() *render.Renderer {
	if renderer == nil {
		return render.New()
	}
	return renderer
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatTable
	}
	return parsed.Resolve(isWebGateway())
}

func versionLine() string {
	return fmt.Sprintf("consoletable version %s (commit: %s, built: %s)", version, commit, date)
}

func init() {
	rootCmd.SetVersionTemplate(versionLine() + "\n")

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&outputFmt, "output", "o", "auto", "Output format (auto|table|text|html|json|ndjson|yaml)")
	pf.StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	pf.StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	pf.StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	pf.BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	pf.IntVar(&resultLimit, "result-limit", 0, "Limit number of body rows in output (0 = unlimited)")
	pf.StringVar(&resultSort, "result-sort-by", "", "Sort body rows by column name or index")
	pf.BoolVar(&resultDesc, "result-desc", false, "Sort body rows in descending order")
	pf.BoolVar(&debug, "debug", false, "Enable debug logging on stderr")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text|json)")
	pf.StringVar(&configFile, "config", "", "Config file (default: ~/.config/consoletable/config.yaml)")

	pf.IntVar(&paddingFlag, "padding", 1, "Blanks on each side of a cell")
	pf.IntVar(&indentFlag, "indent", 0, "Spaces before the first column of every line")
	pf.BoolVar(&noBorderFlag, "no-border", false, "Hide the table border")
	pf.BoolVar(&allBordersFlag, "all-borders", false, "Draw a rule after every row (implies the border)")
	pf.StringVar(&widthModeFlag, "width-mode", "reference", "Width measurement (reference|runewidth|uniseg)")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// isWebGateway reports whether the process was started by a CGI web server,
// whose output ends up in a browser.
func isWebGateway() bool {
	return strings.TrimSpace(envGet("GATEWAY_INTERFACE")) != ""
}
