package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliResult holds what one harness run wrote.
type cliResult struct {
	out    string
	errOut string
	err    error
}

// runCLI executes rootCmd with args and stdin against an empty config file
// in a temp dir. Global state is restored when the test ends.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	return runCLIWithEnv(t, nil, stdin, args...)
}

// runCLIWithEnv is runCLI with env as the only visible environment.
func runCLIWithEnv(t *testing.T, env map[string]string, stdin string, args ...string) cliResult {
	t.Helper()
	restore := snapshotCLIState()
	t.Cleanup(restore)
	resetCLIState()

	prevEnvGet := envGet
	envGet = func(key string) string { return env[key] }
	t.Cleanup(func() { envGet = prevEnvGet })

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := bytes.NewBufferString(stdin)

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	if !hasFlag(args, "--config") {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		args = append([]string{"--config", cfgPath}, args...)
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return cliResult{out: out.String(), errOut: errBuf.String(), err: err}
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

var (
	defaultsOnce    sync.Once
	restoreDefaults func()
)

// resetCLIState puts every global and flag back to its registered default,
// so each run starts clean even when a test runs the CLI more than once.
func resetCLIState() {
	defaultsOnce.Do(func() { restoreDefaults = snapshotCLIState() })
	restoreDefaults()
}

func snapshotCLIState() func() {
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevDebug := debug
	prevLogFormat := logFormat
	prevConfig := configFile
	prevQueryExpr := queryExpr
	prevQueryFile := queryFile
	prevErrorFmt := errorFmt
	prevQuiet := quietFlag
	prevResultLimit := resultLimit
	prevResultSort := resultSort
	prevResultDesc := resultDesc
	prevPadding := paddingFlag
	prevIndent := indentFlag
	prevNoBorder := noBorderFlag
	prevAllBorders := allBordersFlag
	prevWidthMode := widthModeFlag
	prevRenderer := renderer
	prevConfigLoaded := activeConfig

	prevInputFmt := inputFmt
	prevNoHeader := noHeader
	prevFooterLast := footerLast
	prevSelect := selectExpr
	prevColumns := columnNames
	prevNumbersRight := numbersRight
	prevAlign := columnAlign
	prevHeaderAlign := headerAlign
	prevFooterAlign := footerAlign

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	return func() {
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		debug = prevDebug
		logFormat = prevLogFormat
		configFile = prevConfig
		queryExpr = prevQueryExpr
		queryFile = prevQueryFile
		errorFmt = prevErrorFmt
		quietFlag = prevQuiet
		resultLimit = prevResultLimit
		resultSort = prevResultSort
		resultDesc = prevResultDesc
		paddingFlag = prevPadding
		indentFlag = prevIndent
		noBorderFlag = prevNoBorder
		allBordersFlag = prevAllBorders
		widthModeFlag = prevWidthMode
		renderer = prevRenderer
		activeConfig = prevConfigLoaded

		inputFmt = prevInputFmt
		noHeader = prevNoHeader
		footerLast = prevFooterLast
		selectExpr = prevSelect
		columnNames = prevColumns
		numbersRight = prevNumbersRight
		columnAlign = prevAlign
		headerAlign = prevHeaderAlign
		footerAlign = prevFooterAlign

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetContext(prevCtx)
		rootCmd.SetArgs(nil)
		resetFlagChanges(rootCmd)
	}
}

// resetFlagChanges clears the Changed marks of cmd and all its subcommands
// so flags parsed by one run do not leak into the next.
func resetFlagChanges(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	reset := func(f *pflag.Flag) {
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlagChanges(sub)
	}
}
