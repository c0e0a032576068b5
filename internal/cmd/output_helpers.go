package cmd

import (
	"context"
	"fmt"

	"github.com/salmonumbrella/consoletable/internal/output"
)

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

// printResult writes data in the selected output format using the shared
// renderer.
func printResult(ctx context.Context, data interface{}, opts output.TableOptions) error {
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat(), GetRenderer(), opts)
	return printer.Print(ctx, data)
}

// printNotice writes a human-oriented status line unless output is
// structured or --quiet is set.
func printNotice(ctx context.Context, format string, args ...interface{}) {
	if output.QuietFromContext(ctx) || structuredOutputRequested() {
		return
	}
	_, _ = fmt.Fprintf(stdoutFromContext(ctx), format+"\n", args...)
}

// currentContext returns the context of the last command run, which carries
// the error format once flags were parsed.
func currentContext() context.Context {
	if rootCmd != nil && rootCmd.Context() != nil {
		return rootCmd.Context()
	}
	return context.Background()
}
