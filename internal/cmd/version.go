package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/consoletable/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if structuredOutputRequested() {
			return printResult(ctx, map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			}, output.TableOptions{})
		}
		_, err := stdoutFromContext(ctx).Write([]byte(versionLine() + "\n"))
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
