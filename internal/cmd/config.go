package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/consoletable/internal/config"
	"github.com/salmonumbrella/consoletable/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/consoletable/config.yaml.

You can view, set, or unset layout defaults such as padding, indent,
border, all_borders and width_mode, and the default output_format and
input_format. Command-line flags always take precedence.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		return printResult(cmd.Context(), configOutput(cfg), output.TableOptions{})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(cmd.Context(), config.Keys(), output.TableOptions{})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	loggerFromContext(ctx).WithField("path", path).Debug("Config saved.")

	key := normalizeKey(args[0])
	if structuredOutputRequested() {
		return printResult(ctx, map[string]interface{}{
			"status": "updated",
			"key":    key,
			"value":  cfg.Values()[key],
		}, output.TableOptions{})
	}

	printNotice(ctx, "Updated %s", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}
	if err := cfg.Unset(args[0]); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	key := normalizeKey(args[0])
	if structuredOutputRequested() {
		return printResult(ctx, map[string]string{
			"status": "unset",
			"key":    key,
		}, output.TableOptions{})
	}

	printNotice(ctx, "Unset %s", key)
	return nil
}

// configOutput lists every key with its stored value. Unset keys have a
// nil value.
func configOutput(cfg *config.Config) []configEntry {
	values := cfg.Values()
	entries := make([]configEntry, 0, len(values))
	for _, key := range config.Keys() {
		entries = append(entries, configEntry{Key: key, Value: values[key]})
	}
	return entries
}

type configEntry struct {
	Key   string      `json:"key" yaml:"key"`
	Value interface{} `json:"value" yaml:"value"`
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
