package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/consoletable/internal/config"
	"github.com/salmonumbrella/consoletable/internal/render"
	"github.com/salmonumbrella/consoletable/internal/width"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// layoutOptions resolves renderer options with precedence:
// flags > config > defaults.
func layoutOptions(cmd *cobra.Command, cfg *config.Config) (render.Options, error) {
	opts := render.DefaultOptions()
	if cfg != nil {
		opts = cfg.RenderOptions(opts)
	}

	if flagChanged(cmd, "padding") {
		if paddingFlag < 0 {
			return opts, fmt.Errorf("--padding must not be negative")
		}
		opts.Padding = paddingFlag
	}
	if flagChanged(cmd, "indent") {
		if indentFlag < 0 {
			return opts, fmt.Errorf("--indent must not be negative")
		}
		opts.Indent = indentFlag
	}
	if flagChanged(cmd, "all-borders") {
		opts.AllBorders = allBordersFlag
		if allBordersFlag {
			opts.Border = true
		}
	}
	if flagChanged(cmd, "no-border") {
		opts.Border = !noBorderFlag
		if noBorderFlag {
			opts.AllBorders = false
		}
	}
	if flagChanged(cmd, "width-mode") {
		mode, err := width.ParseMode(widthModeFlag)
		if err != nil {
			return opts, err
		}
		opts.Measurer = mode.Measurer()
	}
	return opts, nil
}

// widthMode returns the measurement mode selected by flag or config.
func widthMode(cmd *cobra.Command) (width.Mode, error) {
	if flagChanged(cmd, "width-mode") {
		return width.ParseMode(widthModeFlag)
	}
	if activeConfig != nil && activeConfig.WidthMode != "" {
		return width.ParseMode(activeConfig.WidthMode)
	}
	return width.ModeReference, nil
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
