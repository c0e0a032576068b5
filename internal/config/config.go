package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/consoletable/internal/input"
	"github.com/salmonumbrella/consoletable/internal/output"
	"github.com/salmonumbrella/consoletable/internal/render"
	"github.com/salmonumbrella/consoletable/internal/width"
)

// AppName is the application name used for the config directory
const AppName = "consoletable"

// Config holds CLI configuration. Nil pointers mean "not set" so that a
// stored zero (padding: 0, border: false) still overrides the default.
type Config struct {
	Padding      *int   `yaml:"padding,omitempty"`
	Indent       *int   `yaml:"indent,omitempty"`
	Border       *bool  `yaml:"border,omitempty"`
	AllBorders   *bool  `yaml:"all_borders,omitempty"`
	WidthMode    string `yaml:"width_mode,omitempty"`    // reference, runewidth, uniseg
	OutputFormat string `yaml:"output_format,omitempty"` // auto, table, text, html, json, ndjson, yaml
	InputFormat  string `yaml:"input_format,omitempty"`  // auto, csv, tsv, json, yaml
}

// ErrUnknownKey is returned for keys that are not part of Config.
var ErrUnknownKey = errors.New("unknown config key")

// KeyError reports an invalid value for a config key.
type KeyError struct {
	Key   string
	Value string
	Err   error
}

func (e *KeyError) Error() string {
	if errors.Is(e.Err, ErrUnknownKey) {
		return fmt.Sprintf("%v: %s", e.Err, e.Key)
	}
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from the given path. A missing file is an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Keys lists the supported configuration keys in sorted order.
func Keys() []string {
	keys := []string{
		"padding",
		"indent",
		"border",
		"all_borders",
		"width_mode",
		"output_format",
		"input_format",
	}
	sort.Strings(keys)
	return keys
}

// Set parses value and stores it under key.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	fail := func(err error) error {
		return &KeyError{Key: key, Value: value, Err: err}
	}

	switch key {
	case "padding", "indent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fail(errors.New("expected an integer"))
		}
		if n < 0 {
			return fail(errors.New("must not be negative"))
		}
		if key == "padding" {
			c.Padding = &n
		} else {
			c.Indent = &n
		}
	case "border", "all_borders":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fail(errors.New("expected true or false"))
		}
		if key == "border" {
			c.Border = &b
		} else {
			c.AllBorders = &b
		}
	case "width_mode":
		if _, err := width.ParseMode(value); err != nil {
			return fail(err)
		}
		c.WidthMode = value
	case "output_format":
		if _, err := output.ParseFormat(value); err != nil {
			return fail(err)
		}
		c.OutputFormat = value
	case "input_format":
		if _, err := input.ParseFormat(value); err != nil {
			return fail(err)
		}
		c.InputFormat = value
	default:
		return fail(ErrUnknownKey)
	}
	return nil
}

// Unset clears key.
func (c *Config) Unset(key string) error {
	switch key = strings.ToLower(strings.TrimSpace(key)); key {
	case "padding":
		c.Padding = nil
	case "indent":
		c.Indent = nil
	case "border":
		c.Border = nil
	case "all_borders":
		c.AllBorders = nil
	case "width_mode":
		c.WidthMode = ""
	case "output_format":
		c.OutputFormat = ""
	case "input_format":
		c.InputFormat = ""
	default:
		return &KeyError{Key: key, Err: ErrUnknownKey}
	}
	return nil
}

// Validate checks values loaded from a file.
func (c *Config) Validate() error {
	for _, kv := range [][2]string{
		{"width_mode", c.WidthMode},
		{"output_format", c.OutputFormat},
		{"input_format", c.InputFormat},
	} {
		if kv[1] == "" {
			continue
		}
		if err := (&Config{}).Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	if c.Padding != nil && *c.Padding < 0 {
		return &KeyError{Key: "padding", Value: strconv.Itoa(*c.Padding), Err: errors.New("must not be negative")}
	}
	if c.Indent != nil && *c.Indent < 0 {
		return &KeyError{Key: "indent", Value: strconv.Itoa(*c.Indent), Err: errors.New("must not be negative")}
	}
	return nil
}

// Values returns the config as a key/value map. Unset keys map to nil.
func (c *Config) Values() map[string]interface{} {
	values := make(map[string]interface{}, 7)
	values["padding"] = intValue(c.Padding)
	values["indent"] = intValue(c.Indent)
	values["border"] = boolValue(c.Border)
	values["all_borders"] = boolValue(c.AllBorders)
	values["width_mode"] = stringValue(c.WidthMode)
	values["output_format"] = stringValue(c.OutputFormat)
	values["input_format"] = stringValue(c.InputFormat)
	return values
}

// RenderOptions applies the stored layout settings on top of base.
func (c *Config) RenderOptions(base render.Options) render.Options {
	if c.Border != nil {
		base.Border = *c.Border
	}
	if c.AllBorders != nil {
		base.AllBorders = *c.AllBorders
		if base.AllBorders {
			base.Border = true
		}
	}
	if c.Padding != nil {
		base.Padding = *c.Padding
	}
	if c.Indent != nil {
		base.Indent = *c.Indent
	}
	if c.WidthMode != "" {
		if mode, err := width.ParseMode(c.WidthMode); err == nil {
			base.Measurer = mode.Measurer()
		}
	}
	return base
}

func intValue(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func boolValue(p *bool) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func stringValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
