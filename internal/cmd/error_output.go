package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/consoletable/internal/config"
	"github.com/salmonumbrella/consoletable/internal/input"
	"github.com/salmonumbrella/consoletable/internal/output"
	"github.com/salmonumbrella/consoletable/internal/table"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"type":     "error",
		"category": "system",
	}
	payload := map[string]interface{}{"error": errMap}

	var structErr *table.StructuralError
	if errors.As(err, &structErr) {
		errMap["type"] = "structural"
		errMap["category"] = "user"
		errMap["slot"] = structErr.Slot.String()
		errMap["column"] = structErr.Column
	}

	var parseErr *input.ParseError
	if errors.As(err, &parseErr) {
		errMap["type"] = "parse"
		errMap["category"] = "user"
		errMap["format"] = string(parseErr.Format)
		if errors.Is(err, input.ErrEmpty) {
			errMap["subtype"] = "empty_input"
		}
	}

	var keyErr *config.KeyError
	if errors.As(err, &keyErr) {
		errMap["type"] = "config"
		errMap["category"] = "user"
		errMap["key"] = keyErr.Key
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && errMap["type"] == "error" {
		errMap["type"] = "io"
		errMap["category"] = "user"
	}

	return payload
}
