package shell

import (
	"encoding/json"
	"fmt"
	"strings"

	"apishell/internal/config"

	"gopkg.in/yaml.v3"
)

// Render formats a call result for display.
func Render(v any, format string) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	}

	switch format {
	case config.OutputFormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("render yaml: %w", err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	case config.OutputFormatJSON, "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("render json: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}
