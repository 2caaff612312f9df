package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/portable-git/internal/model"
)

// render writes v to w in the given format. text renders the human form;
// json and yaml encode v directly, so v must carry the matching tags.
func render(w io.Writer, format model.OutputFormat, v any, text func(io.Writer)) error {
	switch format {
	case model.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil

	case model.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()

	default:
		text(w)
		return nil
	}
}

// row prints one aligned "label  value" line of text output.
func row(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-12s %s\n", label, value)
}

// orDash returns "-" for an empty value so text columns never collapse.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
