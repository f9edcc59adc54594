package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/randomart/pkg/art"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// KindsMarkdown describes the operator catalog as a markdown table.
func KindsMarkdown(reg *art.Registry) string {
	var b strings.Builder
	b.WriteString("# Operators\n\n")
	b.WriteString("| Kind | Arity | Parameters | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, k := range reg.Kinds() {
		params := "-"
		if len(k.Params) > 0 {
			params = "`" + strings.Join(k.Params, "`, `") + "`"
		}
		fmt.Fprintf(&b, "| `%s` | %d | %s | %s |\n", k.Name, k.Arity, params, k.Doc)
	}
	fmt.Fprintf(&b, "\n%d terminals, %d composites.\n", len(reg.Terminals()), len(reg.Composites()))
	return b.String()
}
