package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/randomart/internal/cli"
	"github.com/aretw0/randomart/internal/presentation/graph"
	"github.com/aretw0/randomart/pkg/art"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/render"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <file.art>",
	Short: "Render a saved tree to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, &cfg, map[string]string{"size": "size", "workers": "workers"}); err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
		}

		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read tree: %w", err)
		}
		engine, err := cli.CreateEngine(logger, cfg.Workers)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		tree, err := engine.Parse(ctx, string(text))
		if err != nil {
			return err
		}
		img, err := engine.Render(ctx, tree, cfg.Size)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, img); err != nil {
			return err
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), ">>> %s written\n", out)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <phrase>",
	Short: "Print the tree generated for a phrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		complexity, _ := cmd.Flags().GetString("complexity")
		indent, _ := cmd.Flags().GetString("indent")
		format, _ := cmd.Flags().GetString("format")
		mark, _ := cmd.Flags().GetStringSlice("mark")

		engine, err := cli.CreateEngine(logger, cfg.Workers)
		if err != nil {
			return err
		}
		phrase := domain.NormalizePhrase(args[0])
		if phrase == "" {
			return domain.ErrEmptyPhrase
		}
		c, err := singleComplexity(phrase, complexity)
		if err != nil {
			return err
		}
		tree, err := engine.Generate(cmd.Context(), phrase, c)
		if err != nil {
			return err
		}

		switch format {
		case "text":
			text := art.Format(tree)
			if indent != "" {
				text = art.FormatIndent(tree, indent)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
		case "mermaid":
			var overlay *graph.Overlay
			if len(mark) > 0 {
				overlay = &graph.Overlay{Kinds: mark}
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tree, overlay))
		default:
			return fmt.Errorf("unknown format: %s. Supported: text, mermaid", format)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file.art>...",
	Short: "Check that tree files parse",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(logger, cfg.Workers)
		if err != nil {
			return err
		}
		failed := 0
		for _, path := range args {
			text, err := os.ReadFile(path)
			if err == nil {
				_, err = engine.Parse(cmd.Context(), string(text))
			}
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files are invalid", failed, len(args))
		}
		return nil
	},
}

// singleComplexity resolves the complexity flag for phrase, refusing the ladder.
func singleComplexity(phrase, flag string) (int, error) {
	plan, err := domain.ParseComplexity(flag)
	if err != nil {
		return 0, err
	}
	if plan.Mode == domain.ComplexityLadder {
		return 0, fmt.Errorf("%w: %q renders many images, pick one", domain.ErrInvalidComplexity, flag)
	}
	return plan.Resolve(phrase)[0], nil
}

func init() {
	rootCmd.AddCommand(renderCmd, showCmd, validateCmd)

	renderCmd.Flags().StringP("out", "o", "", "Output file (default: input name with .png)")
	renderCmd.Flags().Int("size", 512, "Image side in pixels")
	renderCmd.Flags().Int("workers", 0, "Row workers (0 = GOMAXPROCS)")

	showCmd.Flags().StringP("complexity", "c", "", "Complexity, empty to derive it from the phrase")
	showCmd.Flags().String("indent", "", "Pretty-print with this indent")
	showCmd.Flags().String("format", "text", "Output format: 'text' or 'mermaid'")
	showCmd.Flags().StringSlice("mark", nil, "Kinds to highlight in the mermaid output")
}
