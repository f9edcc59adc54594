package main

import (
	"fmt"
	"os"

	"github.com/aretw0/randomart/internal/cli"
	"github.com/aretw0/randomart/internal/presentation/tui"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <phrase>",
	Short: "Draw the art of a phrase in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		complexity, _ := cmd.Flags().GetString("complexity")
		width, _ := cmd.Flags().GetInt("width")
		if width <= 0 {
			width = tui.TerminalWidth(os.Stdout)
		}

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

		profile := termenv.NewOutput(os.Stdout).ColorProfile()
		if err := tui.Preview(cmd.Context(), cmd.OutOrStdout(), profile, tree, width); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (complexity %d)\n", phrase, c)
		return nil
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the operators trees are built from",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(logger, cfg.Workers)
		if err != nil {
			return err
		}
		renderMarkdown, err := tui.NewRenderer(tui.TerminalWidth(os.Stdout))
		if err != nil {
			return err
		}
		out, err := renderMarkdown(tui.KindsMarkdown(engine.Registry()))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd, kindsCmd)

	previewCmd.Flags().StringP("complexity", "c", "", "Complexity, empty to derive it from the phrase")
	previewCmd.Flags().Int("width", 0, "Columns to draw (default: terminal width)")
}
