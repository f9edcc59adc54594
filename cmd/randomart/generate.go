package main

import (
	"context"
	"fmt"

	"github.com/aretw0/randomart/internal/cli"
	"github.com/spf13/cobra"
)

var generateFlags = map[string]string{
	"path":       "phrases",
	"target":     "target",
	"size":       "size",
	"complexity": "complexity",
	"save-tree":  "save_tree",
	"indent":     "indent",
	"workers":    "workers",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render every phrase of a phrase file into image folders",
	Long: `Reads phrases from --phrase or from a phrase file (<path>/text, <path>/text.txt or <path>),
one per line, and writes <target>/<phrase>/<complexity>.png for each of them.

--complexity takes an integer, "all" for the full ladder, or nothing to derive one from the phrase.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, &cfg, generateFlags); err != nil {
			return err
		}
		phrase, _ := cmd.Flags().GetString("phrase")
		parallel, _ := cmd.Flags().GetInt("parallel")
		watch, _ := cmd.Flags().GetBool("watch")
		if watch && phrase != "" {
			return fmt.Errorf("--watch needs a phrase file, not --phrase")
		}

		engine, err := cli.CreateEngine(logger, cfg.Workers)
		if err != nil {
			return err
		}
		gen := cli.NewGenerator(engine, logger)
		opts := cli.GenerateOptions{Config: cfg, Phrase: phrase, Parallel: parallel, Out: cmd.OutOrStdout()}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if _, err := gen.Run(ctx, opts); err != nil && !watch {
			return err
		} else if err != nil {
			logger.Error("generation failed", "err", err)
		}
		if !watch {
			return nil
		}
		logger.Info("watching phrases", "path", cfg.Phrases)
		return cli.WatchPhrases(ctx, cfg.Phrases, cli.DefaultDebounce, func(ctx context.Context) error {
			if _, err := gen.Run(ctx, opts); err != nil {
				logger.Error("generation failed", "err", err)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("phrase", "", "Single phrase to render instead of the phrase file")
	generateCmd.Flags().String("path", ".", "Phrase file, or directory holding text/text.txt")
	generateCmd.Flags().String("target", "data", "Output directory, relative to the phrase path")
	generateCmd.Flags().Int("size", 512, "Image side in pixels")
	generateCmd.Flags().StringP("complexity", "c", "", `Complexity: integer, "all", or empty to derive it`)
	generateCmd.Flags().Bool("save-tree", false, "Also write <complexity>.art with the tree text")
	generateCmd.Flags().String("indent", "  ", "Indent of saved trees; empty writes the compact form")
	generateCmd.Flags().Int("workers", 0, "Row workers per image (0 = GOMAXPROCS)")
	generateCmd.Flags().Int("parallel", 2, "Images rendered at once per phrase")
	generateCmd.Flags().Bool("watch", false, "Regenerate whenever the phrase file changes")
}
