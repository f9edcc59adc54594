package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/internal/cli"
	"github.com/aretw0/randomart/internal/presentation/tui"
	"github.com/aretw0/randomart/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "randomart",
	Short: "randomart turns phrases into deterministic abstract images",
	Long: `randomart hashes a phrase into a random expression tree and renders it as an image.
The same phrase and complexity always give the same picture.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		debug, _ := cmd.Flags().GetBool("debug")
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level, _ = cmd.Flags().GetString("log-level")
		}
		logger, err = cli.CreateLogger(level, debug)
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(randomart.Version))
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// applyFlags copies the changed flags of cmd into cfg. keys maps a flag name to its
// config key; dotted keys address nested sections ("http.port").
func applyFlags(cmd *cobra.Command, c *config.Config, keys map[string]string) error {
	overrides := map[string]any{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		section := overrides
		parts := strings.Split(key, ".")
		for _, p := range parts[:len(parts)-1] {
			next, ok := section[p].(map[string]any)
			if !ok {
				next = map[string]any{}
				section[p] = next
			}
			section = next
		}
		section[parts[len(parts)-1]] = f.Value.String()
	})
	if len(overrides) == 0 {
		return nil
	}
	if err := c.Apply(overrides); err != nil {
		return err
	}
	return c.Validate()
}
