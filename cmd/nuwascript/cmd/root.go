// Package cmd implements the nuwascript CLI's subcommands: one file per
// subcommand, wired together through a shared root command and a handful
// of persistent flags.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuwa-ai/nuwascript/internal/config"
	"github.com/nuwa-ai/nuwascript/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.SugaredLogger
)

// Execute runs the root command, called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nuwascript",
	Short: "Lex, parse, and run NuwaScript programs",
	Long: "nuwascript is the reference CLI for NuwaScript, an embeddable " +
		"scripting language designed as an execution target for LLM output.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded := config.Default()
		if configPath != "" {
			var err error
			loaded, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		}
		cfg = loaded

		if verbose {
			logger = logging.New("debug")
		} else {
			logger = logging.Nop()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

func useColor() bool {
	return cfg.Output.Color
}
