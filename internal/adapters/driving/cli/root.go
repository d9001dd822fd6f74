// Package cli provides the cobra command tree for curio.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/curiolabs/curio/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "curio",
	Short: "Curate structured record sets from your terminal",
	Long: `Curio is a local-first curation tool for structured record sets.

Point it at a directory of .jsonl or .csv files and review them
interactively: mark fields correct or incorrect, attach comments, and
edit tables in place. Every change is debounced and written to a
sibling save target; the original file is never touched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.curio)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
