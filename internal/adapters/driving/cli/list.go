package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curiolabs/curio/internal/adapters/driven/storage/dirfs"
	"github.com/curiolabs/curio/internal/adapters/driven/storage/sqlite"
	"github.com/curiolabs/curio/internal/logger"
)

var flagListRecent bool

var listCmd = &cobra.Command{
	Use:   "list [directory]",
	Short: "List curable files in a directory",
	Long: `List the .jsonl and .csv files a curation session would offer.

Save targets (files already carrying the output suffix) are excluded.
With --recent, shows the most recently curated sessions across all
directories instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListRecent, "recent", false, "show recently curated sessions")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if flagListRecent {
		return runListRecent(cmd)
	}

	directory := "."
	if len(args) == 1 {
		directory = args[0]
	}

	gateway, err := dirfs.New(directory)
	if err != nil {
		return fmt.Errorf("opening directory: %w", err)
	}

	cfg := curationConfig(directory)
	suffix := cfg.OutputSuffix
	if suffix == "" {
		suffix = "_annotated"
	}

	names, err := gateway.List(cmd.Context(), []string{".jsonl", ".csv"}, suffix)
	if err != nil {
		return fmt.Errorf("listing %s: %w", directory, err)
	}

	if len(names) == 0 {
		cmd.Println("No curable files found.")
		return nil
	}
	for _, name := range names {
		cmd.Println(name)
	}
	return nil
}

func runListRecent(cmd *cobra.Command) error {
	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening session history: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("closing session history: %v", cerr)
		}
	}()

	recent, err := store.ListRecent(cmd.Context(), 20)
	if err != nil {
		return fmt.Errorf("reading session history: %w", err)
	}

	if len(recent) == 0 {
		cmd.Println("No curation sessions recorded yet.")
		return nil
	}
	for _, s := range recent {
		cmd.Printf("%s  %s/%s (%d records)\n",
			s.OpenedAt.Format("2006-01-02 15:04"), s.Directory, s.SourceName, s.RecordCount)
	}
	return nil
}
