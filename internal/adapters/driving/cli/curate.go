package cli

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/curiolabs/curio/internal/adapters/driven/config/file"
	"github.com/curiolabs/curio/internal/adapters/driven/storage/dirfs"
	"github.com/curiolabs/curio/internal/adapters/driven/storage/sqlite"
	"github.com/curiolabs/curio/internal/adapters/driven/tabular"
	"github.com/curiolabs/curio/internal/adapters/driven/watch"
	"github.com/curiolabs/curio/internal/adapters/driving/tui"
	"github.com/curiolabs/curio/internal/core/ports/driven"
	"github.com/curiolabs/curio/internal/core/services"
	"github.com/curiolabs/curio/internal/logger"
)

var curateCmd = &cobra.Command{
	Use:   "curate [directory]",
	Short: "Open the interactive curation session",
	Long: `Open the interactive curation session over a directory.

Lists the directory's .jsonl and .csv files, then curates the one you
pick. Annotations and edits autosave to a sibling file with an
"_annotated" suffix; the source file is never modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("curate needs an interactive terminal")
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

	// Recents and the directory watch are conveniences; the session
	// works without either.
	var sessions driven.SessionStore
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("session history unavailable: %v", err)
	} else {
		sessions = store
		defer store.Close()
	}

	var watcher driven.DirWatcher
	if w, err := watch.New(directory); err != nil {
		logger.Warn("directory watch unavailable: %v", err)
	} else {
		watcher = w
		defer w.Close()
	}

	curation := services.NewCuration(gateway, tabular.NewCSVCodec(), sessions, cfg, nil)

	app, err := tui.NewApp(tui.NewPorts(curation, watcher), directory)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// curationConfig merges the config file over the built-in defaults.
// A missing or malformed config file just means defaults.
func curationConfig(directory string) services.CurationConfig {
	cfg := services.CurationConfig{Directory: directory}

	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		logger.Warn("config unavailable, using defaults: %v", err)
		return cfg
	}

	if ms := store.GetInt(configfile.KeyQuietPeriodMS); ms > 0 {
		cfg.QuietPeriod = time.Duration(ms) * time.Millisecond
	}
	cfg.AnnotationKey = store.GetString(configfile.KeyAnnotationKey)
	cfg.OutputSuffix = store.GetString(configfile.KeyOutputSuffix)
	cfg.TelemetryFields = store.GetStringSlice(configfile.KeyTelemetryFields)
	return cfg
}
