// cmd/sqlrunner/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/sqlrunner/internal/config"
	"github.com/nhath/sqlrunner/internal/history"
	"github.com/nhath/sqlrunner/internal/mock"
	"github.com/nhath/sqlrunner/internal/saved"
	"github.com/nhath/sqlrunner/internal/share"
	"github.com/nhath/sqlrunner/internal/storage"
	"github.com/nhath/sqlrunner/internal/ui"
	"github.com/nhath/sqlrunner/internal/ui/components/table"
)

func main() {
	// Parse flags
	debug := flag.Bool("debug", false, "Enable debug logging to debug.log")
	configPath := flag.String("config", "", "Path to an alternate config file")
	storeDir := flag.String("store", "", "Override the storage directory")
	shareID := flag.String("share", "", "Print a shared snapshot by id and exit")
	cleanup := flag.Bool("cleanup", false, "Remove expired share links and exit")
	flag.Parse()

	// Setup logging if debug enabled
	logger := slog.New(slog.DiscardHandler)
	if *debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			fmt.Printf("fatal: could not open debug log: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f) // Redirect standard log to the same file
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize UI styles
	ui.InitStyles(cfg.Theme)

	// Open the persistence store
	dir := *storeDir
	if dir == "" {
		dir, err = config.StoreDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve store dir: %v\n", err)
			os.Exit(1)
		}
	}
	store, err := storage.Open(dir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	historyStore := history.NewStore(store)
	defer historyStore.Close()
	savedStore := saved.NewStore(store)
	defer savedStore.Close()
	shareStore := share.NewStore(store, cfg.ShareOrigin)
	defer shareStore.Close()

	// Non-TUI modes
	if *cleanup {
		n := shareStore.Cleanup()
		fmt.Printf("Removed %d expired share link(s)\n", n)
		return
	}
	if *shareID != "" {
		printShare(shareStore, *shareID)
		return
	}

	engine := mock.NewEngine(mock.Options{
		MinDelay: time.Duration(cfg.MinDelayMs) * time.Millisecond,
		MaxDelay: time.Duration(cfg.MaxDelayMs) * time.Millisecond,
		Samples:  mock.NewSampleLoader(cfg.SampleDataURL, logger),
		History:  historyStore,
		Logger:   logger,
	})

	model := ui.NewModel(cfg, store, engine, historyStore, savedStore, shareStore, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clear any leftover output from pagers
	fmt.Print("\033[H\033[2J")
}

// printShare renders a shared snapshot as a plain table on stdout.
func printShare(shareStore *share.Store, id string) {
	snap := shareStore.Get(id)
	if snap == nil {
		fmt.Fprintf(os.Stderr, "Share %q not found or expired\n", id)
		os.Exit(1)
	}

	fmt.Printf("-- %s\n", snap.SQL)
	fmt.Printf("-- shared %s, expires %s\n\n",
		time.UnixMilli(snap.SharedAt).Format("2006-01-02"),
		time.UnixMilli(snap.ExpiresAt).Format("2006-01-02"))

	if snap.Result == nil {
		fmt.Println("(no result captured)")
		return
	}
	fmt.Println(table.FromResult(snap.Result, 0).View())
}
