package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/app"
	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/persist"
	"tasklist/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the snapshot document store selected by config
	docs, err := persist.Open(ctx, cfg.Persistence.Driver, cfg.Persistence.DSN, cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}

	// Create the application container (loads snapshots, bootstraps admin)
	a := app.New(ctx, docs)
	defer a.Close()

	// Create and run Bubble Tea program; its update loop is the single
	// writer for both stores.
	p := tea.NewProgram(tui.NewModel(a), tea.WithAltScreen())

	// Store changes push a refresh into the running program. The Send
	// happens off the callback goroutine: mutations originate inside the
	// update loop, and Notify waits for its callbacks to return.
	a.Todos.Subscribe(func() error {
		go p.Send(tui.RefreshMsg{})
		return nil
	})
	a.Users.Subscribe(func() error {
		go p.Send(tui.RefreshMsg{})
		return nil
	})

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		log.Fatal(err)
	}
}
