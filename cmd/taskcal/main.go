package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskcal/taskcal/internal/client"
	"github.com/taskcal/taskcal/internal/ui"
)

func main() {
	cache, err := client.NewCache()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing local cache: %v\n", err)
		os.Exit(1)
	}

	state := client.NewState(cache)
	// Cached tasks are shown immediately; the live fetch replaces them when
	// it lands.
	if err := state.Hydrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read local cache: %v\n", err)
	}

	api := client.NewAPI(os.Getenv("TASKCAL_API"))

	app := ui.NewApp(api, state)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
