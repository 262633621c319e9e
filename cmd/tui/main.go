package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskdesk/internal/client"
	"taskdesk/internal/config"
	"taskdesk/internal/tui"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	api := client.New(cfg.APIURL)
	p := tea.NewProgram(tui.New(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
