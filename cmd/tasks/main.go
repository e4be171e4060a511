// Command tasks is the terminal client for the task tracker.
package main

import (
	"flag"
	"fmt"
	"os"

	"tasktracker/internal/client"
	"tasktracker/internal/config"
	"tasktracker/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", config.DefaultClientPath(), "client config file")
	server := flag.String("server", "", "server URL (overrides the config file)")
	save := flag.Bool("save", false, "write the effective config back to -config and exit")
	flag.Parse()

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.ServerURL = *server
	}

	if *save {
		if err := config.SaveClient(*configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("saved %s\n", *configPath)
		return
	}

	api, err := client.New(cfg.ServerURL, cfg.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(tui.NewApp(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
