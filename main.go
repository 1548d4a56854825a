package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nconklindev/roster/internal/config"
	"github.com/nconklindev/roster/internal/logging"
	"github.com/nconklindev/roster/internal/pipeline"
	"github.com/nconklindev/roster/internal/source"
	"github.com/nconklindev/roster/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var initial string

	// Handle --version flag, otherwise an optional source to pre-fill
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Printf("roster %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
			os.Exit(0)
		default:
			initial = os.Args[1]
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logOut, closeLog, err := logging.Open(cfg.Logging.File)
	if err != nil {
		fmt.Printf("Error: opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logOut)

	slog.Info("starting", "version", version, "max_bytes", cfg.Source.MaxBytes, "fetch_timeout", cfg.Source.FetchTimeout)

	resolver := source.New(
		source.WithMaxBytes(cfg.Source.MaxBytes),
		source.WithUserAgent(cfg.Source.UserAgent+"/"+version),
	)

	model := ui.InitialModel(pipeline.New(resolver), ui.Settings{
		Source:   initial,
		StartDir: cfg.UI.StartDir,
		Timeout:  cfg.Source.FetchTimeout,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		closeLog()
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
