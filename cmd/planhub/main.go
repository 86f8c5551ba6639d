package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtran/planhub/internal/app"
	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/session"
	"github.com/mtran/planhub/internal/store"
	"github.com/mtran/planhub/internal/vault"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	userID := flag.String("user", "", "override the configured user id")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planhub: %v\n", err)
		os.Exit(1)
	}
	// User resolution order: flag, config file, keyring, local default.
	if *userID != "" {
		cfg.UserID = *userID
	}
	if cfg.UserID == "" {
		if stored, err := vault.Get(vault.AccountKey); err == nil && stored != "" {
			cfg.UserID = stored
		}
	}
	if cfg.UserID == "" {
		cfg.UserID = "local"
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = model.DefaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "planhub: %v\n", err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planhub: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	c := client.New(s, session.NewStatic(cfg.UserID))

	p := tea.NewProgram(app.New(c, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "planhub: %v\n", err)
		os.Exit(1)
	}
}
