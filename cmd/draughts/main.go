// FILE: cmd/draughts/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"draughts/internal/cli"
	"draughts/internal/core"
	"draughts/internal/service"
	"draughts/internal/storage"
	clitransport "draughts/internal/transport/cli"
)

func main() {
	var (
		storagePath = flag.String("storage-path", "", "SQLite file to save games to; the last game is resumed")
		theme       = flag.String("theme", string(cli.ThemeBrown), "Board color theme (off|brown|green|gray)")
		history     = flag.String("history", "", "Command history file")
	)
	flag.Parse()

	var store *storage.Store
	if *storagePath != "" {
		var err error
		store, err = storage.NewStore(*storagePath, false)
		if err != nil {
			log.Fatalf("Failed to open storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	svc, err := service.New(store)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	view, err := cli.NewTerminal(*history)
	if err != nil {
		view = cli.New(os.Stdin, os.Stdout)
	}
	defer view.Close()

	if err := view.SetTheme(cli.ColorTheme(*theme)); err != nil {
		view.ShowError(err)
	}

	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	if store != nil {
		if err := handler.Resume(""); err != nil && !errors.Is(err, core.ErrGameNotFound) {
			view.ShowError(err)
		}
	}
	handler.Run() // All game loop logic is in the handler
}
