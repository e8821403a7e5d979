// FILE: cmd/draughtsd/cli/cli.go
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"draughts/internal/storage"
)

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	return run(args, os.Stdout)
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, or query")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// pathFlag parses a flag set that requires -path
func pathFlag(fs *flag.FlagSet, args []string) (string, error) {
	path := fs.String("path", "", "Database file path (required)")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *path == "" {
		return "", fmt.Errorf("database path required")
	}
	return *path, nil
}

func runInit(args []string, out io.Writer) error {
	path, err := pathFlag(flag.NewFlagSet("init", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", path)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	path, err := pathFlag(flag.NewFlagSet("delete", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	moves := fs.Bool("moves", false, "List the moves of the game given by -gameId")
	path, err := pathFlag(fs, args)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if *moves {
		return printMoves(store, *gameID, out)
	}

	games, err := store.QueryGames(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tMoves\tCreated\tUpdated")
	fmt.Fprintln(w, strings.Repeat("-", 72))

	for _, g := range games {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			g.GameID,
			g.MoveCount,
			g.CreatedUTC.Format("2006-01-02 15:04:05"),
			g.UpdatedUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func printMoves(store *storage.Store, gameID string, out io.Writer) error {
	if gameID == "" || gameID == "*" {
		return fmt.Errorf("-moves needs a single -gameId")
	}

	moves, err := store.QueryMoves(gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSide\tMove\tCaptured\tTime")
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			m.MoveNumber, m.Side, m.Path, m.Captured,
			m.MoveTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
