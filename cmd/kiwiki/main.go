package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmorgan-nz/kiwiki/internal/backend"
	"github.com/jmorgan-nz/kiwiki/internal/cli"
	"github.com/jmorgan-nz/kiwiki/internal/db"
	"github.com/jmorgan-nz/kiwiki/internal/repository"
	"github.com/jmorgan-nz/kiwiki/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	remote, cleanup, err := openRemote(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	posts, err := store.Open(ctx, remote)
	if err != nil {
		return fmt.Errorf("opening post store: %w", err)
	}
	defer posts.Close()

	writer := os.Getenv("KIWIKI_WRITER")
	if writer == "" {
		writer = "익명"
	}

	app := &cli.App{
		Store:  posts,
		Writer: writer,
	}

	// Detect interactive terminal for the bare TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// openRemote connects to the hosted post service when a backend URL is
// configured, and falls back to the local sqlite store otherwise.
func openRemote(ctx context.Context) (store.Remote, func(), error) {
	cfg := backend.LoadConfig()
	if cfg.URL != "" {
		client, err := backend.DialConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to backend: %w", err)
		}
		return client, func() { _ = client.Close() }, nil
	}

	// Local mode: env var or default ~/.kiwiki/kiwiki.db
	dbPath := os.Getenv("KIWIKI_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".kiwiki", "kiwiki.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return repository.NewSQLitePostRepo(database), func() { _ = database.Close() }, nil
}
