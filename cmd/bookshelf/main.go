// Package main prints the book catalog, optionally seeding it first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pollex.nl/bookshelf"
	"pollex.nl/bookshelf/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var seed bool
	var fields string
	var expands string

	flag.StringVar(&cfg.Driver, "driver", cfg.Driver, "database driver: sqlite3 or mysql (default: BOOKSHELF_DB_DRIVER)")
	flag.StringVar(&cfg.DSN, "dsn", cfg.DSN, "database dsn (default: BOOKSHELF_DB_DSN)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.BoolVar(&seed, "seed", false, "insert a small demo catalog before listing")
	flag.StringVar(&fields, "fields", "", "comma-separated book fields, e.g. title,genres.name")
	flag.StringVar(&expands, "expand", "author,genres,users", "comma-separated relations to expand")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, seed, bookshelf.Opts{Fields: splitList(fields), Expands: splitList(expands)}); err != nil {
		logger.Error("bookshelf failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, seed bool, opts bookshelf.Opts) error {
	store, err := bookshelf.Open(ctx, cfg.Driver, cfg.DSN, bookshelf.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Default().Error("close store", "error", err.Error())
		}
	}()

	if seed {
		if err := seedCatalog(ctx, store); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	books, err := store.ListBooks(ctx, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(books)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
