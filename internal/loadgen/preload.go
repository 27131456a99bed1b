package loadgen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/ordersctl/internal/journal"
)

// PreloadIDs returns the order ids readers pick from. A missing source file
// is logged and yields no ids, so readers fall back to listing only.
func PreloadIDs(ctx context.Context, p Preload) ([]string, error) {
	switch p.Source {
	case PreloadNone:
		return nil, nil
	case PreloadJournal, PreloadBackend:
	default:
		return nil, fmt.Errorf("unknown preload source %q", p.Source)
	}

	if _, err := os.Stat(p.Path); errors.Is(err, os.ErrNotExist) {
		slog.WarnContext(ctx, "preload database not found; skipping", "source", p.Source, "path", p.Path)
		return nil, nil
	}

	var (
		ids []string
		err error
	)
	if p.Source == PreloadJournal {
		ids, err = journalIDs(ctx, p.Path)
	} else {
		ids, err = backendIDs(ctx, p.Path)
	}
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "preloaded order ids", "source", p.Source, "count", len(ids))
	return ids, nil
}

func journalIDs(ctx context.Context, path string) ([]string, error) {
	j, err := journal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preload from journal: %w", err)
	}
	defer j.Close()

	ids, err := j.OpenOrderIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("preload from journal: %w", err)
	}
	return ids, nil
}

// backendIDs reads the orders table of the service's own SQLite database,
// opened read-only.
func backendIDs(ctx context.Context, path string) ([]string, error) {
	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("preload from backend: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT id FROM orders")
	if err != nil {
		return nil, fmt.Errorf("preload from backend: query orders: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("preload from backend: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preload from backend: %w", err)
	}
	return ids, nil
}
