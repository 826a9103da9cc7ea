package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
	"github.com/Muhammad-div/ghanabuild/internal/config"
	"github.com/Muhammad-div/ghanabuild/internal/db"
	"github.com/Muhammad-div/ghanabuild/internal/migrations"
	"github.com/Muhammad-div/ghanabuild/internal/seed"
)

// FromConfig loads the catalog named by cfg.CatalogSource. An unseeded
// SQLite database is seeded with the built-in catalog first.
func FromConfig(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	switch cfg.CatalogSource {
	case config.SourceEmbedded, "":
		return catalog.Default(), nil
	case config.SourceYAML:
		return catalog.LoadFile(cfg.CatalogPath)
	case config.SourceSQLite:
		return fromSQLite(ctx, cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

func fromSQLite(ctx context.Context, path string) (*catalog.Catalog, error) {
	database, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return nil, err
	}

	cat, err := LoadCatalog(ctx, database)
	if errors.Is(err, ErrEmptyCatalog) {
		stats, serr := seed.Run(ctx, database, catalog.Default())
		if serr != nil {
			return nil, fmt.Errorf("seed empty catalog database: %w", serr)
		}
		slog.InfoContext(ctx, "seeded empty catalog database", "path", path, "inserts", stats.Inserts)
		cat, err = LoadCatalog(ctx, database)
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}
