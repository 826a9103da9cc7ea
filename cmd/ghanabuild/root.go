package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
	"github.com/Muhammad-div/ghanabuild/internal/config"
	"github.com/Muhammad-div/ghanabuild/internal/logging"
	"github.com/Muhammad-div/ghanabuild/internal/store"
)

type rootOptions struct {
	catalogPath string
	dbPath      string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "ghanabuild",
		Short:        "Construction cost estimates for building projects in Ghana",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", "", "load rates from this YAML catalog file")
	flags.StringVar(&opts.dbPath, "db", "", "load rates from this SQLite catalog database")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newEstimateCmd(opts),
		newRegionsCmd(opts),
		newScheduleCmd(opts),
		newCatalogCmd(opts),
		newSeedCmd(opts),
		newMCPCmd(opts),
	)
	return cmd
}

// loadCatalog resolves the catalog from flags first, then the environment.
func (o *rootOptions) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg := config.Load()
	switch {
	case o.dbPath != "" && o.catalogPath != "":
		return nil, fmt.Errorf("--catalog and --db are mutually exclusive")
	case o.dbPath != "":
		cfg.CatalogSource, cfg.DBPath = config.SourceSQLite, o.dbPath
	case o.catalogPath != "":
		cfg.CatalogSource, cfg.CatalogPath = config.SourceYAML, o.catalogPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return store.FromConfig(ctx, cfg)
}
