package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
	"github.com/Muhammad-div/ghanabuild/internal/db"
	"github.com/Muhammad-div/ghanabuild/internal/mcptools"
	"github.com/Muhammad-div/ghanabuild/internal/migrations"
	"github.com/Muhammad-div/ghanabuild/internal/money"
	"github.com/Muhammad-div/ghanabuild/internal/seed"
	"github.com/Muhammad-div/ghanabuild/internal/takeoff"
)

func newRegionsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List regions and their base rates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			fallback := cat.FallbackRegion().Name
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tREGION\tCONSTRUCTION/SQM\tLAND/PLOT\tLOCATION")
			for _, r := range cat.RegionList() {
				name := r.Name
				if name == fallback {
					name += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n", name, r.DisplayName,
					money.Format(r.ConstructionCostPerSqm, cat.Currency),
					money.Format(r.LandCostPerPlot, cat.Currency),
					r.LocationFactor)
			}
			return tw.Flush()
		},
	}
}

func newScheduleCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show the construction phases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			s := takeoff.ScheduleSummary(cat.PhaseList())
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PHASE\tSTART\tEND\tDAYS\tSHARE")
			for _, p := range s.Phases {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", p.Name, p.StartDay, p.EndDay, p.DurationDays, money.Percent(p.PercentageOfTotal))
			}
			fmt.Fprintf(tw, "Total\t\t\t%d\t\n", s.TotalDurationDays)
			return tw.Flush()
		},
	}
}

func newCatalogCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export the active rate catalog as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			b, err := catalog.Marshal(cat)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Import the rate catalog into a SQLite database",
		Long: "Creates the catalog schema in the --db database and makes it mirror the\n" +
			"built-in catalog, or the --catalog YAML file when given. Safe to re-run.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root.dbPath == "" {
				return fmt.Errorf("--db is required")
			}
			ctx := cmd.Context()

			src := catalog.Default()
			if root.catalogPath != "" {
				c, err := catalog.LoadFile(root.catalogPath)
				if err != nil {
					return err
				}
				src = c
			}

			database, err := db.Open(ctx, root.dbPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := migrations.Up(ctx, database); err != nil {
				return err
			}
			stats, err := seed.Run(ctx, database, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s: %d inserted, %d updated, %d deleted\n",
				root.dbPath, stats.Inserts, stats.Updates, stats.Deletes)
			return nil
		},
	}
}

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the estimator as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			srv := mcptools.NewServer(cat, version)
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
