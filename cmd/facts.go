package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macrofuel/macrofuel-api/internal/facts"
)

var (
	factsSeedPath   string
	factsListLimit  int
	factsListOffset int
	factsExportPath string
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Manage the nutrition fact cache",
}

var factsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the fact-cache schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		zap.L().Info("fact cache migrated")
		return nil
	},
}

var factsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load curated facts from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := factsSeedPath
		if path == "" {
			path = cfg.Pipeline.SeedPath
		}

		store, err := openMigratedStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		inserted, err := facts.SeedFromYAML(cmd.Context(), store, path)
		if err != nil {
			return err
		}
		zap.L().Info("seed complete", zap.String("path", path), zap.Int("inserted", inserted))
		return nil
	},
}

var factsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print cached facts as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openMigratedStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), factsListLimit, factsListOffset)
		if err != nil {
			return err
		}
		total, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Calories", "Protein", "Carbs", "Fat", "Unit g", "Provenance"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.Name, e.Calories, e.Protein, e.Carbs, e.Fat, e.UnitWeight, e.Provenance})
		}
		t.SetStyle(table.StyleLight)
		t.Render()

		fmt.Printf("%d of %d entries\n", len(entries), total)
		return nil
	},
}

var factsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the fact cache to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openMigratedStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		exported, err := facts.ExportXLSX(cmd.Context(), store, factsExportPath)
		if err != nil {
			return err
		}
		zap.L().Info("export complete", zap.String("path", factsExportPath), zap.Int("rows", exported))
		return nil
	},
}

func init() {
	factsSeedCmd.Flags().StringVar(&factsSeedPath, "file", "", "seed YAML path (defaults to config)")
	factsListCmd.Flags().IntVar(&factsListLimit, "limit", 50, "max rows to print")
	factsListCmd.Flags().IntVar(&factsListOffset, "offset", 0, "rows to skip")
	factsExportCmd.Flags().StringVar(&factsExportPath, "out", "facts.xlsx", "output workbook path")

	factsCmd.AddCommand(factsMigrateCmd, factsSeedCmd, factsListCmd, factsExportCmd)
	rootCmd.AddCommand(factsCmd)
}

func openMigratedStore(ctx context.Context) (facts.Store, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
