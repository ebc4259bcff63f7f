package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/Veraticus/shopper-spectrum/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			count, err := store.CountTransactions(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
				"Database %s at schema version %d (%d transactions)", cfg.DatabasePath, version, count)))

			imports, err := store.ListImports(ctx)
			if err != nil {
				return err
			}
			if len(imports) == 0 {
				return nil
			}

			rows := make([][]string, len(imports))
			for i, r := range imports {
				rows[i] = []string{
					r.ImportedAt.Format("2006-01-02 15:04"),
					r.Source,
					strconv.Itoa(r.Rows),
					strconv.Itoa(r.Kept),
					strconv.Itoa(r.Inserted),
				}
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderTable([]string{"Imported", "Source", "Rows", "Kept", "New"}, rows))
			return nil
		},
	}
}
