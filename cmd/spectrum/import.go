package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a transaction log into the local database",
		Long: `Import an e-commerce transaction log (CSV with InvoiceNo, StockCode,
Description, Quantity, InvoiceDate, UnitPrice, CustomerID and Country).

Rows without a customer, cancelled invoices and returns are dropped.
Lines already in the database are skipped, so re-importing is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("encoding", "", "file encoding: latin1 or utf8 (default from config: latin1)")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	_ = viper.BindPFlag("ingest.encoding", cmd.Flags().Lookup("encoding"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ingestOpts, err := cfg.IngestOptions()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Cannot open %s", path), fmt.Errorf("%w: %w", common.ErrDataLoad, err))
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrDataLoad, err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fmt.Fprintln(out, cli.FormatTitle("Importing "+filepath.Base(path)))

	var reader io.Reader = f
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		reader = cli.TrackReader(f, cli.NewImportProgress(cmd.ErrOrStderr(), info.Size(), "Reading transactions"))
	}

	summary, err := service.Import(ctx, store, filepath.Base(path), reader, ingestOpts)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.RenderImportSummary(summary))
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Stored %d new transactions", summary.Inserted)))
	return nil
}
