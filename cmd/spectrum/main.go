package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "🛒 Customer segmentation and product recommendations",
		Long: `shopper-spectrum: turns an e-commerce transaction log into customer
segments (RFM + k-means) and "customers who bought this also bought"
recommendations (item-item cosine similarity).`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(cfgFile)
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/spectrum/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("db", "", "database path (default: ~/.local/share/spectrum/spectrum.db)")
	flags.String("data", "", "read transactions from this CSV instead of the database")
	flags.Int("clusters", analytics.DefaultOptions().Clusters, "number of customer segments")
	flags.Bool("use-snapshot", false, "reuse the latest saved segmentation model instead of refitting")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("database.path", flags.Lookup("db"))
	_ = viper.BindPFlag("ingest.data", flags.Lookup("data"))
	_ = viper.BindPFlag("model.use_snapshot", flags.Lookup("use-snapshot"))
	_ = viper.BindPFlag("model.clusters", flags.Lookup("clusters"))

	// Add commands
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(segmentsCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exploreCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		if common.IsQueryMiss(err) {
			fmt.Fprintln(os.Stderr, cli.FormatWarning(common.UserMessage(err)))
		} else {
			fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		}
		os.Exit(1)
	}
}

func initConfig(cfgFile string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("SPECTRUM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(os.Stderr, level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spectrum %s\n", version)
			slog.Debug("spectrum version", "version", version)
		},
	}
}
