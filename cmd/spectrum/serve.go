package main

import (
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/api"
	"github.com/Veraticus/shopper-spectrum/internal/certs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations and segment predictions over HTTP",
		Long: `Fit the model once and serve it read-only:

  GET /api/v1/recommendations?product=<label>&n=5
  GET /api/v1/segments/predict?recency=&frequency=&monetary=
  GET /api/v1/segments/profiles
  GET /api/v1/products?q=
  GET /healthz
  GET /metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from config: :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	core, err := loadCore(ctx, cfg, loadOptions{})
	if err != nil {
		return err
	}

	srv, err := api.NewServer(core)
	if err != nil {
		return err
	}

	opts := api.ListenOptions{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.TLS {
		tlsConfig, err := certs.NewFileManager(cfg.CertDir).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		opts.TLSConfig = tlsConfig
	}
	return srv.ListenAndServe(ctx, opts)
}
