package main

import (
	"github.com/Veraticus/shopper-spectrum/internal/tui"
	"github.com/spf13/cobra"
)

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Browse recommendations and predict segments interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			core, err := loadCore(cmd.Context(), cfg, loadOptions{})
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), core, tui.WithTopN(cfg.Analytics.TopN))
		},
	}
}
