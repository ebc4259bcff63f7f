package main

import (
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the segment of a customer from RFM values",
		Long: `Standardize the given Recency (days since last purchase), Frequency
(number of purchases) and Monetary (total spend) values with the fitted
parameters and report the nearest segment.

Without flags the values are asked for interactively.`,
		Args: cobra.NoArgs,
		RunE: runPredict,
	}

	cmd.Flags().Float64("recency", 0, "days since the last purchase")
	cmd.Flags().Float64("frequency", 0, "number of purchases")
	cmd.Flags().Float64("monetary", 0, "total spend")

	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	core, err := loadCore(ctx, cfg, loadOptions{})
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var recency, frequency, monetary float64
	if flags.Changed("recency") || flags.Changed("frequency") || flags.Changed("monetary") {
		recency, _ = flags.GetFloat64("recency")
		frequency, _ = flags.GetFloat64("frequency")
		monetary, _ = flags.GetFloat64("monetary")
	} else {
		recency, frequency, monetary, err = cli.NewRFMPrompter(cmd.InOrStdin(), out).Prompt(ctx)
		if err != nil {
			return err
		}
	}

	cluster, err := core.PredictSegment(recency, frequency, monetary)
	if err != nil {
		return err
	}

	profile := core.Profiles()[cluster]
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Customer belongs to cluster %d (%s)",
		cluster, profile.Label(core.Population()))))
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf(
		"Cluster %d: %d customers, mean recency %.1f days, frequency %.1f, monetary %.2f",
		cluster, profile.Customers, profile.MeanRecency, profile.MeanFrequency, profile.MeanMonetary)))
	return nil
}
