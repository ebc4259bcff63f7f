package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/spf13/cobra"
)

func segmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Fit customer segments and show the mean RFM of each",
		Long: `Compute Recency, Frequency and Monetary features per customer, cluster
them with k-means and print the customer count and mean RFM per segment.

Use --save to store the fitted model so later commands can reuse it with
--use-snapshot.`,
		Args: cobra.NoArgs,
		RunE: runSegments,
	}

	cmd.Flags().Bool("save", false, "save the fitted model as a snapshot")
	cmd.Flags().Bool("customers", false, "also list every customer's RFM values and segment")

	return cmd
}

func runSegments(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	if save && cfg.DataPath != "" {
		return fmt.Errorf("--save needs the database; drop --data and import the file first")
	}

	core, err := loadCore(cmd.Context(), cfg, loadOptions{saveSnapshot: save})
	if err != nil {
		return err
	}

	summary := core.Summary()
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d customers in %d segments", summary.Customers, summary.Clusters)))
	fmt.Fprintln(out, cli.RenderProfiles(core.Profiles(), core.Population()))

	if listCustomers, _ := cmd.Flags().GetBool("customers"); listCustomers {
		rows := make([][]string, 0, summary.Customers)
		for _, a := range core.Segments() {
			rows = append(rows, []string{
				a.CustomerID,
				strconv.Itoa(a.RFM.Recency),
				strconv.Itoa(a.RFM.Frequency),
				fmt.Sprintf("%.2f", a.RFM.Monetary),
				strconv.Itoa(a.Cluster),
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.RenderTable([]string{"Customer", "Recency", "Frequency", "Monetary", "Cluster"}, rows))
	}

	if save {
		fmt.Fprintln(out, cli.FormatSuccess("Saved model snapshot"))
	}
	return nil
}
