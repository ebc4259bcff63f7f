package main

import (
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products [query]",
		Short: "List product labels, optionally filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProducts,
	}

	cmd.Flags().Bool("ids", false, "show stock codes next to labels")

	return cmd
}

func runProducts(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	core, err := loadCore(cmd.Context(), cfg, loadOptions{})
	if err != nil {
		return err
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	labels := core.Catalog().Search(query)
	if len(labels) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No products match "+query))
		return nil
	}

	showIDs, _ := cmd.Flags().GetBool("ids")
	for _, label := range labels {
		if !showIDs {
			fmt.Fprintln(out, label)
			continue
		}
		id, err := core.Catalog().IDOf(label)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-10s %s\n", id, label)
	}
	return nil
}
