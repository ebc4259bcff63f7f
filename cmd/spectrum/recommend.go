package main

import (
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/cli"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/spf13/cobra"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <product>",
		Short: "List products most often bought together with a product",
		Long: `Look up a product by its exact label (see 'spectrum products') and list
the products whose purchase pattern across customers is most similar.`,
		Args: cobra.ExactArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().IntP("count", "n", 0, "number of recommendations (default from config: 5)")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	product := args[0]

	n, _ := cmd.Flags().GetInt("count")
	if n < 0 {
		return fmt.Errorf("%w: --count must not be negative", common.ErrConfiguration)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	core, err := loadCore(cmd.Context(), cfg, loadOptions{})
	if err != nil {
		return err
	}

	recs, err := core.RecommendDetailed(product, n)
	if err != nil {
		if common.IsQueryMiss(err) {
			if suggestions := core.Catalog().Search(product); len(suggestions) > 0 && len(suggestions) <= 10 {
				fmt.Fprintln(out, cli.FormatInfo("Did you mean one of these?"))
				for _, s := range suggestions {
					fmt.Fprintln(out, "  "+s)
				}
			}
		}
		return err
	}

	fmt.Fprintln(out, cli.RenderRecommendations(product, recs))
	return nil
}
