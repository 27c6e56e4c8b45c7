package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tmorriss/ledgerscope/internal/budget"
	"github.com/tmorriss/ledgerscope/internal/cli"
	"github.com/tmorriss/ledgerscope/internal/common"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget <category> [subcategory]",
		Short: "Suggest a budget amount from spending history",
		Long: `Suggest a monthly budget amount for one category (optionally narrowed to a
subcategory) from its historical monthly totals. The suggestion is the median
of recent months after removing outlier months, so a single unusual month
cannot skew it. The suggestion is advisory: it is printed, never applied.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runBudget,
	}

	cmd.Flags().IntP("months", "m", 12, "Months of history to consider")

	return cmd
}

func runBudget(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category := args[0]
	subcategory := ""
	if len(args) > 1 {
		subcategory = args[1]
	}
	months, _ := cmd.Flags().GetInt("months")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	totals, err := store.GetMonthlyCategoryTotals(ctx, category, subcategory, months)
	if err != nil {
		return fmt.Errorf("failed to load monthly totals: %w", err)
	}

	result, err := budget.Calculate(totals)
	if common.IsInsufficientData(err) {
		// Soft signal, not a failure: tell the user and exit cleanly.
		fmt.Println(cli.WarningStyle.Render(
			fmt.Sprintf("Not enough history for %s: %v", category, err)))
		return nil
	}
	if err != nil {
		return err
	}

	label := category
	if subcategory != "" {
		label = fmt.Sprintf("%s / %s", category, subcategory)
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Budget suggestion for %s", label)))
	fmt.Printf("%s $%.2f per month\n", cli.BoldStyle.Render("Suggested:"), result.SuggestedAmount)
	fmt.Printf("%s %.0f%% (%s)\n", cli.BoldStyle.Render("Confidence:"),
		result.Confidence*100, budget.LevelFor(result.Confidence))
	fmt.Printf("%s %d months used, %d outlier month(s) removed\n",
		cli.BoldStyle.Render("Basis:"), result.Analysis.MonthsUsed, result.Analysis.OutliersRemoved)
	fmt.Println(cli.SubtleStyle.Render(result.Analysis.Description))

	return nil
}
