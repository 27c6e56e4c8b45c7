package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tmorriss/ledgerscope/internal/cli"
	"github.com/tmorriss/ledgerscope/internal/forecast"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project <starting-balance>",
		Short: "Project the account balance forward",
		Long: `Simulate a forward daily balance from the given starting balance using the
active recurring patterns. Each pattern contributes its typical amount on the
days its schedule lands; irregular patterns are excluded because they have no
extrapolatable schedule.`,
		Args: cobra.ExactArgs(1),
		RunE: runProject,
	}

	cmd.Flags().IntP("days", "d", 90, "Days to project (up to 365)")
	cmd.Flags().Bool("daily", false, "Print the full day-by-day ledger, not just days with activity")

	return cmd
}

func runProject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	startingBalance, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid starting balance %q: %w", args[0], err)
	}

	days, _ := cmd.Flags().GetInt("days")
	showAll, _ := cmd.Flags().GetBool("daily")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	patterns, err := store.ListPatterns(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to load active patterns: %w", err)
	}

	projection, err := forecast.Project(startingBalance, days, time.Now(), patterns)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(
		fmt.Sprintf("Balance projection: %d days, %d patterns", projection.Days, projection.PatternsUsed)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tCHANGE\tBALANCE\tTRANSACTIONS")
	_, _ = fmt.Fprintln(w, "────\t──────\t───────\t────────────")

	for _, day := range projection.Daily {
		if !showAll && len(day.Transactions) == 0 {
			continue
		}

		names := ""
		for i, txn := range day.Transactions {
			if i > 0 {
				names += ", "
			}
			names += txn.Payee
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			day.Date.Format("2006-01-02"),
			cli.FormatAmount(day.Change),
			fmt.Sprintf("$%.2f", day.Balance),
			truncateString(names, 48))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s %s  %s %s  %s %s\n",
		cli.BoldStyle.Render("Final:"), cli.FormatAmount(projection.FinalBalance),
		cli.BoldStyle.Render("Income:"), cli.FormatAmount(projection.ProjectedIncome),
		cli.BoldStyle.Render("Expenses:"), cli.FormatAmount(projection.ProjectedExpenses))

	return nil
}
