package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tmorriss/ledgerscope/internal/cli"
	"github.com/tmorriss/ledgerscope/internal/recur"
)

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect recurring transaction patterns",
		Long: `Scan historical transactions for recurring patterns: bills, subscriptions,
and income deposits.

Detection groups transactions by account and normalized payee, classifies the
cadence of each group from its median inter-occurrence gap, and scores how
regular the timing and amounts are. Candidates are ranked by confidence.
Nothing is saved; approve a candidate with 'ledgerscope patterns save'.`,
		RunE: runDetect,
	}

	cmd.Flags().IntP("lookback", "l", recur.DefaultLookbackDays, "Days of history to scan")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	_ = viper.BindPFlag("detect.lookback", cmd.Flags().Lookup("lookback"))

	return cmd
}

func runDetect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	lookback := viper.GetInt("detect.lookback")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	detector := recur.NewDetector(store)
	if !noProgress {
		var bar *progressbar.ProgressBar
		detector.Progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Analyzing payee groups..."),
				)
			}
			_ = bar.Set(done)
		}
	}

	result, err := detector.Detect(ctx, lookback)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	if result.Skipped > 0 {
		fmt.Println(cli.WarningStyle.Render(
			fmt.Sprintf("Skipped %d malformed transaction records", result.Skipped)))
	}

	if len(result.Candidates) == 0 {
		slog.Info("No recurring patterns detected", "lookback_days", result.LookbackDays)
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(
		fmt.Sprintf("Detected %d recurring patterns (last %d days)",
			len(result.Candidates), result.LookbackDays)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tPAYEE\tTYPE\tFREQUENCY\tAMOUNT\tSEEN\tNEXT\tCONFIDENCE")
	_, _ = fmt.Fprintln(w, "───\t─────\t────\t─────────\t──────\t────\t────\t──────────")

	for _, c := range result.Candidates {
		frequency := string(c.Frequency)
		if c.Interval > 1 {
			frequency = fmt.Sprintf("%s x%d", c.Frequency, c.Interval)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			truncateString(c.Key(), 36),
			truncateString(c.Payee, 24),
			c.Type,
			frequency,
			cli.FormatAmount(c.TypicalAmount),
			len(c.Occurrences),
			c.NextExpected.Format("2006-01-02"),
			cli.FormatConfidence(c.Confidence, c.Level))
	}

	return w.Flush()
}
