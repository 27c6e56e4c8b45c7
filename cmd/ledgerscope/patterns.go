package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tmorriss/ledgerscope/internal/cli"
	"github.com/tmorriss/ledgerscope/internal/model"
	"github.com/tmorriss/ledgerscope/internal/recur"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patterns",
		Aliases: []string{"pattern"},
		Short:   "Manage saved recurring patterns",
		Long: `Manage the recurring patterns you have approved. Saved patterns feed the
balance projection; deactivated patterns are kept for audit but excluded from
projections.`,
	}

	cmd.AddCommand(patternsSaveCmd())
	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsDeactivateCmd())

	return cmd
}

func patternsSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <candidate-key>",
		Short: "Approve and save a detected candidate",
		Long: `Re-run detection and persist the candidate with the given key, as printed
by 'ledgerscope detect'. Candidates are addressed by their stable
account|payee|frequency key rather than by list position, so the same key
selects the same pattern even after re-sorting.`,
		Args: cobra.ExactArgs(1),
		RunE: runPatternsSave,
	}

	cmd.Flags().IntP("lookback", "l", recur.DefaultLookbackDays, "Days of history to scan")
	cmd.Flags().String("created-by", "cli", "Attribution recorded on the saved pattern")

	return cmd
}

func runPatternsSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	lookback, _ := cmd.Flags().GetInt("lookback")
	createdBy, _ := cmd.Flags().GetString("created-by")

	result, err := recur.NewDetector(store).Detect(ctx, lookback)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	var candidate *model.PatternCandidate
	for i := range result.Candidates {
		if result.Candidates[i].Key() == key {
			candidate = &result.Candidates[i]
			break
		}
	}
	if candidate == nil {
		return fmt.Errorf("no detected candidate matches key %q; run 'ledgerscope detect' to list keys", key)
	}

	// Duplicate active patterns are allowed but worth flagging: the user may
	// have already approved this obligation.
	duplicates, err := store.CountActivePatterns(ctx, candidate.AccountID, candidate.Payee, candidate.Frequency)
	if err != nil {
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if duplicates > 0 {
		fmt.Println(cli.WarningStyle.Render(fmt.Sprintf(
			"Warning: %d active pattern(s) already exist for %s / %s (%s)",
			duplicates, candidate.AccountID, candidate.Payee, candidate.Frequency)))
	}

	pattern := &model.RecurringPattern{
		Name:           candidate.Name,
		AccountID:      candidate.AccountID,
		Payee:          candidate.Payee,
		TypicalAmount:  candidate.TypicalAmount,
		AmountVariance: candidate.AmountVariance,
		Frequency:      candidate.Frequency,
		Interval:       candidate.Interval,
		Occurrences:    candidate.Occurrences,
		Confidence:     candidate.Confidence,
		Level:          candidate.Level,
		Type:           candidate.Type,
		Category:       candidate.Category,
		Subcategory:    candidate.Subcategory,
		NextExpected:   candidate.NextExpected,
		LastSeen:       candidate.LastSeen,
		CreatedBy:      createdBy,
	}

	if err := store.SavePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(
		fmt.Sprintf("Saved pattern %d: %s", pattern.ID, pattern.Name)))
	return nil
}

func patternsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved recurring patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			all, _ := cmd.Flags().GetBool("all")

			patterns, err := store.ListPatterns(ctx, !all)
			if err != nil {
				return fmt.Errorf("failed to list patterns: %w", err)
			}

			if len(patterns) == 0 {
				slog.Info("No saved patterns found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tFREQUENCY\tAMOUNT\tNEXT\tCONFIDENCE\tACTIVE")
			_, _ = fmt.Fprintln(w, "──\t────\t────\t─────────\t──────\t────\t──────────\t──────")

			for _, p := range patterns {
				frequency := string(p.Frequency)
				if p.Interval > 1 {
					frequency = fmt.Sprintf("%s x%d", p.Frequency, p.Interval)
				}

				active := "yes"
				if !p.Active {
					active = cli.SubtleStyle.Render("no")
				}

				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID,
					truncateString(p.Name, 28),
					p.Type,
					frequency,
					cli.FormatAmount(p.TypicalAmount),
					p.NextExpected.Format("2006-01-02"),
					cli.FormatConfidence(p.Confidence, p.Level),
					active)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Include deactivated patterns")
	return cmd
}

func patternsDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a saved pattern",
		Long: `Mark a pattern inactive. The pattern stops contributing to balance
projections but remains in the store for audit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pattern id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivatePattern(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Deactivated pattern %d", id)))
			return nil
		},
	}
}
