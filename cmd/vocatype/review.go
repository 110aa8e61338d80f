package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/reminder"
	"github.com/verte-zerg/vocatype/internal/reviewui"
)

var (
	reviewLimit int
	dueLimit    int
	remindEvery time.Duration
	remindOnce  bool
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review due vocabulary as flashcards",
		Args:  cobra.NoArgs,
		RunE:  runReviewCmd,
	}
	cmd.Flags().IntVar(&reviewLimit, "limit", defaultReviewLimit, "maximum cards per review (0 = all due)")
	return cmd
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	a := current
	applyIntConfig(cmd, "limit", &reviewLimit, a.file.Review.Limit)

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	svc := a.reviewService(st)
	items, err := svc.Due(cmd.Context(), a.userID, reviewLimit)
	if err != nil {
		return fmt.Errorf("failed to load due words: %w", err)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Nothing is due. Come back later.")
		return err
	}

	m := reviewui.NewModel(cmd.Context(), svc, a.userID, items, a.log)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run review TUI: %w", err)
	}
	a.log.Info("review finished", zap.Int("reviewed", len(m.Reviewed())), zap.Int("due", len(items)))
	return nil
}

func newDueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List due vocabulary",
		Args:  cobra.NoArgs,
		RunE:  runDueCmd,
	}
	cmd.Flags().IntVar(&dueLimit, "limit", 0, "maximum rows (0 = all)")
	return cmd
}

func runDueCmd(cmd *cobra.Command, _ []string) error {
	a := current
	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	items, err := a.reviewService(st).Due(cmd.Context(), a.userID, dueLimit)
	if err != nil {
		return fmt.Errorf("failed to load due words: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "Nothing is due.")
		return err
	}
	for _, it := range items {
		if _, err := fmt.Fprintf(out, "%-20s %-20s %3.0f%%  %-7s %s\n",
			it.Word.Text, it.Word.Translation, it.Progress.MasteryLevel*100, it.Tier,
			it.Progress.NextReviewAt.Local().Format("2006-01-02 15:04")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRemindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Ring the terminal when vocabulary reviews are due",
		Args:  cobra.NoArgs,
		RunE:  runRemindCmd,
	}
	cmd.Flags().DurationVar(&remindEvery, "every", time.Hour, "check interval")
	cmd.Flags().BoolVar(&remindOnce, "once", false, "check once and exit")
	return cmd
}

func runRemindCmd(cmd *cobra.Command, _ []string) error {
	a := current
	if !cmd.Flags().Changed("every") {
		every, err := a.file.Review.RemindInterval()
		if err != nil {
			return err
		}
		if every > 0 {
			remindEvery = every
		}
	}

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	r := reminder.New(st, reminder.TerminalNotifier{W: cmd.OutOrStdout()}, a.userID)
	if remindOnce {
		due, err := r.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		if due == 0 {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Nothing is due.")
		}
		return err
	}

	if err := r.Start(cmd.Context(), remindEvery); err != nil {
		return err
	}
	defer r.Stop()
	<-cmd.Context().Done()
	return nil
}
