package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show unlocked difficulty per grade and subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		out := cmd.OutOrStdout()

		last, err := e.study.LastResult(cmd.Context())
		if err != nil {
			e.log.Warn("ignoring unreadable last result", "error", err)
		}
		if last != nil {
			fmt.Fprintf(out, "Last quiz: %d/%d, best streak %d (%s)\n\n",
				last.Score, last.Total, last.Streak, last.At.Local().Format("2006-01-02 15:04"))
		}

		records := e.study.ProgressRecords()
		if len(records) == 0 {
			fmt.Fprintln(out, "No progress yet. Pass a quiz with 70 or more to unlock the next difficulty.")
			return nil
		}
		fmt.Fprintf(out, "%-16s  %-20s  %s\n", "Grade", "Subject", "Unlocked")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, r := range records {
			fmt.Fprintf(out, "%-16s  %-20s  %s\n", r.Grade, r.Subject, r.Unlocked)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past quizzes for a grade and subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if all, _ := cmd.Flags().GetBool("all"); all {
			subjects, err := e.study.HistorySubjects(ctx)
			if err != nil {
				return err
			}
			if len(subjects) == 0 {
				fmt.Fprintln(out, "No history.")
			}
			for _, s := range subjects {
				fmt.Fprintf(out, "%s / %s\n", s.Grade, s.Subject)
			}
			return nil
		}

		grade, subject := e.gradeSubject(cmd)
		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			if err := e.study.ResetHistory(ctx, grade, subject); err != nil {
				return err
			}
			fmt.Fprintf(out, "History for %s / %s cleared.\n", grade, subject)
			return nil
		}

		entries, err := e.study.History(ctx, grade, subject)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(out, "No history for %s / %s.\n", grade, subject)
			return nil
		}
		verbose, _ := cmd.Flags().GetBool("feedback")
		fmt.Fprintf(out, "%-16s  %-6s  %-8s  %s\n", "When", "Score", "Level", "Topic")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, en := range entries {
			fmt.Fprintf(out, "%-16s  %-6d  %-8s  %s\n",
				en.Timestamp.Local().Format("2006-01-02 15:04"), en.Score, en.Difficulty, en.Topic)
			if verbose && en.Feedback != nil {
				fmt.Fprintf(out, "    %s: %s\n", en.Feedback.Title, en.Feedback.Body)
			}
		}
		return nil
	},
}

// gradeSubject resolves --grade and --subject over the saved settings.
func (e *env) gradeSubject(cmd *cobra.Command) (string, string) {
	s := e.settings(cmd)
	if v, _ := cmd.Flags().GetString("grade"); v != "" {
		s.Grade = v
	}
	if v, _ := cmd.Flags().GetString("subject"); v != "" {
		s.Subject = v
	}
	return s.Grade, s.Subject
}

func addGradeSubjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("grade", "g", "", "Grade level (default: settings)")
	cmd.Flags().StringP("subject", "s", "", "Subject (default: settings)")
}

func init() {
	addGradeSubjectFlags(historyCmd)
	historyCmd.Flags().Bool("reset", false, "Delete the history for this grade and subject")
	historyCmd.Flags().Bool("all", false, "List every grade and subject with history")
	historyCmd.Flags().Bool("feedback", false, "Show the tutor's feedback for each quiz")
}
