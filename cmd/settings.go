package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/progress"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the default grade, subject, difficulty and topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		out := cmd.OutOrStdout()

		s := e.settings(cmd)
		changed := false
		f := cmd.Flags()
		if v, _ := f.GetString("grade"); v != "" {
			s.Grade, changed = v, true
		}
		if v, _ := f.GetString("subject"); v != "" {
			s.Subject, changed = v, true
		}
		if v, _ := f.GetString("topic"); v != "" {
			s.Topic, changed = v, true
		}
		if v, _ := f.GetString("difficulty"); v != "" {
			tier, err := progress.ParseTier(v)
			if err != nil {
				return err
			}
			s.Difficulty, changed = tier, true
		}
		if changed {
			if err := e.study.SaveSettings(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Fprintln(out, "Settings saved.")
		}

		fmt.Fprintf(out, "User:       %s\n", e.cfg.UserID)
		fmt.Fprintf(out, "Grade:      %s\n", s.Grade)
		fmt.Fprintf(out, "Subject:    %s\n", s.Subject)
		fmt.Fprintf(out, "Difficulty: %s (unlocked up to %s)\n", s.Difficulty, e.study.UnlockedTier(s.Grade, s.Subject))
		fmt.Fprintf(out, "Topic:      %s\n", s.Topic)
		return nil
	},
}

func init() {
	f := settingsCmd.Flags()
	f.StringP("grade", "g", "", "Default grade")
	f.StringP("subject", "s", "", "Default subject")
	f.StringP("difficulty", "d", "", "Preferred difficulty")
	f.StringP("topic", "t", "", "Last topic")
}
