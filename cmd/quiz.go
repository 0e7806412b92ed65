package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/app"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/session"
	"github.com/abhisek/eduquiz/internal/study"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate, play and resume quizzes",
}

var quizNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a quiz and play it",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		st, err := e.setupFromFlags(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Generating %d questions on %s (%s, %s)...\n", st.Count, describeTopic(st), st.Grade, st.Subject)
		qs, err := e.study.GenerateQuiz(ctx, st)
		if err != nil {
			return fmt.Errorf("generate quiz: %w", err)
		}
		e.rememberSetup(cmd, st)

		if err := e.study.StartQuiz(ctx); err != nil {
			return err
		}
		answers, _ := cmd.Flags().GetStringSlice("answers")
		if len(answers) > 0 {
			return playScripted(cmd, e.study, answers)
		}
		fmt.Fprintf(out, "Ready: %d questions.\n", len(qs))
		return playInteractive(cmd, e.study)
	},
}

var quizResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Continue the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		snap, err := e.study.Resume(ctx)
		if err != nil {
			return fmt.Errorf("saved session could not be restored and was discarded: %w", err)
		}
		if snap == nil {
			fmt.Fprintln(out, "No saved session.")
			return nil
		}
		fmt.Fprintf(out, "Resuming %q (%s).\n", snap.Topic, snap.Stage)

		switch snap.Stage {
		case session.StageCards:
			fmt.Fprintf(out, "Card session with %d cards restored. Use `eduquiz cards quiz` to practise them.\n", len(e.study.Cards()))
			return nil
		case session.StageReview, session.StageLearningKit, session.StageShare:
			if err := e.study.StartQuiz(ctx); err != nil {
				return err
			}
		}
		if _, total, _ := e.study.Progress(); total == 0 {
			return fmt.Errorf("saved session has no quiz to resume")
		}

		answers, _ := cmd.Flags().GetStringSlice("answers")
		if len(answers) > 0 {
			return playScripted(cmd, e.study, answers)
		}
		return playInteractive(cmd, e.study)
	},
}

var quizDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Throw away the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		e.study.Reset(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Saved session discarded.")
		return nil
	},
}

// addSetupFlags registers the flags that describe what to generate.
func addSetupFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("topic", "t", "", "Topic to study (default: last topic)")
	f.StringP("grade", "g", "", "Grade level (default: settings)")
	f.StringP("subject", "s", "", "Subject (default: settings)")
	f.StringP("difficulty", "d", "", "easy, medium or hard (default: highest unlocked)")
	f.IntP("count", "n", 0, "Number of questions")
	f.StringSlice("types", nil, "Question types: mc, tf, fill")
	f.Int("week", 0, "Take the quiz for this learning path week")
	f.String("language", "", "Language to write questions in, e.g. Vietnamese")
}

// setupFromFlags merges flags over saved settings over config defaults.
func (e *env) setupFromFlags(cmd *cobra.Command) (study.Setup, error) {
	saved := e.settings(cmd)
	f := cmd.Flags()

	st := study.Setup{Grade: saved.Grade, Subject: saved.Subject, Topic: saved.Topic, Count: e.cfg.Quiz.Count}
	if v, _ := f.GetString("grade"); v != "" {
		st.Grade = v
	}
	if v, _ := f.GetString("subject"); v != "" {
		st.Subject = v
	}
	if v, _ := f.GetString("topic"); v != "" {
		st.Topic = v
	}
	if v, _ := f.GetInt("count"); v > 0 {
		st.Count = v
	}
	st.Week, _ = f.GetInt("week")
	st.Language, _ = f.GetString("language")

	if st.Week == 0 {
		st.Difficulty = e.study.UnlockedTier(st.Grade, st.Subject)
	}
	if v, _ := f.GetString("difficulty"); v != "" {
		tier, err := progress.ParseTier(v)
		if err != nil {
			return st, err
		}
		st.Difficulty = tier
	}

	types, _ := f.GetStringSlice("types")
	if len(types) == 0 {
		types = e.cfg.Quiz.Types
	}
	for _, raw := range types {
		t, err := quiz.ParseType(raw)
		if err != nil {
			return st, err
		}
		st.Types = append(st.Types, t)
	}

	if st.Topic == "" && st.Week == 0 {
		return st, fmt.Errorf("--topic is required")
	}
	return st, nil
}

// settings returns the saved settings with config defaults filled in.
func (e *env) settings(cmd *cobra.Command) study.Settings {
	s, err := e.study.Settings(cmd.Context())
	if err != nil {
		e.log.Warn("ignoring unreadable settings", "error", err)
	}
	if s.Grade == "" {
		s.Grade = e.cfg.Quiz.Grade
	}
	if s.Subject == "" {
		s.Subject = e.cfg.Quiz.Subject
	}
	if s.Difficulty == "" {
		s.Difficulty = progress.Tier(e.cfg.Quiz.Difficulty)
	}
	return s
}

func describeTopic(st study.Setup) string {
	if st.Week > 0 {
		return fmt.Sprintf("learning path week %d", st.Week)
	}
	return fmt.Sprintf("%q", st.Topic)
}

// rememberSetup saves the setup as the new defaults.
func (e *env) rememberSetup(cmd *cobra.Command, st study.Setup) {
	s := e.settings(cmd)
	s.Grade, s.Subject = st.Grade, st.Subject
	if st.Difficulty != "" {
		s.Difficulty = st.Difficulty
	}
	if st.Topic != "" {
		s.Topic = st.Topic
	}
	if err := e.study.SaveSettings(cmd.Context(), s); err != nil {
		e.log.Warn("settings not saved", "error", err)
	}
}

func playInteractive(cmd *cobra.Command, st *study.Study) error {
	if err := app.Run(cmd.Context(), st); err != nil {
		return err
	}
	if st.Stage() == session.StageQuiz {
		fmt.Fprintln(cmd.OutOrStdout(), "Quiz saved. Continue with `eduquiz quiz resume`.")
	}
	return nil
}

func init() {
	addSetupFlags(quizNewCmd)
	quizNewCmd.Flags().StringSlice("answers", nil, "Answer non-interactively, one per question (e.g. b,true,Hanoi)")
	quizResumeCmd.Flags().StringSlice("answers", nil, "Answer the remaining questions non-interactively")

	quizCmd.AddCommand(quizNewCmd)
	quizCmd.AddCommand(quizResumeCmd)
	quizCmd.AddCommand(quizDiscardCmd)
}
