package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/assignments"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Share quizzes as assignments and collect submissions",
}

var assignCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a quiz and publish it as an assignment",
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
		if _, err := e.study.GenerateQuiz(ctx, st); err != nil {
			return fmt.Errorf("generate quiz: %w", err)
		}
		a, err := e.study.Share(ctx)
		if err != nil {
			return err
		}
		// The teacher is not taking the quiz; drop the share session.
		e.study.Reset(ctx)

		fmt.Fprintf(cmd.OutOrStdout(), "Assignment %s: %q, %d questions.\nStudents take it with `eduquiz assign submit %s`.\n",
			a.ID, a.Topic, len(a.Questions), a.ID)
		return nil
	},
}

var assignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assignments",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		out := cmd.OutOrStdout()

		svc := assignments.NewService(e.kv)
		list, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No assignments.")
			return nil
		}
		fmt.Fprintf(out, "%-36s  %-16s  %-4s  %s\n", "ID", "Created", "Qs", "Topic")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, a := range list {
			fmt.Fprintf(out, "%-36s  %-16s  %-4d  %s\n",
				a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"), len(a.Questions), a.Topic)
		}
		return nil
	},
}

var assignShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an assignment and its submissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		svc := assignments.NewService(e.kv)
		a, err := svc.Get(ctx, args[0])
		if err != nil {
			return err
		}
		subs, err := svc.Submissions(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s (%s / %s), %d questions\n", a.Topic, a.Grade, a.Subject, len(a.Questions))
		for i, q := range a.Questions {
			fmt.Fprintf(out, "  %d. %s  [%s]\n", i+1, q.Prompt, q.CorrectText())
		}
		fmt.Fprintf(out, "\n%d submissions\n", len(subs))
		for _, s := range subs {
			right := 0
			for _, ok := range s.Correctness {
				if ok {
					right++
				}
			}
			fmt.Fprintf(out, "  %-24s  %3d  (%d/%d)  %s\n", s.StudentName, s.Score, right, len(s.Correctness),
				s.SubmittedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var assignSubmitCmd = &cobra.Command{
	Use:   "submit <id>",
	Short: "Take an assignment and submit your answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetStringSlice("answers")
		name, _ := cmd.Flags().GetString("name")
		if len(answers) > 0 && strings.TrimSpace(name) == "" {
			return fmt.Errorf("--name is required with --answers")
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		a, err := e.study.StartAssignment(ctx, args[0])
		if err != nil {
			return err
		}
		if len(answers) == 0 {
			return playInteractive(cmd, e.study)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Assignment: %s\n", a.Topic)
		if err := playScripted(cmd, e.study, answers); err != nil {
			return err
		}
		if err := e.study.SubmitAssignment(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Submitted as %s.\n", strings.TrimSpace(name))
		return nil
	},
}

func init() {
	addSetupFlags(assignCreateCmd)
	assignSubmitCmd.Flags().String("name", "", "Your name, shown to the teacher")
	assignSubmitCmd.Flags().StringSlice("answers", nil, "Answer non-interactively")

	assignCmd.AddCommand(assignCreateCmd)
	assignCmd.AddCommand(assignListCmd)
	assignCmd.AddCommand(assignShowCmd)
	assignCmd.AddCommand(assignSubmitCmd)
}
