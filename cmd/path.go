package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/study"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Plan a multi-week learning path",
}

var pathGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a learning path, replacing any earlier one",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		grade, subject := e.gradeSubject(cmd)
		language, _ := cmd.Flags().GetString("language")
		fmt.Fprintf(cmd.OutOrStdout(), "Planning a path for %s / %s...\n", grade, subject)
		if _, err := e.study.GeneratePath(ctx, grade, subject, language); err != nil {
			return fmt.Errorf("generate path: %w", err)
		}
		_, weeks, err := e.study.PathStatus(ctx, grade, subject)
		if err != nil {
			return err
		}
		printPath(cmd.OutOrStdout(), weeks)
		return nil
	},
}

var pathShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the learning path and which weeks are open",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		grade, subject := e.gradeSubject(cmd)
		path, weeks, err := e.study.PathStatus(cmd.Context(), grade, subject)
		if err != nil {
			return err
		}
		if path == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No path for %s / %s. Create one with `eduquiz path generate`.\n", grade, subject)
			return nil
		}
		printPath(cmd.OutOrStdout(), weeks)
		return nil
	},
}

func printPath(w io.Writer, weeks []study.WeekStatus) {
	for _, ws := range weeks {
		state := "locked"
		if ws.Unlocked {
			state = "open, up to " + string(ws.Tier)
		}
		fmt.Fprintf(w, "\nWeek %d: %s  [%s]\n", ws.Week.Week, ws.Title, state)
		fmt.Fprintf(w, "  Topics: %s\n", strings.Join(ws.Topics, ", "))
		if ws.Objective != "" {
			fmt.Fprintf(w, "  Goal:   %s\n", ws.Objective)
		}
	}
	fmt.Fprintln(w, "\nStart a week with `eduquiz quiz new --week N`. Pass it at every level to open the next.")
}

func init() {
	addGradeSubjectFlags(pathGenerateCmd)
	pathGenerateCmd.Flags().String("language", "", "Language to write the path in")
	addGradeSubjectFlags(pathShowCmd)

	pathCmd.AddCommand(pathGenerateCmd)
	pathCmd.AddCommand(pathShowCmd)
}
