package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/lessons"
)

var kitCmd = &cobra.Command{
	Use:   "kit",
	Short: "Generate a learning kit: summary, flashcards and a quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		st, err := e.setupFromFlags(cmd)
		if err != nil {
			return err
		}
		cardCount, _ := cmd.Flags().GetInt("cards")

		fmt.Fprintf(out, "Preparing a learning kit on %s...\n", describeTopic(st))
		kit, err := e.study.GenerateKit(ctx, st, cardCount)
		if err != nil {
			return fmt.Errorf("generate learning kit: %w", err)
		}
		e.rememberSetup(cmd, st)
		printKit(out, kit)

		if play, _ := cmd.Flags().GetBool("play"); !play {
			fmt.Fprintln(out, "\nTake the kit's quiz with `eduquiz quiz resume`.")
			return nil
		}
		if err := e.study.StartQuiz(ctx); err != nil {
			return err
		}
		return playInteractive(cmd, e.study)
	},
}

func printKit(w io.Writer, kit *lessons.Kit) {
	fmt.Fprintf(w, "\n# %s\n\n%s\n", kit.Topic, kit.Summary)
	if len(kit.Flashcards) > 0 {
		fmt.Fprintln(w, "\nFlashcards")
		for _, c := range kit.Flashcards {
			fmt.Fprintf(w, "  • %s: %s\n", c.Front, c.Back)
		}
	}
	if kit.CriticalThinking != "" {
		fmt.Fprintf(w, "\nThink about it: %s\n", kit.CriticalThinking)
	}
	fmt.Fprintf(w, "\nQuiz: %d questions ready.\n", len(kit.Questions))
}

func init() {
	addSetupFlags(kitCmd)
	kitCmd.Flags().Int("cards", 5, "Number of flashcards in the kit")
	kitCmd.Flags().Bool("play", false, "Start the kit's quiz right away")
}
