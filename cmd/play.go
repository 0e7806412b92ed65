package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/study"
)

// playScripted answers the running quiz from answers and prints the
// result and tutor feedback.
func playScripted(cmd *cobra.Command, st *study.Study, answers []string) error {
	out := cmd.OutOrStdout()
	c, err := answerAll(cmd.Context(), out, st, answers)
	if err != nil {
		return err
	}
	printCompletion(out, c)
	if c.Assignment == "" {
		printFeedback(out, st)
	}
	return nil
}

// answerAll submits one answer per remaining question. A quiz paused on
// feedback is advanced first.
func answerAll(ctx context.Context, w io.Writer, st *study.Study, answers []string) (*study.Completion, error) {
	if _, _, state := st.Progress(); state == quiz.StateShowingFeedback {
		c, err := st.Advance(ctx)
		if err != nil || c != nil {
			return c, err
		}
	}

	for i := 0; ; i++ {
		index, total, _ := st.Progress()
		q, err := st.CurrentQuestion()
		if err != nil {
			return nil, err
		}
		if i >= len(answers) {
			return nil, fmt.Errorf("only %d answers for %d remaining questions; progress is saved", len(answers), total-index+i)
		}
		a, err := quiz.ParseResponse(q, answers[i])
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", i+1, err)
		}
		res, err := st.Submit(ctx, a)
		if err != nil {
			return nil, err
		}
		printOutcome(w, index+1, total, res)

		c, err := st.Advance(ctx)
		if err != nil {
			return nil, err
		}
		if c != nil {
			if extra := len(answers) - i - 1; extra > 0 {
				fmt.Fprintf(w, "(%d extra answers ignored)\n", extra)
			}
			return c, nil
		}
	}
}

func printOutcome(w io.Writer, n, total int, o quiz.Outcome) {
	fmt.Fprintf(w, "%d/%d  %s\n", n, total, o.Question.Prompt)
	if o.Question.Type == quiz.TypeMultipleChoice {
		for i, opt := range o.Question.Options {
			fmt.Fprintf(w, "      %c) %s\n", 'A'+i, opt)
		}
	}
	if o.Correct {
		fmt.Fprintf(w, "    ✓ %s\n", o.Question.Render(o.Response))
	} else {
		fmt.Fprintf(w, "    ✗ %s  (correct: %s)\n", o.Question.Render(o.Response), o.Question.CorrectText())
	}
	if o.Question.Explanation != "" {
		fmt.Fprintf(w, "      %s\n", o.Question.Explanation)
	}
}

func printCompletion(w io.Writer, c *study.Completion) {
	r := c.Result
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "Score: %d/%d   Correct: %d of %d   Best streak: %d\n",
		r.Score, r.Total, r.Correct, r.Questions, r.LongestStreak)
	if c.NewTier {
		fmt.Fprintf(w, "Unlocked %s difficulty!\n", c.Unlocked)
	}
}

// printFeedback waits for the tutor and prints its review.
func printFeedback(w io.Writer, st *study.Study) {
	st.Wait()
	res, ok := st.ConsumeFeedback()
	if !ok {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Feedback.Title)
	fmt.Fprintln(w, res.Feedback.Body)
	if res.Err != nil {
		fmt.Fprintf(w, "(tutor unavailable: %v)\n", res.Err)
	}
}
