package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/config"
	"github.com/abhisek/eduquiz/internal/extract"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage and practise flashcards",
}

var cardsFromPDFCmd = &cobra.Command{
	Use:   "from-pdf <file>",
	Short: "Make flashcards from a PDF, image or text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		password, _ := cmd.Flags().GetString("password")
		count, _ := cmd.Flags().GetInt("count")
		language, _ := cmd.Flags().GetString("language")

		x := extract.New(e.log,
			extract.WithLanguage(e.cfg.Extract.OCRLang),
			extract.WithOCRPages(e.cfg.Extract.OCRPages),
			extract.WithTimeout(config.Duration(e.cfg.Extract.Timeout, 2*time.Minute)),
		)
		doc, err := x.File(ctx, args[0], password)
		if err != nil {
			return explainExtractError(err)
		}
		if doc.OCR {
			fmt.Fprintln(out, "No text layer found; used OCR on the first pages.")
		}

		text := truncateRunes(doc.Text, e.cfg.Extract.MaxChars)
		fmt.Fprintf(out, "Read %d characters from %s. Generating cards...\n", utf8.RuneCountInString(text), doc.Name)
		added, err := e.study.CardsFromText(ctx, text, doc.Name, count, language)
		if err != nil {
			return fmt.Errorf("generate cards: %w", err)
		}
		fmt.Fprintf(out, "Added %d cards (%d in total).\n", len(added), len(e.study.Cards()))
		for _, c := range added {
			fmt.Fprintf(out, "  • %s: %s\n", c.Front, c.Back)
		}
		return nil
	},
}

func explainExtractError(err error) error {
	var xe *extract.ExtractError
	if !errors.As(err, &xe) {
		return err
	}
	switch xe.Kind {
	case extract.KindPasswordRequired:
		return fmt.Errorf("%s is password protected; pass --password: %w", filepath.Base(xe.Path), err)
	case extract.KindToolMissing:
		return fmt.Errorf("install poppler-utils and tesseract-ocr to read documents: %w", err)
	case extract.KindEmpty:
		return fmt.Errorf("no readable text in %s: %w", filepath.Base(xe.Path), err)
	}
	return err
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved flashcards",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		out := cmd.OutOrStdout()

		raw, _ := cmd.Flags().GetString("filter")
		f, err := cards.ParseFilter(raw)
		if err != nil {
			return err
		}
		idx, cs := e.study.FilterCards(f)
		if len(cs) == 0 {
			fmt.Fprintln(out, "No cards.")
			return nil
		}
		fmt.Fprintf(out, "%-4s  %-13s  %-32s  %s\n", "#", "Status", "Front", "Back")
		for i, c := range cs {
			fmt.Fprintf(out, "%-4d  %-13s  %-32s  %s\n", idx[i]+1, c.Status, truncate(c.Front, 32), c.Back)
		}
		counts := e.study.CardCounts()
		fmt.Fprintf(out, "\n%d new · %d needs review · %d mastered\n",
			counts[cards.StatusNew], counts[cards.StatusNeedsReview], counts[cards.StatusMastered])
		return nil
	},
}

// cardIndex parses a 1-based card number from the command line.
func cardIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid card number %q", raw)
	}
	return n - 1, nil
}

// cardExists rejects card numbers past the end of the saved set, which
// are a typing mistake rather than a bug.
func cardExists(e *env, idx ...int) error {
	n := len(e.study.Cards())
	for _, i := range idx {
		if i >= n {
			return fmt.Errorf("no card %d: the set has %d cards", i+1, n)
		}
	}
	return nil
}

var cardsStatusCmd = &cobra.Command{
	Use:   "status <n> <new|needs-review|mastered>",
	Short: "Set a card's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := cardIndex(args[0])
		if err != nil {
			return err
		}
		status, err := cards.ParseStatus(args[1])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := cardExists(e, i); err != nil {
			return err
		}
		if err := e.study.SetCardStatus(cmd.Context(), i, status); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Card %d is now %s.\n", i+1, status)
		return nil
	},
}

var cardsMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a card to another position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := cardIndex(args[0])
		if err != nil {
			return err
		}
		to, err := cardIndex(args[1])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := cardExists(e, from, to); err != nil {
			return err
		}
		if err := e.study.MoveCard(cmd.Context(), from, to); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved card %d to position %d.\n", from+1, to+1)
		return nil
	},
}

var cardsDeleteCmd = &cobra.Command{
	Use:   "delete <n>",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := cardIndex(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := cardExists(e, i); err != nil {
			return err
		}
		if err := e.study.DeleteCard(cmd.Context(), i); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %d.\n", i+1)
		return nil
	},
}

var cardsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write saved cards as JSON or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("format")
		format, err := cards.ParseFormat(raw)
		if err != nil {
			return err
		}
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		w := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()
			w = f
		}
		return cards.Export(w, e.study.Cards(), format)
	},
}

var cardsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add cards from a JSON or CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("format")
		if raw == "" {
			raw = filepath.Ext(args[0])
		}
		format, err := cards.ParseFormat(raw)
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		cs, err := cards.Import(f, format)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.study.ImportCards(cmd.Context(), cs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards.\n", len(cs))
		return nil
	},
}

var cardsQuizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Quiz yourself on saved cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("filter")
		filter, err := cards.ParseFilter(raw)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.study.StartCardsQuiz(cmd.Context(), filter, count); err != nil {
			return err
		}
		if answers, _ := cmd.Flags().GetStringSlice("answers"); len(answers) > 0 {
			return playScripted(cmd, e.study, answers)
		}
		return playInteractive(cmd, e.study)
	},
}

func init() {
	cardsFromPDFCmd.Flags().String("password", "", "Password for protected PDFs")
	cardsFromPDFCmd.Flags().IntP("count", "n", 10, "Number of cards to generate (1-20)")
	cardsFromPDFCmd.Flags().String("language", "", "Language to write cards in")

	cardsListCmd.Flags().String("filter", "all", "all, needsReview or notMastered")

	cardsExportCmd.Flags().String("format", "json", "json or csv")
	cardsExportCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")

	cardsImportCmd.Flags().String("format", "", "json or csv (default: from the file extension)")

	cardsQuizCmd.Flags().String("filter", "all", "all, needsReview or notMastered")
	cardsQuizCmd.Flags().IntP("count", "n", 0, "Number of questions (default: one per card)")
	cardsQuizCmd.Flags().StringSlice("answers", nil, "Answer non-interactively")

	cardsCmd.AddCommand(cardsFromPDFCmd)
	cardsCmd.AddCommand(cardsListCmd)
	cardsCmd.AddCommand(cardsStatusCmd)
	cardsCmd.AddCommand(cardsMoveCmd)
	cardsCmd.AddCommand(cardsDeleteCmd)
	cardsCmd.AddCommand(cardsExportCmd)
	cardsCmd.AddCommand(cardsImportCmd)
	cardsCmd.AddCommand(cardsQuizCmd)
}
