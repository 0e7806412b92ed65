package cards

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/eduquiz/internal/errs"
)

// Format is a card file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", &errs.InvalidInputError{Field: "format", Reason: fmt.Sprintf("unknown format %q", s)}
}

var csvHeader = []string{"front", "back", "status"}

// Export writes cards as a JSON array or as CSV with a front,back,status
// header.
func Export(w io.Writer, cards []Card, f Format) error {
	switch f {
	case FormatJSON:
		if cards == nil {
			cards = []Card{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(cards)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, c := range cards {
			if err := cw.Write([]string{c.Front, c.Back, string(c.Status)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return &errs.InvalidInputError{Field: "format", Reason: fmt.Sprintf("unknown format %q", f)}
}

// Import reads cards written by Export. An empty format sniffs the content:
// a leading '[' means JSON. Every card is validated; the first bad one
// fails the whole import.
func Import(r io.Reader, f Format) ([]Card, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cards: %w", err)
	}
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if f == "" {
		f = FormatCSV
		if bytes.HasPrefix(trimmed, []byte("[")) {
			f = FormatJSON
		}
	}

	var cards []Card
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(trimmed, &cards); err != nil {
			return nil, &errs.InvalidInputError{Field: "cards", Reason: fmt.Sprintf("invalid JSON: %v", err)}
		}
	case FormatCSV:
		cards, err = readCSV(bytes.NewReader(trimmed))
		if err != nil {
			return nil, err
		}
	default:
		return nil, &errs.InvalidInputError{Field: "format", Reason: fmt.Sprintf("unknown format %q", f)}
	}

	for i := range cards {
		cards[i] = Card{
			Front:  strings.TrimSpace(cards[i].Front),
			Back:   strings.TrimSpace(cards[i].Back),
			Status: cards[i].Status,
		}
		status, err := ParseStatus(string(cards[i].Status))
		if err != nil {
			return nil, &errs.InvalidInputError{Field: fmt.Sprintf("cards[%d].status", i), Reason: err.Error()}
		}
		cards[i].Status = status
		if err := cards[i].validate(fmt.Sprintf("cards[%d]", i)); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

func readCSV(r io.Reader) ([]Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var cards []Card
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &errs.InvalidInputError{Field: "cards", Reason: fmt.Sprintf("invalid CSV: %v", err)}
		}
		if line == 1 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), csvHeader[0]) {
			continue
		}
		if len(rec) < 2 {
			return nil, &errs.InvalidInputError{Field: fmt.Sprintf("line %d", line), Reason: "need front and back columns"}
		}
		c := Card{Front: rec[0], Back: rec[1]}
		if len(rec) > 2 {
			c.Status = Status(rec[2])
		}
		cards = append(cards, c)
	}
	return cards, nil
}
