package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Answer holds one response, or the correct answer, for a question. Its
// kind follows the question type: an option index, a bool or free text.
// The zero Answer is empty.
type Answer struct {
	kind  Type
	index int
	value bool
	text  string
}

func Choice(index int) Answer { return Answer{kind: TypeMultipleChoice, index: index} }
func TrueFalse(v bool) Answer { return Answer{kind: TypeTrueFalse, value: v} }
func Text(s string) Answer    { return Answer{kind: TypeFill, text: s} }

func (a Answer) Kind() Type   { return a.kind }
func (a Answer) IsZero() bool { return a.kind == "" }

func (a Answer) Index() (int, bool) {
	return a.index, a.kind == TypeMultipleChoice
}

func (a Answer) Bool() (bool, bool) {
	return a.value, a.kind == TypeTrueFalse
}

func (a Answer) Text() (string, bool) {
	return a.text, a.kind == TypeFill
}

func (a Answer) String() string {
	switch a.kind {
	case TypeMultipleChoice:
		return strconv.Itoa(a.index)
	case TypeTrueFalse:
		return strconv.FormatBool(a.value)
	case TypeFill:
		return a.text
	}
	return ""
}

// MarshalJSON encodes the answer as a bare number, bool or string.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case TypeMultipleChoice:
		return json.Marshal(a.index)
	case TypeTrueFalse:
		return json.Marshal(a.value)
	case TypeFill:
		return json.Marshal(a.text)
	}
	return []byte("null"), nil
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("answer index %v is not an integer", v)
		}
		*a = Choice(int(v))
	case bool:
		*a = TrueFalse(v)
	case string:
		*a = Text(v)
	default:
		return fmt.Errorf("unsupported answer value %s", data)
	}
	return nil
}

var folder = cases.Fold()

// NormalizeText folds case, composes accents and collapses whitespace so
// that "  Ha  Noi" and "ha noi" compare equal.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Check reports whether response answers q correctly. A response of the
// wrong kind is simply wrong.
func Check(q Question, response Answer) bool {
	switch q.Type {
	case TypeMultipleChoice:
		want, _ := q.Correct.Index()
		got, ok := response.Index()
		return ok && got == want
	case TypeTrueFalse:
		want, _ := q.Correct.Bool()
		got, ok := response.Bool()
		return ok && got == want
	case TypeFill:
		want, _ := q.Correct.Text()
		got, ok := response.Text()
		return ok && NormalizeText(got) == NormalizeText(want)
	}
	return false
}

// ParseResponse reads a typed-in response for q. Multiple-choice accepts a
// letter (a, b, ...) or a 1-based number; true/false accepts t/f, true/false,
// yes/no.
func ParseResponse(q Question, raw string) (Answer, error) {
	s := strings.TrimSpace(raw)
	switch q.Type {
	case TypeMultipleChoice:
		if len(s) == 1 {
			c := strings.ToLower(s)[0]
			if c >= 'a' && c <= 'z' {
				return Choice(int(c - 'a')), nil
			}
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return Answer{}, fmt.Errorf("choose an option letter or number, got %q", raw)
		}
		return Choice(n - 1), nil
	case TypeTrueFalse:
		switch strings.ToLower(s) {
		case "t", "true", "y", "yes", "1", "đúng":
			return TrueFalse(true), nil
		case "f", "false", "n", "no", "0", "sai":
			return TrueFalse(false), nil
		}
		return Answer{}, fmt.Errorf("answer true or false, got %q", raw)
	case TypeFill:
		return Text(raw), nil
	}
	return Answer{}, fmt.Errorf("unknown question type %q", q.Type)
}
