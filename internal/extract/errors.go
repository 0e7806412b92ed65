package extract

import (
	"errors"
	"fmt"

	"github.com/abhisek/eduquiz/internal/errs"
)

// Kind classifies extraction failures.
type Kind string

const (
	KindPasswordRequired Kind = "password-required"
	KindInvalidDocument  Kind = "invalid-document"
	KindEmpty            Kind = "extraction-empty"
	KindToolMissing      Kind = "tool-missing"
)

// providerKinds maps extraction failures onto the shared provider taxonomy.
// A PDF password is the document's credential.
var providerKinds = map[Kind]errs.ProviderKind{
	KindPasswordRequired: errs.ProviderCredential,
	KindInvalidDocument:  errs.ProviderMalformed,
	KindEmpty:            errs.ProviderMalformed,
	KindToolMissing:      errs.ProviderTransient,
}

// ExtractError reports why a document yielded no text.
type ExtractError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// asProvider wraps an ExtractError in err as an *errs.ProviderError. Other
// errors, and errors already normalized, pass through.
func asProvider(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errs.AsProvider(err); ok {
		return err
	}
	var xe *ExtractError
	if !errors.As(err, &xe) {
		return err
	}
	kind, ok := providerKinds[xe.Kind]
	if !ok {
		kind = errs.ProviderMalformed
	}
	return &errs.ProviderError{Kind: kind, Op: "extract text", Err: err}
}
