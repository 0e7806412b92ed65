package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/abhisek/eduquiz/internal/errs"
)

// ErrRateLimit indicates the provider throttled the request (429).
// RetryAfter is zero when the provider did not say.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrQuota indicates the account behind the key has no credit left (402).
type ErrQuota struct {
	Err error
}

func (e *ErrQuota) Error() string {
	return fmt.Sprintf("LLM account is out of credit: %v", e.Err)
}

func (e *ErrQuota) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the reply was missing, refused, blocked, or
// did not conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates a structured reply was cut off at
// MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrAuth indicates the provider rejected the API key (401/403).
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("LLM provider rejected credentials: %v", e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// fromStatus maps an HTTP status from any provider SDK onto this
// package's error types. header may be nil.
func fromStatus(code int, header http.Header, err error) error {
	switch {
	case code == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(header, time.Now()), Err: err}
	case code == http.StatusPaymentRequired:
		return &ErrQuota{Err: err}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &ErrAuth{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// retryAfter reads a Retry-After header given either in seconds or as an
// HTTP date.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// kindOf places a provider failure in the errs taxonomy. Rate limits
// count as quota: once retries are spent the learner's key is exhausted
// for now.
func kindOf(err error) errs.ProviderKind {
	if prov, ok := errs.AsProvider(err); ok {
		return prov.Kind
	}
	var (
		rl      *ErrRateLimit
		quota   *ErrQuota
		auth    *ErrAuth
		invalid *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &rl), errors.As(err, &quota):
		return errs.ProviderQuota
	case errors.As(err, &auth):
		return errs.ProviderCredential
	case errors.As(err, &invalid), errors.As(err, &maxTok):
		return errs.ProviderMalformed
	}
	return errs.ProviderTransient
}

// Classify normalizes a provider failure into an *errs.ProviderError so
// that callers outside this package never branch on SDK error types.
// A nil err returns nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if prov, ok := errs.AsProvider(err); ok {
		return prov
	}
	return &errs.ProviderError{Kind: kindOf(err), Op: op, Err: err}
}
