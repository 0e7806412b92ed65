package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/extract"
	"github.com/abhisek/eduquiz/internal/logger"
)

const (
	keyHint = "Set EDUQUIZ_<PROVIDER>_API_KEY (or ANTHROPIC_API_KEY, OPENAI_API_KEY, " +
		"GEMINI_API_KEY, OPENROUTER_API_KEY) to a valid key and try again."
	quotaHint = "The provider reports no remaining quota or credit. " +
		"Top up the account or switch to another key with EDUQUIZ_<PROVIDER>_API_KEY."
)

// reportError prints err for the learner. Invariant violations are also
// logged at error level since they point at a bug, not bad input.
func reportError(w io.Writer, log *logger.Logger, command string, err error) {
	if errs.IsInternal(err) {
		log.Error("invariant violated", "command", command, "error", err)
		fmt.Fprintf(w, "Internal error: %v\nThis is a bug; your saved progress is unchanged.\n", err)
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	prov, ok := errs.AsProvider(err)
	if !ok || !prov.NeedsCredential() {
		return
	}
	var xe *extract.ExtractError
	switch {
	case errors.As(err, &xe):
		// Password hints are part of the message already.
	case prov.Kind == errs.ProviderQuota:
		fmt.Fprintln(w, quotaHint)
	default:
		fmt.Fprintln(w, keyHint)
	}
}

// errorLogger follows the --log flag when it parsed, else the quiet default.
func errorLogger(mode string) *logger.Logger {
	if mode == "" {
		mode = "quiet"
	}
	log, err := logger.New(mode)
	if err != nil {
		return logger.Nop()
	}
	return log
}
