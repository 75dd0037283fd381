package ner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// NewRecognizer selects a recognizer per configuration. "regex" forces the
// fallback variant; "openai" (or "" with an API key present) builds the
// model-backed variant wrapped so inference failures degrade to regex. An
// unreachable endpoint at init also degrades rather than aborting.
func NewRecognizer(ctx context.Context, cfg model.RecognizerConfig) Recognizer {
	regex := NewRegexRecognizer()

	provider := strings.ToLower(cfg.Provider)
	if provider == "regex" || (provider == "" && cfg.APIKey == "") {
		return regex
	}

	primary, err := NewOpenAIRecognizer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: model-backed recognizer unavailable (%v), using regex\n", err)
		return regex
	}
	if !primary.IsAvailable(ctx) {
		fmt.Fprintf(os.Stderr, "Warning: model endpoint not reachable, using regex recognizer\n")
		return regex
	}

	return WithFallback(primary, regex)
}
