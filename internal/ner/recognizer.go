package ner

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/veracity/internal/model"
)

// Recognizer detects named entities in segmented text. Implementations are
// selected at initialization time; the pipeline never inspects which one it
// got beyond the Name.
type Recognizer interface {
	// Name returns the recognizer name.
	Name() string

	// Recognize returns entities with spans, surface text, canonical form
	// and label. Descriptions are left unset; the verifier fills them.
	Recognize(ctx context.Context, sentences []model.Sentence) ([]model.Entity, error)
}

// Dedupe collapses entities sharing (canonical form, label), keeping the
// first occurrence's surface text and span for attribution.
func Dedupe(entities []model.Entity) []model.Entity {
	seen := make(map[string]bool, len(entities))
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Canonical == "" {
			e.Canonical = model.Canonicalize(e.Text)
		}
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// fallbackRecognizer degrades to a secondary recognizer when the primary
// fails at inference time. Degraded recognition is a stderr warning, never
// a caller-visible error.
type fallbackRecognizer struct {
	primary  Recognizer
	fallback Recognizer
}

// WithFallback wraps primary so inference failures fall through to fallback.
func WithFallback(primary, fallback Recognizer) Recognizer {
	return &fallbackRecognizer{primary: primary, fallback: fallback}
}

func (f *fallbackRecognizer) Name() string {
	return f.primary.Name()
}

func (f *fallbackRecognizer) Recognize(ctx context.Context, sentences []model.Sentence) ([]model.Entity, error) {
	entities, err := f.primary.Recognize(ctx, sentences)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s recognizer failed (%v), falling back to %s\n",
			f.primary.Name(), err, f.fallback.Name())
		return f.fallback.Recognize(ctx, sentences)
	}
	return entities, nil
}
