package ner

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/veracity/internal/model"
)

func TestDedupe_CollapsesAcrossSentences(t *testing.T) {
	entities := []model.Entity{
		{Text: "Acme Corp", Canonical: "acme corp", Label: model.LabelOrg, Start: 10, End: 19},
		{Text: "ACME  Corp", Canonical: "acme corp", Label: model.LabelOrg, Start: 50, End: 60},
		{Text: "Acme Corp", Canonical: "acme corp", Label: model.LabelMisc, Start: 80, End: 89},
	}

	out := Dedupe(entities)

	if len(out) != 2 {
		t.Fatalf("Expected 2 entities after dedupe, got %d", len(out))
	}
	// first occurrence's span is kept for attribution
	if out[0].Start != 10 {
		t.Errorf("Expected first occurrence span kept, got start=%d", out[0].Start)
	}
}

func TestDedupe_FillsMissingCanonical(t *testing.T) {
	out := Dedupe([]model.Entity{{Text: " Jane  Goodall ", Label: model.LabelPerson}})

	if len(out) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(out))
	}
	if out[0].Canonical != "jane goodall" {
		t.Errorf("Expected canonical 'jane goodall', got %q", out[0].Canonical)
	}
}

type stubRecognizer struct {
	name     string
	entities []model.Entity
	err      error
	calls    int
}

func (s *stubRecognizer) Name() string { return s.name }

func (s *stubRecognizer) Recognize(_ context.Context, _ []model.Sentence) ([]model.Entity, error) {
	s.calls++
	return s.entities, s.err
}

func TestWithFallback_PrimarySucceeds(t *testing.T) {
	primary := &stubRecognizer{name: "primary", entities: []model.Entity{{Text: "X", Canonical: "x", Label: model.LabelMisc}}}
	fallback := &stubRecognizer{name: "fallback"}

	r := WithFallback(primary, fallback)
	entities, err := r.Recognize(context.Background(), nil)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entities) != 1 {
		t.Errorf("Expected primary entities, got %d", len(entities))
	}
	if fallback.calls != 0 {
		t.Errorf("Expected fallback not called, got %d calls", fallback.calls)
	}
}

func TestWithFallback_DegradesOnError(t *testing.T) {
	primary := &stubRecognizer{name: "primary", err: errors.New("model offline")}
	fallback := &stubRecognizer{name: "fallback", entities: []model.Entity{{Text: "Y", Canonical: "y", Label: model.LabelMisc}}}

	r := WithFallback(primary, fallback)
	entities, err := r.Recognize(context.Background(), nil)

	if err != nil {
		t.Fatalf("Expected degraded recognition without error, got %v", err)
	}
	if len(entities) != 1 || entities[0].Canonical != "y" {
		t.Errorf("Expected fallback entities, got %+v", entities)
	}
}

func TestParseEntityReply_CodeFenceAndUnknownLabel(t *testing.T) {
	sentences := []model.Sentence{{Text: "Acme Corp grew fast.", Start: 0, End: 20}}
	reply := "```json\n[{\"text\": \"Acme Corp\", \"label\": \"COMPANY\"}]\n```"

	entities, err := parseEntityReply(reply, sentences)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(entities))
	}
	if entities[0].Label != model.LabelMisc {
		t.Errorf("Expected unknown label mapped to MISC, got %s", entities[0].Label)
	}
	if entities[0].Start != 0 || entities[0].End != 9 {
		t.Errorf("Expected span [0,9), got [%d,%d)", entities[0].Start, entities[0].End)
	}
}

func TestParseEntityReply_Garbage(t *testing.T) {
	if _, err := parseEntityReply("the model rambled instead of emitting JSON", nil); err == nil {
		t.Error("Expected error for non-JSON reply")
	}
}
