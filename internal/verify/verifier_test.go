package verify

import (
	"context"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/knowledge"
	"github.com/ppiankov/veracity/internal/model"
)

type fakeLookuper struct {
	pages    map[string]*knowledge.Result
	delay    time.Duration
	jitter   time.Duration
	calls    atomic.Int32
	notFound atomic.Int32
}

func (f *fakeLookuper) Lookup(ctx context.Context, query string) (*knowledge.Result, error) {
	f.calls.Add(1)
	wait := f.delay
	if f.jitter > 0 {
		wait += time.Duration(rand.Int63n(int64(f.jitter)))
	}
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if res, ok := f.pages[query]; ok {
		return res, nil
	}
	f.notFound.Add(1)
	return nil, knowledge.ErrNotFound
}

func (f *fakeLookuper) SourceName() string { return "TestPedia" }

func testConfig() model.VerifyConfig {
	return model.VerifyConfig{
		Workers:            4,
		LookupTimeout:      time.Second,
		Budget:             5 * time.Second,
		RelevanceThreshold: 0.3,
	}
}

func goodallPage() *knowledge.Result {
	return &knowledge.Result{
		Title:   "Jane Goodall",
		Extract: "Jane Goodall reported decades of research in Gombe: chimpanzees used tools for 45 years.",
		URL:     "https://example.org/Jane_Goodall",
	}
}

func TestVerify_CorroboratedClaim(t *testing.T) {
	source := &fakeLookuper{pages: map[string]*knowledge.Result{"Jane Goodall": goodallPage()}}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	claims := []model.Claim{{Text: "Jane Goodall reported that chimpanzees used tools for 45 years.", Confidence: 0.8}}
	res := v.Verify(context.Background(), claims, nil)

	if len(res.Claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(res.Claims))
	}
	if res.Claims[0].Flagged() {
		t.Errorf("Expected corroborated claim unflagged, got issues %v", res.Claims[0].Issues)
	}
	if len(res.Sources) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(res.Sources))
	}
	if res.Sources[0].SourceName != "TestPedia" {
		t.Errorf("Expected source name 'TestPedia', got %q", res.Sources[0].SourceName)
	}
	if res.Sources[0].Relevance <= 0 {
		t.Errorf("Expected positive relevance, got %f", res.Sources[0].Relevance)
	}
}

func TestVerify_UnverifiableClaim(t *testing.T) {
	source := &fakeLookuper{pages: map[string]*knowledge.Result{}}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	claims := []model.Claim{{Text: "The ocean covers most of the planet surface area today.", Confidence: 0.5}}
	res := v.Verify(context.Background(), claims, nil)

	c := res.Claims[0]
	if len(c.Issues) == 0 || c.Issues[0] != model.IssueUnverifiable {
		t.Fatalf("Expected unverifiable issue first, got %v", c.Issues)
	}
	if c.Suggestion != model.SuggestionCitePrimary {
		t.Errorf("Expected primary-source suggestion, got %q", c.Suggestion)
	}
	if len(res.Sources) != 0 {
		t.Errorf("Expected no sources for a failed lookup, got %d", len(res.Sources))
	}
}

func TestVerify_ContradictedClaim(t *testing.T) {
	page := goodallPage()
	page.Extract = "Jane Goodall reported decades of research in Gombe: chimpanzees used tools for 62 years."
	source := &fakeLookuper{pages: map[string]*knowledge.Result{"Jane Goodall": page}}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	claims := []model.Claim{{Text: "Jane Goodall reported that chimpanzees used tools for 45 years.", Confidence: 0.8}}
	res := v.Verify(context.Background(), claims, nil)

	c := res.Claims[0]
	if len(c.Issues) == 0 || c.Issues[0] != model.IssueContradicted {
		t.Fatalf("Expected contradiction issue, got %v", c.Issues)
	}
	if c.Suggestion != model.SuggestionCitePrimary {
		t.Errorf("Expected primary-source suggestion, got %q", c.Suggestion)
	}
}

func TestVerify_StyleIssuesOnRelevantClaim(t *testing.T) {
	page := goodallPage()
	source := &fakeLookuper{pages: map[string]*knowledge.Result{"Jane Goodall": page}}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	claims := []model.Claim{{Text: "Jane Goodall always studied chimpanzees using tools in Gombe.", Confidence: 0.6}}
	res := v.Verify(context.Background(), claims, nil)

	c := res.Claims[0]
	if !hasIssue(c, model.IssueAbsolute) {
		t.Errorf("Expected absolute-statement issue, got %v", c.Issues)
	}
	if !hasIssue(c, model.IssueNoAttribution) {
		t.Errorf("Expected attribution issue, got %v", c.Issues)
	}
	if hasIssue(c, model.IssueUnverifiable) {
		t.Errorf("Relevant claim must not be unverifiable: %v", c.Issues)
	}
	if c.Suggestion != model.SuggestionQualify {
		t.Errorf("Expected qualify suggestion for style-only issues, got %q", c.Suggestion)
	}
}

func TestVerify_TimeoutMarksUnverified(t *testing.T) {
	cfg := testConfig()
	cfg.LookupTimeout = 30 * time.Millisecond
	cfg.Budget = 200 * time.Millisecond

	source := &fakeLookuper{
		pages: map[string]*knowledge.Result{"Jane Goodall": goodallPage()},
		delay: 5 * time.Second,
	}
	v := NewVerifier(source, cache.NewMemory(time.Minute), cfg)

	start := time.Now()
	res := v.Verify(context.Background(), []model.Claim{{Text: "Jane Goodall reported new findings this March.", Confidence: 0.7}}, nil)
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Fatalf("Verify did not respect its budget, took %v", elapsed)
	}
	if !hasIssue(res.Claims[0], model.IssueUnverifiable) {
		t.Errorf("Expected timed-out claim marked unverifiable, got %v", res.Claims[0].Issues)
	}
}

func TestVerify_OrderIndependentOfCompletion(t *testing.T) {
	pages := map[string]*knowledge.Result{"Jane Goodall": goodallPage()}
	source := &fakeLookuper{pages: pages, jitter: 30 * time.Millisecond}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	claims := []model.Claim{
		{Text: "Jane Goodall reported that chimpanzees used tools for 45 years.", Confidence: 0.8},
		{Text: "The ocean covers most of the planet surface area today.", Confidence: 0.5},
		{Text: "Jane Goodall reported research in Gombe over 45 years.", Confidence: 0.6},
	}

	for run := 0; run < 3; run++ {
		res := v.Verify(context.Background(), claims, nil)
		for i := range claims {
			if res.Claims[i].Text != claims[i].Text {
				t.Fatalf("Run %d: claim order changed at %d: %q", run, i, res.Claims[i].Text)
			}
		}
		if res.Claims[0].Flagged() {
			t.Errorf("Run %d: corroborated claim flagged: %v", run, res.Claims[0].Issues)
		}
		if !hasIssue(res.Claims[1], model.IssueUnverifiable) {
			t.Errorf("Run %d: expected claim 1 unverifiable", run)
		}
	}
}

func TestVerify_CacheDedupesLookups(t *testing.T) {
	source := &fakeLookuper{pages: map[string]*knowledge.Result{"Jane Goodall": goodallPage()}}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	claims := []model.Claim{{Text: "Jane Goodall reported that chimpanzees used tools for 45 years.", Confidence: 0.8}}

	v.Verify(context.Background(), claims, nil)
	first := source.calls.Load()
	v.Verify(context.Background(), claims, nil)

	if source.calls.Load() != first {
		t.Errorf("Expected cached query not re-fetched: %d then %d calls", first, source.calls.Load())
	}
}

func TestVerify_NotFoundIsCached(t *testing.T) {
	source := &fakeLookuper{pages: map[string]*knowledge.Result{}}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	claims := []model.Claim{{Text: "The ocean covers most of the planet surface area today.", Confidence: 0.5}}

	v.Verify(context.Background(), claims, nil)
	v.Verify(context.Background(), claims, nil)

	if source.calls.Load() != 1 {
		t.Errorf("Expected not-found cached after first lookup, got %d calls", source.calls.Load())
	}
}

func TestVerify_EntityResolution(t *testing.T) {
	source := &fakeLookuper{pages: map[string]*knowledge.Result{"Jane Goodall": goodallPage()}}
	v := NewVerifier(source, cache.NewMemory(time.Minute), testConfig())

	entities := []model.Entity{
		{Text: "Jane Goodall", Canonical: "jane goodall", Label: model.LabelPerson},
		{Text: "2023", Canonical: "2023", Label: model.LabelDate},
	}
	res := v.Verify(context.Background(), nil, entities)

	if res.Entities[0].Description == nil {
		t.Fatal("Expected resolved entity to carry a description")
	}
	if !strings.Contains(*res.Entities[0].Description, "Jane Goodall") {
		t.Errorf("Unexpected description %q", *res.Entities[0].Description)
	}
	if res.Entities[1].Description != nil {
		t.Error("Expected DATE entity left unresolved")
	}
	if source.calls.Load() != 1 {
		t.Errorf("Expected DATE entity not looked up, got %d calls", source.calls.Load())
	}
}

func hasIssue(c model.Claim, issue string) bool {
	for _, i := range c.Issues {
		if i == issue {
			return true
		}
	}
	return false
}
