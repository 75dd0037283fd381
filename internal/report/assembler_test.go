package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ppiankov/veracity/internal/model"
)

func TestAssemble_FlaggedClaimsSorted(t *testing.T) {
	claims := []model.Claim{
		{Text: "clean", Confidence: 0.9},
		{Text: "one issue weak", Confidence: 0.3, Issues: []string{model.IssueVague}},
		{Text: "two issues", Confidence: 0.5, Issues: []string{model.IssueUnverifiable, model.IssueAbsolute}},
		{Text: "one issue strong", Confidence: 0.8, Issues: []string{model.IssueVague}},
	}

	r := NewAssembler(model.ReportConfig{MaxSources: 10}).Assemble(77, claims, nil, nil)

	if len(r.FlaggedClaims) != 3 {
		t.Fatalf("Expected 3 flagged claims, got %d", len(r.FlaggedClaims))
	}
	want := []string{"two issues", "one issue strong", "one issue weak"}
	for i, w := range want {
		if r.FlaggedClaims[i].Text != w {
			t.Errorf("Position %d: expected %q, got %q", i, w, r.FlaggedClaims[i].Text)
		}
	}
	if r.OverallScore != 77 {
		t.Errorf("Expected score passed through, got %d", r.OverallScore)
	}
}

func TestAssemble_SourcesDedupedAndRanked(t *testing.T) {
	sources := []model.Source{
		{Title: "A", URL: "https://x/a", Relevance: 0.4},
		{Title: "B", URL: "https://x/b", Relevance: 0.9},
		{Title: "A again", URL: "https://x/a", Relevance: 0.7},
		{Title: "no url", Relevance: 1.0},
	}

	r := NewAssembler(model.ReportConfig{MaxSources: 10}).Assemble(100, nil, nil, sources)

	if len(r.CredibleSources) != 2 {
		t.Fatalf("Expected 2 deduped sources, got %d", len(r.CredibleSources))
	}
	if r.CredibleSources[0].URL != "https://x/b" {
		t.Errorf("Expected highest relevance first, got %q", r.CredibleSources[0].URL)
	}
	if r.CredibleSources[1].Title != "A again" {
		t.Errorf("Expected duplicate URL to keep the higher-relevance entry, got %q", r.CredibleSources[1].Title)
	}
}

func TestAssemble_SourcesTruncated(t *testing.T) {
	var sources []model.Source
	for i := 0; i < 15; i++ {
		sources = append(sources, model.Source{
			Title:     "t",
			URL:       "https://x/" + strings.Repeat("a", i+1),
			Relevance: float64(i) / 15,
		})
	}

	r := NewAssembler(model.ReportConfig{MaxSources: 10}).Assemble(100, nil, nil, sources)

	if len(r.CredibleSources) != 10 {
		t.Errorf("Expected truncation to 10 sources, got %d", len(r.CredibleSources))
	}
}

func TestAssemble_NeverNullCollections(t *testing.T) {
	r := NewAssembler(model.ReportConfig{}).Assemble(100, nil, nil, nil)

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Expected marshal to succeed, got %v", err)
	}
	s := string(b)
	for _, key := range []string{`"flagged_claims":[]`, `"entities":[]`, `"credible_sources":[]`} {
		if !strings.Contains(s, key) {
			t.Errorf("Expected %s in output, got %s", key, s)
		}
	}
}

func TestWriteJSON_Contract(t *testing.T) {
	desc := "An English primatologist."
	report := NewAssembler(model.ReportConfig{MaxSources: 10}).Assemble(
		82,
		[]model.Claim{{Text: "c", Confidence: 0.75, Issues: []string{model.IssueVague}, Suggestion: model.SuggestionQualify}},
		[]model.Entity{
			{Text: "Jane Goodall", Label: model.LabelPerson, Description: &desc},
			{Text: "Acme Corp", Label: model.LabelOrg},
		},
		[]model.Source{{Title: "T", URL: "https://x", Snippet: "s", SourceName: "Wikipedia", Relevance: 0.8}},
	)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}

	claims := decoded["flagged_claims"].([]any)
	claim := claims[0].(map[string]any)
	if claim["confidence"] != float64(75) {
		t.Errorf("Expected confidence 75, got %v", claim["confidence"])
	}

	ents := decoded["entities"].([]any)
	if ents[0].(map[string]any)["description"] != "An English primatologist." {
		t.Errorf("Expected resolved description, got %v", ents[0])
	}
	if desc, present := ents[1].(map[string]any)["description"]; !present || desc != nil {
		t.Errorf("Expected unresolved description serialized as null, got %v", ents[1])
	}

	src := decoded["credible_sources"].([]any)[0].(map[string]any)
	if src["source"] != "Wikipedia" {
		t.Errorf("Expected source name under 'source', got %v", src)
	}
	if _, leaked := src["relevance"]; leaked {
		t.Error("Relevance must not appear in the external contract")
	}
}

func TestWriteSummary(t *testing.T) {
	report := &model.Report{
		OverallScore: 42,
		FlaggedClaims: []model.Claim{
			{Text: "The economy always grows.", Confidence: 0.7, Issues: []string{model.IssueAbsolute}},
		},
		Entities:        []model.Entity{},
		CredibleSources: []model.Source{{Title: "T", URL: "https://x", SourceName: "Wikipedia"}},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "42/100") {
		t.Errorf("Expected score in summary, got %s", out)
	}
	if !strings.Contains(out, "low credibility") {
		t.Errorf("Expected verdict in summary, got %s", out)
	}
	if !strings.Contains(out, model.IssueAbsolute) {
		t.Errorf("Expected issue listed, got %s", out)
	}
	if !strings.Contains(out, "https://x") {
		t.Errorf("Expected source URL listed, got %s", out)
	}
}
