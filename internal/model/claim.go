package model

import (
	"encoding/json"
	"math"
)

// Claim represents a candidate factual assertion extracted from one sentence.
// Issues and Suggestion are empty at extraction time and populated by the
// verifier; a claim with at least one issue is "flagged".
type Claim struct {
	Text       string   // the claim text itself
	Sentence   int      // source sentence index (0-based)
	Confidence float64  // heuristic match strength in [0,1]
	Issues     []string // verification issues, in the order they were found
	Suggestion string   // human-readable remediation hint
}

// Verification issues attached to claims. The scorer keys penalties off
// these exact strings, so they are constants rather than free text.
const (
	IssueUnverifiable  = "unverifiable: no corroborating source found"
	IssueContradicted  = "contradicts known data"
	IssueAbsolute      = "contains absolute statement"
	IssueVague         = "contains vague quantifiers"
	IssueNoAttribution = "no clear source attribution"
)

// Suggestions paired with the issues above.
const (
	SuggestionCitePrimary = "consider citing a primary source for this claim"
	SuggestionQualify     = "consider adding sources or qualifying statements"
)

// Flagged reports whether verification attached any issues.
func (c Claim) Flagged() bool {
	return len(c.Issues) > 0
}

// MarshalJSON serializes a claim in the external report contract:
// confidence becomes a 0-100 integer and issues is never null.
func (c Claim) MarshalJSON() ([]byte, error) {
	issues := c.Issues
	if issues == nil {
		issues = []string{}
	}
	return json.Marshal(struct {
		Text       string   `json:"text"`
		Issues     []string `json:"issues"`
		Confidence int      `json:"confidence"`
		Suggestion string   `json:"suggestion"`
	}{
		Text:       c.Text,
		Issues:     issues,
		Confidence: int(math.Round(c.Confidence * 100)),
		Suggestion: c.Suggestion,
	})
}
