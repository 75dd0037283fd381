package model

// Report is the credibility assessment for one block of article text.
// It is the sole externally visible artifact of an analysis run; callers
// interpret OverallScore thresholds (>=80 good, 60-79 caution, <60 poor)
// but gating is entirely theirs.
type Report struct {
	OverallScore    int      `json:"overall_score"`
	FlaggedClaims   []Claim  `json:"flagged_claims"`
	Entities        []Entity `json:"entities"`
	CredibleSources []Source `json:"credible_sources"`
}

// EmptyReport is the report for input with nothing to analyze: a perfect
// score and empty (never null) collections.
func EmptyReport() *Report {
	return &Report{
		OverallScore:    100,
		FlaggedClaims:   []Claim{},
		Entities:        []Entity{},
		CredibleSources: []Source{},
	}
}
