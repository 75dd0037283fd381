// Package report assembles the external report from verified pipeline
// output and renders it as JSON or a terminal summary.
package report

import (
	"sort"

	"github.com/ppiankov/veracity/internal/model"
)

// Assembler builds the final report. It is pure: filtering, sorting and
// truncation only, no I/O.
type Assembler struct {
	cfg model.ReportConfig
}

// NewAssembler creates an assembler.
func NewAssembler(cfg model.ReportConfig) *Assembler {
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = 10
	}
	return &Assembler{cfg: cfg}
}

// Assemble produces the report: flagged claims sorted by severity, entities
// as verified, sources deduped by URL and ranked by relevance. Collections
// are never nil so they serialize as [] rather than null.
func (a *Assembler) Assemble(score int, claims []model.Claim, entities []model.Entity, sources []model.Source) *model.Report {
	flagged := []model.Claim{}
	for _, c := range claims {
		if c.Flagged() {
			flagged = append(flagged, c)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		if len(flagged[i].Issues) != len(flagged[j].Issues) {
			return len(flagged[i].Issues) > len(flagged[j].Issues)
		}
		return flagged[i].Confidence > flagged[j].Confidence
	})

	if entities == nil {
		entities = []model.Entity{}
	}

	return &model.Report{
		OverallScore:    score,
		FlaggedClaims:   flagged,
		Entities:        entities,
		CredibleSources: a.rankSources(sources),
	}
}

// rankSources dedupes by URL (highest relevance wins), sorts by relevance
// descending and truncates to the configured maximum.
func (a *Assembler) rankSources(sources []model.Source) []model.Source {
	best := make(map[string]model.Source)
	order := []string{}
	for _, s := range sources {
		if s.URL == "" {
			continue
		}
		prev, seen := best[s.URL]
		if !seen {
			order = append(order, s.URL)
		}
		if !seen || s.Relevance > prev.Relevance {
			best[s.URL] = s
		}
	}

	ranked := make([]model.Source, 0, len(order))
	for _, u := range order {
		ranked = append(ranked, best[u])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})

	if len(ranked) > a.cfg.MaxSources {
		ranked = ranked[:a.cfg.MaxSources]
	}
	return ranked
}
