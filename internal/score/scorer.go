// Package score turns verified claims and entities into the overall
// credibility score. The calculation is pure and deterministic: same inputs,
// same score, no clock, no randomness.
package score

import (
	"math"

	"github.com/ppiankov/veracity/internal/model"
)

// Scorer computes the 0-100 credibility score.
type Scorer struct {
	cfg model.ScoreConfig
}

// NewScorer creates a scorer with the given penalty configuration.
func NewScorer(cfg model.ScoreConfig) *Scorer {
	def := model.DefaultConfig().Score
	if cfg.UnverifiablePenalty <= 0 {
		cfg.UnverifiablePenalty = def.UnverifiablePenalty
	}
	if cfg.ContradictedPenalty <= 0 {
		cfg.ContradictedPenalty = def.ContradictedPenalty
	}
	if cfg.StylePenalty <= 0 {
		cfg.StylePenalty = def.StylePenalty
	}
	if cfg.EntityPenalty <= 0 {
		cfg.EntityPenalty = def.EntityPenalty
	}
	if cfg.EntityPenaltyCap <= 0 {
		cfg.EntityPenaltyCap = def.EntityPenaltyCap
	}
	return &Scorer{cfg: cfg}
}

// Calculate starts at 100 and deducts per issue, scaled by claim confidence
// so weak pattern matches cost less than strong ones. Unresolved entity
// deductions are capped so a name-dense text cannot zero the score on its
// own. The result is clamped to [0,100] and rounded.
func (s *Scorer) Calculate(claims []model.Claim, entities []model.Entity) int {
	score := 100.0

	for _, c := range claims {
		for _, issue := range c.Issues {
			switch issue {
			case model.IssueUnverifiable:
				score -= s.cfg.UnverifiablePenalty * c.Confidence
			case model.IssueContradicted:
				score -= s.cfg.ContradictedPenalty * c.Confidence
			default:
				score -= s.cfg.StylePenalty * c.Confidence
			}
		}
	}

	entityDeduction := 0.0
	for _, e := range entities {
		if e.Resolvable() && e.Description == nil {
			entityDeduction += s.cfg.EntityPenalty
		}
	}
	score -= math.Min(entityDeduction, s.cfg.EntityPenaltyCap)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}
