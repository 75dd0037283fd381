package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/veracity/internal/model"
)

// ClaimExtractor filters sentences into claim candidates using lexical
// heuristics. A sentence qualifies when it carries a numeric quantity, an
// assertive verb pattern with a subject, or an entity-bearing assertion;
// opinion-marked sentences are excluded.
type ClaimExtractor struct {
	assertive []string
	hedges    []string
}

// NewClaimExtractor creates a new claim extractor.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		assertive: []string{
			"announced", "reported", "confirmed", "caused", "said",
			"claimed", "according to", "revealed", "stated", "found",
			"showed", "discovered", "estimated", "launched", "acquired",
			"increased", "decreased", "published", "established", "founded",
		},
		hedges: []string{
			"might", "could", "may ", "maybe", "perhaps", "possibly",
			"i think", "i believe", "i feel", "in my opinion", "arguably",
			"seems", "appears to",
		},
	}
}

// minClaimLength filters out fragments too short to assert anything.
const minClaimLength = 20

var (
	digitRe = regexp.MustCompile(`\d`)
	// "us"/"me" are omitted: lowercased acronyms like "US" collide
	firstPersonRe = regexp.MustCompile(`(?i)\b(i|we|my|our)\b`)
	copulaRe      = regexp.MustCompile(`(?i)\b(is|are|was|were|will|has|have|had)\b`)
)

// Extract returns at most one claim per sentence, in sentence order, with
// confidence initialized and issues/suggestion left empty for the verifier.
func (e *ClaimExtractor) Extract(sentences []model.Sentence) []model.Claim {
	var claims []model.Claim
	for i, sent := range sentences {
		text := strings.TrimSpace(sent.Text)
		if utf8.RuneCountInString(text) < minClaimLength {
			continue
		}

		lower := strings.ToLower(text)
		if e.isOpinion(lower) {
			continue
		}

		confidence := e.confidence(text, lower)
		if confidence <= 0 {
			continue
		}

		claims = append(claims, model.Claim{
			Text:       text,
			Sentence:   i,
			Confidence: confidence,
		})
	}
	return claims
}

// isOpinion reports first-person or hedged sentences, which are never
// claim candidates.
func (e *ClaimExtractor) isOpinion(lower string) bool {
	if firstPersonRe.MatchString(lower) {
		return true
	}
	for _, hedge := range e.hedges {
		if strings.Contains(lower, hedge) {
			return true
		}
	}
	return false
}

// confidence scores how strongly a sentence matches factual-claim patterns.
// Zero means the sentence is not a candidate.
func (e *ClaimExtractor) confidence(text, lower string) float64 {
	hasNumber := digitRe.MatchString(lower)
	hasSubject := hasCapitalizedSubject(text)

	assertive := false
	for _, verb := range e.assertive {
		if strings.Contains(lower, verb) {
			assertive = true
			break
		}
	}

	score := 0.0
	if hasNumber {
		score += 0.35
	}
	if assertive {
		score += 0.30
	}
	if hasSubject && (assertive || copulaRe.MatchString(lower)) {
		// entity-bearing assertion
		score += 0.20
	}
	if strings.Contains(lower, "according to") || strings.Contains(lower, "study") ||
		strings.Contains(lower, "research") {
		score += 0.15
	}

	if score == 0 {
		return 0
	}
	// assertive verbs alone, with no subject and no number, stay below the bar
	if !hasNumber && !hasSubject {
		return 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// hasCapitalizedSubject reports a capitalized token beyond the first word,
// a cheap stand-in for a named subject.
func hasCapitalizedSubject(text string) bool {
	fields := strings.Fields(text)
	for i, f := range fields {
		if i == 0 {
			continue // sentence-initial capitalization is not a signal
		}
		r, _ := utf8.DecodeRuneInString(f)
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
