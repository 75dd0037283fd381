package ner

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/veracity/internal/model"
)

// RegexRecognizer is the dependency-free fallback: capitalized-run
// heuristics for PERSON/ORG/GPE, pattern matching for DATE/NUMBER. It never
// fails, which makes it the safety net behind the model-backed variant.
type RegexRecognizer struct{}

// NewRegexRecognizer creates the regex-fallback recognizer.
func NewRegexRecognizer() *RegexRecognizer {
	return &RegexRecognizer{}
}

// Name returns the recognizer name.
func (r *RegexRecognizer) Name() string {
	return "regex"
}

// orgSuffixes mark a capitalized run as an organization.
var orgSuffixes = map[string]bool{
	"inc": true, "corp": true, "ltd": true, "llc": true, "co": true,
	"company": true, "corporation": true, "group": true, "university": true,
	"institute": true, "agency": true, "ministry": true, "department": true,
	"association": true, "bank": true, "commission": true, "committee": true,
	"council": true, "organization": true, "foundation": true,
}

// places is a coarse gazetteer for GPE labeling.
var places = map[string]bool{
	"united states": true, "china": true, "india": true, "russia": true,
	"germany": true, "france": true, "uk": true, "britain": true,
	"japan": true, "malaysia": true, "indonesia": true, "thailand": true,
	"canada": true, "australia": true, "brazil": true, "mexico": true,
	"spain": true, "italy": true, "london": true, "paris": true,
	"beijing": true, "tokyo": true, "moscow": true, "washington": true,
	"new york": true, "california": true, "europe": true, "asia": true,
	"africa": true,
}

// leadingStopwords are dropped from the head of a sentence-initial run:
// capitalization there says nothing.
var leadingStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true, "at": true,
	"it": true, "this": true, "that": true, "but": true, "and": true,
	"after": true, "before": true, "when": true, "while": true, "as": true,
	"however": true, "meanwhile": true,
}

var (
	dateRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(,\s*\d{4})?\b|\b(19|20)\d{2}\b`)
	numRe  = regexp.MustCompile(`\b\d+(?:[.,]\d+)*(?:\s*(?:%|percent|million|billion|trillion|thousand))?\b`)
)

// Recognize scans each sentence for capitalized runs, dates and numbers.
func (r *RegexRecognizer) Recognize(_ context.Context, sentences []model.Sentence) ([]model.Entity, error) {
	var entities []model.Entity
	for _, sent := range sentences {
		entities = append(entities, capitalizedRuns(sent)...)
		entities = append(entities, patternEntities(sent)...)
	}
	return entities, nil
}

type token struct {
	text  string
	start int // byte offset within the sentence
}

func tokenize(text string) []token {
	var tokens []token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}
		tokens = append(tokens, token{text: text[start:i], start: start})
	}
	return tokens
}

// capitalizedRuns finds maximal runs of capitalized tokens and labels them.
func capitalizedRuns(sent model.Sentence) []model.Entity {
	tokens := tokenize(sent.Text)
	var entities []model.Entity

	i := 0
	for i < len(tokens) {
		if !isCapitalized(tokens[i].text) {
			i++
			continue
		}
		j := i
		for j < len(tokens) && isCapitalized(tokens[j].text) {
			j++
		}
		run := tokens[i:j]

		if i == 0 {
			// capitalization at sentence start says nothing: drop leading
			// stopwords, and drop a lone remaining word unless the
			// gazetteer knows it
			for len(run) > 0 && leadingStopwords[strings.ToLower(trimToken(run[0].text))] {
				run = run[1:]
			}
			if len(run) == 1 && !places[model.Canonicalize(trimToken(run[0].text))] {
				run = nil
			}
		}

		if len(run) > 0 {
			if e, ok := runEntity(sent, run); ok {
				entities = append(entities, e)
			}
		}
		i = j
	}
	return entities
}

// runEntity builds an entity from a capitalized run and guesses its label.
func runEntity(sent model.Sentence, run []token) (model.Entity, bool) {
	first := run[0]
	last := run[len(run)-1]
	raw := sent.Text[first.start : last.start+len(last.text)]
	left := strings.TrimLeft(raw, "\"'([“‘")
	offset := first.start + (len(raw) - len(left))
	surface := strings.TrimRight(left, "\"')]”’.,;:!?")
	if surface == "" {
		return model.Entity{}, false
	}

	canonical := model.Canonicalize(surface)
	words := strings.Fields(canonical)

	label := model.LabelMisc
	switch {
	case places[canonical]:
		label = model.LabelGPE
	case orgSuffixes[strings.TrimRight(words[len(words)-1], ".")] || containsOrgWord(words):
		label = model.LabelOrg
	case len(words) >= 2:
		label = model.LabelPerson
	}

	start := sent.Start + offset
	return model.Entity{
		Text:      surface,
		Canonical: canonical,
		Label:     label,
		Start:     start,
		End:       start + len(surface),
	}, true
}

func containsOrgWord(words []string) bool {
	for _, w := range words {
		if orgSuffixes[strings.TrimRight(w, ".")] {
			return true
		}
	}
	return false
}

// patternEntities finds DATE and NUMBER mentions. Date matches take
// precedence: a bare year is a DATE, not a NUMBER.
func patternEntities(sent model.Sentence) []model.Entity {
	var entities []model.Entity

	dateSpans := dateRe.FindAllStringIndex(sent.Text, -1)
	for _, span := range dateSpans {
		surface := sent.Text[span[0]:span[1]]
		entities = append(entities, model.Entity{
			Text:      surface,
			Canonical: model.Canonicalize(surface),
			Label:     model.LabelDate,
			Start:     sent.Start + span[0],
			End:       sent.Start + span[1],
		})
	}

	for _, span := range numRe.FindAllStringIndex(sent.Text, -1) {
		if overlapsAny(span, dateSpans) {
			continue
		}
		surface := sent.Text[span[0]:span[1]]
		entities = append(entities, model.Entity{
			Text:      surface,
			Canonical: model.Canonicalize(surface),
			Label:     model.LabelNumber,
			Start:     sent.Start + span[0],
			End:       sent.Start + span[1],
		})
	}
	return entities
}

func overlapsAny(span []int, spans [][]int) bool {
	for _, s := range spans {
		if span[0] < s[1] && s[0] < span[1] {
			return true
		}
	}
	return false
}

func isCapitalized(tok string) bool {
	tok = trimToken(tok)
	if tok == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r)
}

func trimToken(tok string) string {
	return strings.Trim(tok, "\"'()[]“”‘’.,;:!?")
}
