package verify

import (
	"regexp"
	"strings"
	"unicode"
)

// stopwords are excluded from overlap so corroboration keys on content
// words, not glue.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "but": true, "by": true, "for": true,
	"from": true, "had": true, "has": true, "have": true, "in": true,
	"is": true, "it": true, "its": true, "of": true, "on": true, "or": true,
	"that": true, "the": true, "their": true, "this": true, "to": true,
	"was": true, "were": true, "which": true, "with": true,
}

var numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// contentTokens lowercases s and returns its content words in order,
// duplicates included.
func contentTokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// overlap measures how much of the claim's vocabulary the extract covers:
// unique claim content tokens found in the extract, divided by unique claim
// content tokens. Returns 0 when the claim has no content tokens.
func overlap(claim, extract string) float64 {
	claimTokens := contentTokens(claim)
	if len(claimTokens) == 0 {
		return 0
	}

	extractSet := make(map[string]bool)
	for _, t := range contentTokens(extract) {
		extractSet[t] = true
	}

	unique := make(map[string]bool)
	matched := 0
	for _, t := range claimTokens {
		if unique[t] {
			continue
		}
		unique[t] = true
		if extractSet[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(unique))
}

// numericTokens extracts the normalized numeric facts in s. Thousands
// separators are stripped so "1,500" and "1500" compare equal.
func numericTokens(s string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range numberRe.FindAllString(s, -1) {
		out[strings.ReplaceAll(m, ",", "")] = true
	}
	return out
}

// numbersDisjoint reports whether both sets are non-empty and share no
// member. Disjoint numbers in a relevant source read as a contradiction.
func numbersDisjoint(a, b map[string]bool) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for n := range a {
		if b[n] {
			return false
		}
	}
	return true
}

// truncate cuts s to at most max runes, appending an ellipsis when it cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
