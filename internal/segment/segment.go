package segment

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/veracity/internal/model"
)

// Segmenter splits raw text into ordered sentence spans. It is purely
// lexical: no network access, no blocking I/O.
type Segmenter struct{}

// New creates a new segmenter.
func New() *Segmenter {
	return &Segmenter{}
}

// abbreviations end with a period without ending a sentence. Compared
// lowercased, without the trailing period.
var abbreviations = map[string]bool{
	"dr": true, "mr": true, "mrs": true, "ms": true, "prof": true,
	"sr": true, "jr": true, "st": true, "gen": true, "sen": true,
	"rep": true, "gov": true, "lt": true, "col": true, "sgt": true,
	"capt": true, "vs": true, "etc": true, "inc": true, "ltd": true,
	"corp": true, "approx": true, "dept": true, "vol": true,
	"u.s": true, "u.k": true, "e.g": true, "i.e": true,
}

// Sentences returns a lazy, restartable sequence of sentence spans covering
// text in original order. Spans are byte offsets into text. Whitespace-only
// input yields an empty sequence.
func (s *Segmenter) Sentences(text string) iter.Seq[model.Sentence] {
	return func(yield func(model.Sentence) bool) {
		start := -1
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if start < 0 {
				if unicode.IsSpace(r) {
					i += size
					continue
				}
				start = i
			}
			if r == '!' || r == '?' || (r == '.' && breaksAt(text, i)) {
				end := absorbTrailing(text, i+size)
				if sent, ok := makeSentence(text, start, end); ok {
					if !yield(sent) {
						return
					}
				}
				start = -1
				i = end
				continue
			}
			i += size
		}
		if start >= 0 {
			if sent, ok := makeSentence(text, start, len(text)); ok {
				yield(sent)
			}
		}
	}
}

// Segment collects the sentence sequence into a slice.
func (s *Segmenter) Segment(text string) []model.Sentence {
	var out []model.Sentence
	for sent := range s.Sentences(text) {
		out = append(out, sent)
	}
	return out
}

// makeSentence trims trailing whitespace and drops spans with no letters or
// digits (stray punctuation between real sentences).
func makeSentence(text string, start, end int) (model.Sentence, bool) {
	span := strings.TrimRightFunc(text[start:end], unicode.IsSpace)
	if span == "" || !strings.ContainsFunc(span, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) {
		return model.Sentence{}, false
	}
	return model.Sentence{Text: span, Start: start, End: start + len(span)}, true
}

// breaksAt reports whether the period at byte offset i ends a sentence.
// Periods inside decimals ("3.5 million"), after abbreviations ("Dr. Smith")
// and after single-letter initials ("J. Smith") do not break.
func breaksAt(text string, i int) bool {
	if i+1 < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i+1:])
		if !unicode.IsSpace(r) {
			// decimal numbers, URLs, inline dotted tokens
			return false
		}
	}
	tok := tokenBefore(text, i)
	if tok == "" {
		return false
	}
	if abbreviations[strings.ToLower(tok)] {
		return false
	}
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// tokenBefore returns the word immediately preceding byte offset i, with
// surrounding quotes and brackets stripped.
func tokenBefore(text string, i int) string {
	j := i
	for j > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:j])
		if unicode.IsSpace(r) {
			break
		}
		j -= size
	}
	return strings.Trim(text[j:i], "\"'()[]“”‘’")
}

// absorbTrailing extends the span over closing quotes, brackets and runs of
// terminators ("?!", "...").
func absorbTrailing(text string, end int) int {
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		switch r {
		case '"', '\'', ')', ']', '”', '’', '!', '?', '.':
			end += size
		default:
			return end
		}
	}
	return end
}
