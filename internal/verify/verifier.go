// Package verify cross-references claims and entities against the external
// knowledge source. Lookups fan out under a worker semaphore into
// pre-allocated slots indexed by input position, so completion order never
// changes the output. A lookup that fails or times out marks its item
// unverified; verification itself never fails the request.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/knowledge"
	"github.com/ppiankov/veracity/internal/model"
)

// Lookuper resolves a free-text query against a knowledge source.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*knowledge.Result, error)
	SourceName() string
}

const (
	maxDescriptionRunes = 280
	maxSnippetRunes     = 240
)

var (
	absoluteRe    = regexp.MustCompile(`(?i)\b(all|every|never|always|none|no one|everyone|nothing)\b`)
	vagueRe       = regexp.MustCompile(`(?i)\b(many|few|several|some|most|numerous|various)\b`)
	attributionRe = regexp.MustCompile(`(?i)\b(according to|said|says|stated|reported|reports|cited|confirmed)\b`)
)

// Verifier runs the verification phase for one analysis.
type Verifier struct {
	source Lookuper
	cache  cache.Cache
	cfg    model.VerifyConfig
}

// Result carries the verified claims and entities plus every source that
// corroborated something.
type Result struct {
	Claims   []model.Claim
	Entities []model.Entity
	Sources  []model.Source
}

// NewVerifier creates a verifier. The cache is run scoped: callers construct
// one per analysis and pass it in.
func NewVerifier(source Lookuper, c cache.Cache, cfg model.VerifyConfig) *Verifier {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 3 * time.Second
	}
	if cfg.Budget <= 0 {
		cfg.Budget = 8 * time.Second
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = 0.3
	}
	return &Verifier{source: source, cache: c, cfg: cfg}
}

// Verify looks up every resolvable entity and every claim, then assembles
// verified copies. Slots are pre-allocated and filled by index; the
// semaphore bounds in-flight lookups and the budget bounds the whole phase.
func (v *Verifier) Verify(ctx context.Context, claims []model.Claim, entities []model.Entity) *Result {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.Budget)
	defer cancel()

	entityHits := make([]*knowledge.Result, len(entities))
	claimHits := make([]*knowledge.Result, len(claims))

	sem := make(chan struct{}, v.cfg.Workers)
	var wg sync.WaitGroup

	for i := range entities {
		if !entities[i].Resolvable() {
			continue
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			entityHits[idx] = v.lookup(ctx, entities[idx].Text)
		}(i)
	}

	for i := range claims {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			claimHits[idx] = v.lookup(ctx, claimQuery(claims[idx].Text))
		}(i)
	}

	wg.Wait()

	return v.assemble(claims, claimHits, entities, entityHits)
}

// lookup consults the cache, then the knowledge source. Found pages and
// confirmed not-found answers are cached; transient failures are not, so a
// later run can try again.
func (v *Verifier) lookup(ctx context.Context, query string) *knowledge.Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	key := cache.Key(query)
	if b, ok := v.cache.Get(key); ok {
		var res knowledge.Result
		if err := json.Unmarshal(b, &res); err == nil {
			if res.Extract == "" {
				return nil // cached not-found
			}
			return &res
		}
	}

	lctx, cancel := context.WithTimeout(ctx, v.cfg.LookupTimeout)
	defer cancel()

	res, err := v.source.Lookup(lctx, query)
	if err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			if b, merr := json.Marshal(knowledge.Result{}); merr == nil {
				v.cache.Set(key, b)
			}
		}
		return nil
	}

	if b, merr := json.Marshal(res); merr == nil {
		v.cache.Set(key, b)
	}
	return res
}

func (v *Verifier) assemble(claims []model.Claim, claimHits []*knowledge.Result, entities []model.Entity, entityHits []*knowledge.Result) *Result {
	out := &Result{
		Claims:   make([]model.Claim, len(claims)),
		Entities: make([]model.Entity, len(entities)),
		Sources:  []model.Source{},
	}

	for i, e := range entities {
		if hit := entityHits[i]; hit != nil {
			desc := truncate(hit.Extract, maxDescriptionRunes)
			e.Description = &desc
			out.Sources = append(out.Sources, v.sourceFrom(hit, overlap(e.Text, hit.Extract)))
		}
		out.Entities[i] = e
	}

	for i, c := range claims {
		verified := v.assessClaim(c, claimHits[i])
		if hit := claimHits[i]; hit != nil {
			out.Sources = append(out.Sources, v.sourceFrom(hit, overlap(c.Text, hit.Extract)))
		}
		out.Claims[i] = verified
	}

	return out
}

// assessClaim attaches verification and style issues to a claim. Issue
// order is fixed: verification outcome first, then style findings.
func (v *Verifier) assessClaim(c model.Claim, hit *knowledge.Result) model.Claim {
	var issues []string

	relevant := hit != nil && overlap(c.Text, hit.Extract) >= v.cfg.RelevanceThreshold
	switch {
	case !relevant:
		issues = append(issues, model.IssueUnverifiable)
	case numbersDisjoint(numericTokens(c.Text), numericTokens(hit.Extract)):
		issues = append(issues, model.IssueContradicted)
	}
	verificationIssues := len(issues)

	if absoluteRe.MatchString(c.Text) {
		issues = append(issues, model.IssueAbsolute)
	}
	if vagueRe.MatchString(c.Text) {
		issues = append(issues, model.IssueVague)
	}
	if !attributionRe.MatchString(c.Text) {
		issues = append(issues, model.IssueNoAttribution)
	}

	c.Issues = issues
	switch {
	case verificationIssues > 0:
		c.Suggestion = model.SuggestionCitePrimary
	case len(issues) > 0:
		c.Suggestion = model.SuggestionQualify
	}
	return c
}

func (v *Verifier) sourceFrom(hit *knowledge.Result, relevance float64) model.Source {
	return model.Source{
		Title:      hit.Title,
		URL:        hit.URL,
		Snippet:    truncate(hit.Extract, maxSnippetRunes),
		SourceName: v.source.SourceName(),
		Relevance:  relevance,
	}
}

// claimQuery picks the lookup query for a claim: the longest run of
// capitalized words when one exists (a lone sentence-initial word does not
// count), otherwise the claim's first few content words.
func claimQuery(text string) string {
	words := strings.Fields(text)
	var best, run []string
	var runStart int
	flush := func() {
		if len(run) > len(best) && !(runStart == 0 && len(run) == 1) {
			best = run
		}
		run = nil
	}
	for i, w := range words {
		t := strings.Trim(w, `"'().,;:!?`)
		if t != "" && startsUpper(t) {
			if len(run) == 0 {
				runStart = i
			}
			run = append(run, t)
			continue
		}
		flush()
	}
	flush()
	if len(best) > 0 {
		return strings.Join(best, " ")
	}

	tokens := contentTokens(text)
	if len(tokens) > 4 {
		tokens = tokens[:4]
	}
	return strings.Join(tokens, " ")
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
