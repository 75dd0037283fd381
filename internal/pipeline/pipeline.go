// Package pipeline wires the analysis stages together: validate, segment,
// extract and recognize (concurrently), verify, score, assemble. The
// pipeline holds no state between runs; the lookup cache is constructed per
// run so entries never leak across inputs.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/extract"
	"github.com/ppiankov/veracity/internal/knowledge"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/ner"
	"github.com/ppiankov/veracity/internal/report"
	"github.com/ppiankov/veracity/internal/score"
	"github.com/ppiankov/veracity/internal/segment"
	"github.com/ppiankov/veracity/internal/verify"
)

// Pipeline runs credibility analysis over article text.
type Pipeline struct {
	segmenter  *segment.Segmenter
	extractor  *extract.ClaimExtractor
	recognizer ner.Recognizer
	source     verify.Lookuper
	scorer     *score.Scorer
	assembler  *report.Assembler
	cfg        *model.Config
}

// New builds a pipeline from configuration. Recognizer selection may probe
// the model endpoint, hence the context.
func New(ctx context.Context, cfg *model.Config) *Pipeline {
	return &Pipeline{
		segmenter:  segment.New(),
		extractor:  extract.NewClaimExtractor(),
		recognizer: ner.NewRecognizer(ctx, cfg.Recognizer),
		source:     knowledge.NewClient(cfg.Knowledge),
		scorer:     score.NewScorer(cfg.Score),
		assembler:  report.NewAssembler(cfg.Report),
		cfg:        cfg,
	}
}

// RecognizerName reports which entity recognizer was selected at startup.
func (p *Pipeline) RecognizerName() string {
	return p.recognizer.Name()
}

// SourceName reports the configured knowledge source.
func (p *Pipeline) SourceName() string {
	return p.source.SourceName()
}

// Analyze produces a credibility report for text. Invalid input returns
// *InputError; an internal stage failure returns *FatalError; lookup
// failures and timeouts degrade to unverified items and never fail the run.
func (p *Pipeline) Analyze(ctx context.Context, text string) (rep *model.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = nil
			err = &FatalError{Stage: "pipeline", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if verr := validateInput(text, p.cfg.Input.MaxBytes); verr != nil {
		return nil, verr
	}

	text = stripMarkup(text)
	if strings.TrimSpace(text) == "" {
		return model.EmptyReport(), nil
	}

	sentences := p.segmenter.Segment(text)
	if len(sentences) == 0 {
		return model.EmptyReport(), nil
	}

	// extraction is CPU-bound, recognition may do network I/O
	var (
		claims       []model.Claim
		entities     []model.Entity
		extractPanic any
		wg           sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() { extractPanic = recover() }()
		claims = p.extractor.Extract(sentences)
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "Warning: entity recognition panicked: %v\n", r)
				entities = nil
			}
		}()
		found, rerr := p.recognizer.Recognize(ctx, sentences)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: entity recognition failed: %v\n", rerr)
			return
		}
		entities = ner.Dedupe(found)
	}()
	wg.Wait()

	if extractPanic != nil {
		return nil, &FatalError{Stage: "extract", Err: fmt.Errorf("panic: %v", extractPanic)}
	}

	runCache := cache.NewMemory(p.cfg.Verify.CacheTTL)
	verifier := verify.NewVerifier(p.source, runCache, p.cfg.Verify)
	verified := verifier.Verify(ctx, claims, entities)

	overall := p.scorer.Calculate(verified.Claims, verified.Entities)
	return p.assembler.Assemble(overall, verified.Claims, verified.Entities, verified.Sources), nil
}
