package worker

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/veracity/internal/model"
)

// Analyzer is the pipeline surface the batch processor needs.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.Report, error)
}

// BatchResult is the outcome for one input file.
type BatchResult struct {
	Path   string
	Report *model.Report
	Err    error
}

// BatchProcessor analyzes many files through a worker pool. Results come
// back in input order regardless of completion order: each task writes into
// its own pre-allocated slot.
type BatchProcessor struct {
	analyzer Analyzer
	workers  int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, workers int) *BatchProcessor {
	return &BatchProcessor{analyzer: analyzer, workers: workers}
}

type batchTask struct {
	path     string
	analyzer Analyzer
	slot     *BatchResult
}

func (t *batchTask) Run(ctx context.Context) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		t.slot.Err = fmt.Errorf("read %s: %w", t.path, err)
		return
	}
	t.slot.Report, t.slot.Err = t.analyzer.Analyze(ctx, string(data))
}

// ProcessFiles analyzes every path and returns one result per path, in the
// same order. Cancellation marks unprocessed slots with the context error
// instead of dropping them.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, len(paths))
	for i := range paths {
		results[i].Path = paths[i]
	}

	pool := NewPool(b.workers)
	pool.Start(ctx)
	go func() {
		defer pool.Close()
		for i := range paths {
			task := &batchTask{path: paths[i], analyzer: b.analyzer, slot: &results[i]}
			if err := pool.Submit(ctx, task); err != nil {
				return
			}
		}
	}()
	pool.Wait()

	for i := range results {
		if results[i].Report == nil && results[i].Err == nil {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
			} else {
				results[i].Err = context.Canceled
			}
		}
	}
	return results
}
