package pipeline

import (
	"context"
	"sort"

	"github.com/pvidalgo/relato/internal/model"
	"github.com/pvidalgo/relato/internal/worker"
)

// RowRunner is the subset of Pipeline that batch processing needs.
type RowRunner interface {
	RunRow(ctx context.Context, header, row []string, rctx model.ReportContext) (*RunResult, error)
}

// RowJob runs the pipeline for one respondent row.
type RowJob struct {
	RowNum  int // 1-based respondent row number
	Header  []string
	Row     []string
	Context model.ReportContext
	Runner  RowRunner
}

// Execute executes the row job
func (j *RowJob) Execute(ctx context.Context) worker.Result {
	result, err := j.Runner.RunRow(ctx, j.Header, j.Row, j.Context)
	return &RowResult{
		RowNum: j.RowNum,
		Result: result,
		Err:    err,
	}
}

// RowResult is the outcome of one row job.
type RowResult struct {
	RowNum int
	Result *RunResult
	Err    error
}

// GetError returns the error from the row result
func (r *RowResult) GetError() error {
	return r.Err
}

// BatchProcessor runs the pipeline over many respondent rows concurrently.
// Rows are independent; each run owns its own catalog and documents.
type BatchProcessor struct {
	runner      RowRunner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner RowRunner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessRows processes all rows concurrently, returning results in row order.
func (b *BatchProcessor) ProcessRows(ctx context.Context, header []string, rows [][]string, rctx model.ReportContext) []*RowResult {
	if len(rows) == 0 {
		return []*RowResult{}
	}

	pool := worker.NewPool(b.concurrency)
	pool.Start()

	// The pool's queues are bounded, so results have to be drained while
	// rows are still being submitted; submitting everything up front stalls
	// both sides once the rows outnumber the buffers.
	go func() {
		for i, row := range rows {
			pool.Submit(&RowJob{
				RowNum:  i + 1,
				Header:  header,
				Row:     row,
				Context: rctx,
				Runner:  b.runner,
			})
		}
	}()

	rowResults := make([]*RowResult, 0, len(rows))
	for range rows {
		rowResults = append(rowResults, (<-pool.Results()).(*RowResult))
	}
	pool.Shutdown()

	sort.Slice(rowResults, func(i, j int) bool { return rowResults[i].RowNum < rowResults[j].RowNum })

	return rowResults
}
