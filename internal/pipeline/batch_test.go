package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pvidalgo/relato/internal/model"
)

// countingRunner implements RowRunner without touching a real pipeline.
type countingRunner struct {
	calls int32
	fail  map[int]bool // row value in first cell -> fail
}

func (r *countingRunner) RunRow(ctx context.Context, header, row []string, rctx model.ReportContext) (*RunResult, error) {
	atomic.AddInt32(&r.calls, 1)
	if len(row) > 0 && r.fail[len(row[0])] {
		return nil, fmt.Errorf("scripted failure for %q", row[0])
	}
	catalog, err := model.NewFactCatalog(nil)
	if err != nil {
		return nil, err
	}
	return &RunResult{
		State:     model.StateAccepted,
		Catalog:   catalog,
		Narrative: "row " + row[0],
	}, nil
}

func TestBatchProcessor_ProcessesAllRowsInOrder(t *testing.T) {
	runner := &countingRunner{}
	processor := NewBatchProcessor(runner, 4)

	header := []string{"q___a"}
	rows := make([][]string, 20)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("r%d", i)}
	}

	results := processor.ProcessRows(context.Background(), header, rows, model.ReportContext{})

	if len(results) != len(rows) {
		t.Fatalf("Expected %d results, got %d", len(rows), len(results))
	}
	if atomic.LoadInt32(&runner.calls) != int32(len(rows)) {
		t.Errorf("Expected %d runner calls, got %d", len(rows), runner.calls)
	}

	for i, result := range results {
		if result.RowNum != i+1 {
			t.Errorf("Result %d: expected row %d, got %d", i, i+1, result.RowNum)
		}
		if result.Err != nil {
			t.Errorf("Row %d: unexpected error %v", result.RowNum, result.Err)
		}
	}
}

func TestBatchProcessor_ManyRowsSmallPool(t *testing.T) {
	// Far more rows than the pool's buffered queues can hold at once.
	runner := &countingRunner{}
	processor := NewBatchProcessor(runner, 1)

	rows := make([][]string, 100)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("r%d", i)}
	}

	done := make(chan []*RowResult, 1)
	go func() {
		done <- processor.ProcessRows(context.Background(), []string{"q___a"}, rows, model.ReportContext{})
	}()

	select {
	case results := <-done:
		if len(results) != len(rows) {
			t.Fatalf("Expected %d results, got %d", len(rows), len(results))
		}
		for i, result := range results {
			if result.RowNum != i+1 {
				t.Errorf("Result %d: expected row %d, got %d", i, i+1, result.RowNum)
			}
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ProcessRows stalled with rows exceeding the pool buffers")
	}
}

func TestBatchProcessor_RowFailuresAreIsolated(t *testing.T) {
	// Rows whose first cell is 3 characters long fail; the rest succeed.
	runner := &countingRunner{fail: map[int]bool{3: true}}
	processor := NewBatchProcessor(runner, 2)

	rows := [][]string{
		{"ok"},
		{"bad"},
		{"fine"},
	}

	results := processor.ProcessRows(context.Background(), []string{"q___a"}, rows, model.ReportContext{})

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("Expected rows 1 and 3 to succeed")
	}
	if results[1].Err == nil {
		t.Error("Expected row 2 to fail")
	}
	if results[1].GetError() == nil {
		t.Error("Expected GetError to surface the row failure")
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(&countingRunner{}, 2)

	results := processor.ProcessRows(context.Background(), []string{"q___a"}, nil, model.ReportContext{})
	if len(results) != 0 {
		t.Errorf("Expected no results for empty input, got %d", len(results))
	}
}
