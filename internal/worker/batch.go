package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/okonar/birdwatch/internal/model"
)

// Analyzer analyzes a single handle end to end.
type Analyzer interface {
	Analyze(ctx context.Context, handle string) (*model.Report, error)
}

// AnalyzeJob is one handle analysis submitted to the pool.
type AnalyzeJob struct {
	Handle   string
	Analyzer Analyzer
}

// Execute implements Job.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.Analyze(ctx, j.Handle)
	return &AnalyzeResult{
		Handle: j.Handle,
		Report: report,
		Error:  err,
	}
}

// AnalyzeResult is the outcome of one handle analysis.
type AnalyzeResult struct {
	Handle string
	Report *model.Report
	Error  error
}

// GetError implements Result.
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many handles concurrently.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessHandles analyzes the given handles on the worker pool.
func (b *BatchProcessor) ProcessHandles(ctx context.Context, handles []string) []*AnalyzeResult {
	if len(handles) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, handle := range handles {
		pool.Submit(&AnalyzeJob{
			Handle:   handle,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessFile reads handles from a file and analyzes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	handles, err := ReadHandlesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read handles: %w", err)
	}

	return b.ProcessHandles(ctx, handles), nil
}

// ReadHandlesFromFile reads handles from a file, one per line. Blank
// lines and #-comments are skipped; duplicates are dropped.
func ReadHandlesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var handles []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "@")
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		handles = append(handles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return handles, nil
}
