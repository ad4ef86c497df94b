package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aerovoice/aerovoice/internal/model"
)

// Analyzer defines the interface for analyzing a single transcript
type Analyzer interface {
	AnalyzeText(ctx context.Context, transcript string) (*model.AnalysisRecord, error)
}

// TranscriptJob analyzes one transcript file
type TranscriptJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute reads the transcript file and runs the analysis pipeline
func (j *TranscriptJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &AnalysisResult{Path: j.Path, Error: fmt.Errorf("read transcript: %w", err)}
	}

	record, err := j.Analyzer.AnalyzeText(ctx, string(data))
	if err != nil {
		return &AnalysisResult{Path: j.Path, Error: err}
	}
	return &AnalysisResult{Path: j.Path, Record: record}
}

// AnalysisResult is the outcome of one transcript job
type AnalysisResult struct {
	Path   string
	Record *model.AnalysisRecord
	Error  error
}

// GetError returns the error from the analysis result
func (r *AnalysisResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple transcripts concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes the given transcript files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalysisResult {
	if len(paths) == 0 {
		return []*AnalysisResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&TranscriptJob{Path: path, Analyzer: b.analyzer})
	}

	results := pool.Wait()

	analysisResults := make([]*AnalysisResult, len(results))
	for i, result := range results {
		analysisResults[i] = result.(*AnalysisResult)
	}

	return analysisResults
}

// ProcessDir analyzes every transcript file in a directory
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*AnalysisResult, error) {
	paths, err := ListTranscripts(dir)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ListTranscripts returns the transcript files (.txt, .md) in a directory,
// sorted by name
func ListTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}
