package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonar/birdwatch/internal/model"
)

type stubAnalyzer struct {
	failOn string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, handle string) (*model.Report, error) {
	if handle == s.failOn {
		return nil, errors.New("not found")
	}
	return &model.Report{Username: handle, Score: 42}, nil
}

func TestBatchProcessor_ProcessHandles(t *testing.T) {
	b := NewBatchProcessor(&stubAnalyzer{failOn: "ghost"}, 3)

	results := b.ProcessHandles(context.Background(), []string{"jack", "ghost", "jill"})
	require.Len(t, results, 3)

	byHandle := make(map[string]*AnalyzeResult)
	for _, r := range results {
		byHandle[r.Handle] = r
	}

	require.NotNil(t, byHandle["jack"].Report)
	assert.Equal(t, 42, byHandle["jack"].Report.Score)
	assert.Error(t, byHandle["ghost"].GetError())
	assert.NoError(t, byHandle["jill"].GetError())
}

type blockingAnalyzer struct{}

func (blockingAnalyzer) Analyze(ctx context.Context, handle string) (*model.Report, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBatchProcessor_HonorsCallerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBatchProcessor(blockingAnalyzer{}, 2)

	done := make(chan struct{})
	go func() {
		b.ProcessHandles(ctx, []string{"jack", "jill"})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not stop when the caller context was cancelled")
	}
}

func TestReadHandlesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handles.txt")
	content := "jack\n@jill\n\n# a comment\nJACK\nbob\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	handles, err := ReadHandlesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"jack", "jill", "bob"}, handles,
		"strips @, skips blanks and comments, drops case-insensitive duplicates")
}

func TestReadHandlesFromFile_Missing(t *testing.T) {
	_, err := ReadHandlesFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
