package batch_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/batch"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/util"

	_ "github.com/gnana997/semindex/pkg/extractor/lang/typescript"
)

func newTestCache(t *testing.T) util.FileCache {
	t.Helper()
	cache := util.NewFileCache(util.UnboundedFileCacheConfig())
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestWorkerPool_ProcessesSubmittedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("export function add(a: number, b: number): number {\n  return a + b\n}\n"), 0644))

	logger := slog.Default()
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	pool := batch.NewWorkerPool(2, pm, newTestCache(t), logger)
	pool.Start()

	require.NoError(t, pool.Submit(batch.FileJob{FilePath: path, JobID: 0}))
	pool.FinishSubmitting()

	select {
	case result := <-pool.Results():
		assert.Equal(t, path, result.FilePath)
		require.NotNil(t, result.Index)
		assert.Len(t, result.Index.Functions, 1)
		assert.NotEmpty(t, result.ContentHash)
	case fileErr := <-pool.Errors():
		t.Fatalf("unexpected error: %v", fileErr.Error)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}

	pool.Stop()
	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.JobsSubmitted)
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(0), stats.JobsFailed)
}

func TestWorkerPool_ReportsErrorForMissingFile(t *testing.T) {
	logger := slog.Default()
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	pool := batch.NewWorkerPool(1, pm, newTestCache(t), logger)
	pool.Start()

	require.NoError(t, pool.Submit(batch.FileJob{FilePath: "/no/such/file.ts", JobID: 0}))
	pool.FinishSubmitting()

	select {
	case result := <-pool.Results():
		t.Fatalf("expected an error, got result: %+v", result)
	case fileErr := <-pool.Errors():
		assert.Equal(t, "/no/such/file.ts", fileErr.FilePath)
		assert.Error(t, fileErr.Error)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	pool.Stop()
	assert.Equal(t, int64(1), pool.GetStats().JobsFailed)
}

func TestWorkerPool_ReportsErrorForUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just text"), 0644))

	logger := slog.Default()
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	pool := batch.NewWorkerPool(1, pm, newTestCache(t), logger)
	pool.Start()

	require.NoError(t, pool.Submit(batch.FileJob{FilePath: path, JobID: 0}))
	pool.FinishSubmitting()

	select {
	case fileErr := <-pool.Errors():
		assert.Contains(t, fileErr.Error.Error(), "unsupported file extension")
	case result := <-pool.Results():
		t.Fatalf("expected an error, got result: %+v", result)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	pool.Stop()
}
