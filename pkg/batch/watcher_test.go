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

	_ "github.com/gnana997/semindex/pkg/extractor/lang/typescript"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestFileWatcher_ReindexesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("export function one() { return 1 }\n"), 0644))

	logger := slog.Default()
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	store := batch.NewStore(batch.DefaultStoreConfig(), logger)
	defer store.Close()

	opts := batch.DefaultWatchOptions()
	opts.DebounceMs = 20

	watcher := batch.NewFileWatcher(pm, store, opts, logger)
	require.NoError(t, watcher.Start(dir))
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("export function one() { return 1 }\nexport function two() { return 2 }\n"), 0644))

	ok := waitUntil(t, 3*time.Second, func() bool {
		fi, found := store.GetFileIndex(path)
		return found && len(fi.Index.Functions) == 2
	})
	assert.True(t, ok, "watcher should reindex the file after a debounced write")
}

func TestFileWatcher_RemovesFileOnDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("export function one() { return 1 }\n"), 0644))

	logger := slog.Default()
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	store := batch.NewStore(batch.DefaultStoreConfig(), logger)
	defer store.Close()

	scanner := batch.NewWorkspaceScanner(pm, store, logger)
	defer scanner.Close()
	_, err := scanner.ScanWorkspace(dir, batch.DefaultScanOptions(), nil)
	require.NoError(t, err)
	_, found := store.GetFileIndex(path)
	require.True(t, found)

	opts := batch.DefaultWatchOptions()
	opts.DebounceMs = 20
	watcher := batch.NewFileWatcher(pm, store, opts, logger)
	require.NoError(t, watcher.Start(dir))
	defer watcher.Stop()

	require.NoError(t, os.Remove(path))

	ok := waitUntil(t, 3*time.Second, func() bool {
		_, found := store.GetFileIndex(path)
		return !found
	})
	assert.True(t, ok, "watcher should remove the file's index once it's deleted")
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	logger := slog.Default()
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	store := batch.NewStore(batch.DefaultStoreConfig(), logger)
	defer store.Close()

	watcher := batch.NewFileWatcher(pm, store, batch.DefaultWatchOptions(), logger)
	require.NoError(t, watcher.Start(dir))

	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}
