package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/util"
)

// WorkspaceScanner walks a workspace, indexes every matching file in
// parallel through a WorkerPool, and stores the results in a Store.
//
// Three-phase pipeline: discover files, process in parallel, store results.
type WorkspaceScanner struct {
	pm     *parser.ParserManager
	store  *Store
	cache  util.FileCache
	logger *slog.Logger
}

// NewWorkspaceScanner creates a workspace scanner. Source files are read
// through a memory-mapped FileCache sized for the whole run rather than via
// repeated os.ReadFile calls, so a large scan doesn't copy every file twice.
func NewWorkspaceScanner(pm *parser.ParserManager, store *Store, logger *slog.Logger) *WorkspaceScanner {
	cache := util.NewFileCache(util.UnboundedFileCacheConfig())
	return &WorkspaceScanner{pm: pm, store: store, cache: cache, logger: logger}
}

// ScanWorkspace scans rootPath and indexes every file matching options,
// reporting progress through progressCallback if non-nil.
func (ws *WorkspaceScanner) ScanWorkspace(rootPath string, options ScanOptions, progressCallback ProgressCallback) (*ScanStats, error) {
	startTime := time.Now()
	stats := &ScanStats{StartTime: startTime, Errors: make([]FileError, 0)}

	ws.logger.Info("starting workspace scan", "root", rootPath)

	discoveryStart := time.Now()
	files, err := ws.discoverFiles(rootPath, options)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	ws.logger.Info("file discovery complete", "files_found", len(files), "duration_ms", stats.DiscoveryTimeMs)

	if len(files) == 0 {
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return stats, nil
	}

	indexingStart := time.Now()
	if err := ws.processFilesParallel(files, stats, progressCallback); err != nil {
		return nil, fmt.Errorf("file processing failed: %w", err)
	}
	stats.IndexingTimeMs = time.Since(indexingStart).Milliseconds()

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	if stats.FilesIndexed > 0 {
		stats.AverageFileTimeMs = float64(stats.IndexingTimeMs) / float64(stats.FilesIndexed)
		stats.FilesPerSecond = float64(stats.FilesIndexed) / (float64(stats.IndexingTimeMs) / 1000.0)
	}
	if stats.FilesDiscovered > 0 {
		stats.SuccessRate = float64(stats.FilesIndexed) / float64(stats.FilesDiscovered)
	}

	ws.logger.Info("workspace scan complete",
		"files_indexed", stats.FilesIndexed,
		"files_failed", stats.FilesFailed,
		"definitions_indexed", stats.DefinitionsIndexed,
		"duration_ms", stats.TotalTimeMs)

	return stats, nil
}

// discoverFiles walks the directory tree and returns every path matching
// options.Include that doesn't match options.Exclude.
func (ws *WorkspaceScanner) discoverFiles(rootPath string, options ScanOptions) ([]string, error) {
	var files []string

	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ws.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range options.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(options.Include) > 0 {
			matched := false
			for _, pattern := range options.Include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// processFilesParallel indexes files through a WorkerPool and stores each
// result as it arrives.
func (ws *WorkspaceScanner) processFilesParallel(files []string, stats *ScanStats, progressCallback ProgressCallback) error {
	totalFiles := len(files)

	numWorkers := util.GetOptimalPoolSize()
	stats.WorkerCount = numWorkers

	pool := NewWorkerPool(numWorkers, ws.pm, ws.cache, ws.logger)
	pool.Start()
	defer pool.Stop()

	indexed := atomic.Int32{}
	failed := atomic.Int32{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Started before submission begins: otherwise a full jobs channel can
	// block the submit loop before this collector is ever running.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return

			case result, ok := <-pool.Results():
				if !ok {
					return
				}

				ws.store.AddFileIndex(result.FilePath, result.Index, result.ContentHash)

				stats.DefinitionsIndexed += len(result.Index.AllDefinitions())
				stats.ReferencesIndexed += len(result.Index.References)
				stats.FilesIndexed++

				count := indexed.Add(1)
				if progressCallback != nil {
					progressCallback(int(count), totalFiles, result.FilePath)
				}
				if int(count)+int(failed.Load()) >= totalFiles {
					cancel()
					return
				}

			case fileErr, ok := <-pool.Errors():
				if !ok {
					return
				}

				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
				ws.logger.Warn("file processing failed", "file", fileErr.FilePath, "error", fileErr.Error)

				count := failed.Add(1)
				if int(indexed.Load())+int(count) >= totalFiles {
					cancel()
					return
				}
			}
		}
	}()

	for i, file := range files {
		if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
			return fmt.Errorf("failed to submit job for %s: %w", file, err)
		}
	}
	pool.FinishSubmitting()

	<-done
	return nil
}

// GetStore returns the underlying store, for post-scan lookups or building
// a workspace-wide reference index.
func (ws *WorkspaceScanner) GetStore() *Store {
	return ws.store
}

// Close unmaps every file this scanner read. Call once the scanner (and any
// FileWatcher sharing its lifetime) is done with the workspace.
func (ws *WorkspaceScanner) Close() error {
	return ws.cache.Close()
}
