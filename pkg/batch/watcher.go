package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/parser"
)

// FileWatcher watches a workspace for changes and incrementally reindexes
// the files that change, debouncing rapid successive writes.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	pm      *parser.ParserManager
	store   *Store
	logger  *slog.Logger
	options WatchOptions

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a file watcher.
func NewFileWatcher(pm *parser.ParserManager, store *Store, options WatchOptions, logger *slog.Logger) *FileWatcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic(fmt.Sprintf("failed to create file watcher: %v", err))
	}

	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}

	return &FileWatcher{
		watcher:        watcher,
		pm:             pm,
		store:          store,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}
}

// Start begins watching rootPath and its subdirectories in the background.
func (fw *FileWatcher) Start(rootPath string) error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	fw.mu.Unlock()

	if err := fw.watcher.Add(rootPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", rootPath, err)
	}

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if fw.shouldIgnore(path) {
				return filepath.SkipDir
			}
			if err := fw.watcher.Add(path); err != nil {
				fw.logger.Warn("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	fw.logger.Info("file watcher started", "root", rootPath)
	go fw.eventLoop()

	return nil
}

// Stop stops the watcher; safe to call multiple times.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return nil
	}
	fw.stopped = true
	close(fw.stopChan)

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	fw.logger.Info("file watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	for {
		select {
		case <-fw.stopChan:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	filePath := event.Name

	if fw.shouldIgnore(filePath) {
		return
	}
	if parser.DetectLanguage(filePath) == parser.LanguageUnknown {
		return
	}

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write, event.Op&fsnotify.Create == fsnotify.Create:
		fw.debounceReindex(filePath)
	case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
		fw.removeFile(filePath)
	}
}

// debounceReindex schedules a reindex after the debounce delay; only the
// last event for a file within the window triggers a reindex.
func (fw *FileWatcher) debounceReindex(filePath string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[filePath]; exists {
		timer.Stop()
	}

	fw.debounceTimers[filePath] = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() {
			fw.reindexFile(filePath)
			fw.debounceMu.Lock()
			delete(fw.debounceTimers, filePath)
			fw.debounceMu.Unlock()
		},
	)
}

func (fw *FileWatcher) reindexFile(filePath string) {
	fw.store.InvalidateFile(filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		fw.logger.Warn("failed to read file for reindexing", "file", filePath, "error", err)
		return
	}

	lang := parser.DetectLanguage(filePath)
	tree, err := fw.pm.Parse(content, lang, parser.IsTSXFile(filePath))
	if err != nil {
		fw.logger.Warn("failed to parse file for reindexing", "file", filePath, "error", err)
		return
	}
	defer tree.Close()

	index, err := extractor.BuildSemanticIndex(fw.pm, extractor.ParsedFile{FilePath: filePath, Lang: lang}, tree, content)
	if err != nil {
		fw.logger.Warn("failed to extract file", "file", filePath, "error", err)
		return
	}

	fw.store.AddFileIndex(filePath, index, ComputeContentHash(content))
	fw.logger.Debug("file reindexed", "file", filePath, "definitions", len(index.AllDefinitions()))
}

func (fw *FileWatcher) removeFile(filePath string) {
	fw.store.RemoveFile(filePath)
}

func (fw *FileWatcher) shouldIgnore(path string) bool {
	for _, pattern := range fw.options.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}

	switch filepath.Base(path) {
	case "node_modules", ".git", "dist", "build", "target", "__pycache__", ".venv":
		return true
	}
	return false
}

// GetStats reports file watcher activity.
func (fw *FileWatcher) GetStats() FileWatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	return FileWatcherStats{
		PendingReindexes: pending,
		IsRunning:        !fw.stopped,
	}
}

// FileWatcherStats reports on watcher activity.
type FileWatcherStats struct {
	PendingReindexes int
	IsRunning        bool
}
