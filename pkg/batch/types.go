package batch

import (
	"time"

	"github.com/gnana997/semindex/pkg/extractor"
)

// FileIndex is the cached, per-file unit of work: the complete semantic
// index for one file plus the bookkeeping the Store needs to evict and
// invalidate it.
type FileIndex struct {
	FilePath string

	// Index is the semantic index built by extractor.BuildSemanticIndex.
	Index *extractor.SemanticIndex

	// Timestamp when the file was indexed (Unix milliseconds).
	Timestamp int64

	// ContentHash is SHA-256 of the file content, for change detection.
	ContentHash string

	// TokenCount is an approximate token count, used for chunking decisions.
	TokenCount int
}

// StoreConfig configures the Store's cache behavior.
type StoreConfig struct {
	// MaxCachedFiles is the maximum number of files kept in the LRU cache.
	// Default: 1000.
	MaxCachedFiles int

	// Debug enables verbose logging.
	Debug bool
}

// DefaultStoreConfig returns the default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxCachedFiles: 1000,
		Debug:          false,
	}
}

// StoreStats reports on the Store's current state.
type StoreStats struct {
	IndexedFiles        int
	TotalDefinitions    int
	CachedFiles         int
	DirtyFiles          int
	CacheHits           int64
	CacheMisses         int64
	CacheHitRate        float64
	Evictions           int64
	MemoryEstimateBytes int64
	AverageIndexTimeMs  float64
}

// ScanOptions configures workspace scanning.
type ScanOptions struct {
	// Include patterns (doublestar glob syntax). An empty list matches every
	// file; DefaultScanOptions fills in the four supported languages'
	// extensions.
	Include []string

	// Exclude patterns, applied exactly as given. DefaultScanOptions fills in
	// the standard exclusions; callers append their own to that list.
	Exclude []string

	// RespectGitignore is currently informational — left for a future
	// discovery pass to consult.
	RespectGitignore bool

	MaxDepth       int
	FollowSymlinks bool
}

// DefaultScanOptions returns recommended scan options covering every
// language this indexer supports.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.ts", "**/*.tsx",
			"**/*.js", "**/*.jsx", "**/*.mjs", "**/*.cjs",
			"**/*.py",
			"**/*.rs",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"target/**",
			"__pycache__/**",
			".venv/**",
			"coverage/**",
			"out/**",
		},
		RespectGitignore: true,
		MaxDepth:         0,
		FollowSymlinks:   false,
	}
}

// ScanStats reports on one workspace scan.
type ScanStats struct {
	FilesDiscovered    int
	FilesIndexed       int
	FilesFailed        int
	FilesSkipped       int
	DefinitionsIndexed int
	ReferencesIndexed  int

	TotalTimeMs       int64
	DiscoveryTimeMs   int64
	IndexingTimeMs    int64
	AverageFileTimeMs float64
	FilesPerSecond    float64

	WorkerCount int
	SuccessRate float64

	Errors    []FileError
	Cancelled bool

	StartTime time.Time
	EndTime   time.Time
}

// FileError pairs a failed file with the error that stopped it.
type FileError struct {
	FilePath string
	Error    error
}

// ProgressCallback is invoked periodically while a workspace scan runs.
type ProgressCallback func(indexed, total int, currentFile string)

// WatchOptions configures the file watcher.
type WatchOptions struct {
	// DebounceMs groups rapid successive writes into one reindex.
	DebounceMs int

	IgnorePatterns []string

	// BatchSize is reserved for a future batched-reindex mode; the watcher
	// currently reindexes one file per debounce window.
	BatchSize int
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"**/*.swp", "**/*.tmp", "**/*~", ".git/**",
		},
		BatchSize: 1,
	}
}

// WatchEvent describes one file system change observed by the watcher.
type WatchEvent struct {
	FilePath  string
	Op        string
	Timestamp time.Time
}
