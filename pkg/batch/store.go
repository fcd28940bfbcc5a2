package batch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/semindex/pkg/extractor"
)

// Store provides O(1) definition lookups across a workspace with lazy
// invalidation, built on an LRU cache of per-file SemanticIndex results.
//
// Thread Safety: all methods are safe for concurrent use.
type Store struct {
	// Primary storage: SymbolId -> DefinitionHeader (O(1) lookups)
	definitions map[extractor.SymbolId]extractor.DefinitionHeader

	// LRU cache: FilePath -> FileIndex. Evicts least recently used files.
	fileCache *lru.Cache[string, *FileIndex]

	// Reverse index: FilePath -> []SymbolId, for O(n) cleanup on removal.
	fileToSymbols map[string][]extractor.SymbolId

	// Lazy invalidation tracking (Salsa pattern): FilePath -> isDirty.
	dirtyFiles map[string]bool

	mu sync.RWMutex

	indexedFiles   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	evictions      atomic.Int64
	totalIndexTime atomic.Int64 // microseconds

	config StoreConfig
	logger *slog.Logger
}

// NewStore creates a Store ready for immediate use. Call Close() when done.
func NewStore(config StoreConfig, logger *slog.Logger) *Store {
	if config.MaxCachedFiles == 0 {
		config.MaxCachedFiles = 1000
	}

	cache, err := lru.NewWithEvict(config.MaxCachedFiles, func(key string, value *FileIndex) {
		if config.Debug {
			logger.Debug("LRU evicting file", "path", key)
		}
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	st := &Store{
		definitions:   make(map[extractor.SymbolId]extractor.DefinitionHeader, 10000),
		fileCache:     cache,
		fileToSymbols: make(map[string][]extractor.SymbolId, 1000),
		dirtyFiles:    make(map[string]bool, 100),
		config:        config,
		logger:        logger,
	}

	logger.Info("Store initialized", "max_cached_files", config.MaxCachedFiles)
	return st
}

// AddFileIndex adds one file's semantic index to the store, replacing any
// prior entry for the same path.
func (st *Store) AddFileIndex(filePath string, index *extractor.SemanticIndex, contentHash string) *FileIndex {
	start := time.Now()
	defer func() {
		st.totalIndexTime.Add(time.Since(start).Microseconds())
	}()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.removeFileUnsafe(filePath)

	defs := index.AllDefinitions()
	fi := &FileIndex{
		FilePath:    filePath,
		Index:       index,
		Timestamp:   time.Now().UnixMilli(),
		ContentHash: contentHash,
		TokenCount:  estimateTokenCount(defs),
	}

	ids := make([]extractor.SymbolId, 0, len(defs))
	for _, d := range defs {
		st.definitions[d.SymbolId] = d
		ids = append(ids, d.SymbolId)
	}
	st.fileToSymbols[filePath] = ids

	if st.fileCache.Add(filePath, fi) {
		st.evictions.Add(1)
	}
	delete(st.dirtyFiles, filePath)
	st.indexedFiles.Add(1)

	if st.config.Debug {
		st.logger.Debug("Indexed file", "path", filePath, "definitions", len(defs), "references", len(index.References))
	}

	return fi
}

// GetDefinition retrieves a definition header by its SymbolId.
func (st *Store) GetDefinition(id extractor.SymbolId) (extractor.DefinitionHeader, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	d, ok := st.definitions[id]
	return d, ok
}

// GetFileIndex retrieves the cached semantic index for a file.
func (st *Store) GetFileIndex(filePath string) (*FileIndex, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	fi, found := st.fileCache.Get(filePath)
	if found {
		st.cacheHits.Add(1)
	} else {
		st.cacheMisses.Add(1)
	}
	return fi, found
}

// AllFileIndexes returns a snapshot of every cached file's index.
func (st *Store) AllFileIndexes() []*FileIndex {
	st.mu.RLock()
	defer st.mu.RUnlock()

	keys := st.fileCache.Keys()
	out := make([]*FileIndex, 0, len(keys))
	for _, key := range keys {
		if fi, ok := st.fileCache.Peek(key); ok {
			out = append(out, fi)
		}
	}
	return out
}

// FindDefinitions returns every definition matching predicate, across the
// whole workspace.
func (st *Store) FindDefinitions(predicate func(extractor.DefinitionHeader) bool) []extractor.DefinitionHeader {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]extractor.DefinitionHeader, 0, 100)
	for _, d := range st.definitions {
		if predicate(d) {
			out = append(out, d)
		}
	}
	return out
}

// InvalidateFile marks a file dirty for lazy recomputation without removing
// its existing definitions. The watcher calls this first, for instant
// feedback, before the reindex completes.
func (st *Store) InvalidateFile(filePath string) {
	st.mu.Lock()
	st.dirtyFiles[filePath] = true
	st.mu.Unlock()
}

// IsDirty reports whether a file is marked for recomputation.
func (st *Store) IsDirty(filePath string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.dirtyFiles[filePath]
}

// RemoveFile removes a file and its definitions from the store.
func (st *Store) RemoveFile(filePath string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.removeFileUnsafe(filePath)
}

// removeFileUnsafe requires the write lock held.
func (st *Store) removeFileUnsafe(filePath string) {
	st.fileCache.Remove(filePath)

	if ids, exists := st.fileToSymbols[filePath]; exists {
		for _, id := range ids {
			delete(st.definitions, id)
		}
		delete(st.fileToSymbols, filePath)
	}
	delete(st.dirtyFiles, filePath)
}

// GetStats returns current store statistics.
func (st *Store) GetStats() StoreStats {
	st.mu.RLock()
	totalDefs := len(st.definitions)
	cachedFiles := st.fileCache.Len()
	dirtyFiles := len(st.dirtyFiles)
	st.mu.RUnlock()

	hits := st.cacheHits.Load()
	misses := st.cacheMisses.Load()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	avgTime := 0.0
	if indexed := st.indexedFiles.Load(); indexed > 0 {
		avgTime = float64(st.totalIndexTime.Load()) / float64(indexed) / 1000.0
	}

	memoryEstimate := int64(totalDefs)*200 + int64(cachedFiles)*500*1024

	return StoreStats{
		IndexedFiles:        int(st.indexedFiles.Load()),
		TotalDefinitions:    totalDefs,
		CachedFiles:         cachedFiles,
		DirtyFiles:          dirtyFiles,
		CacheHits:           hits,
		CacheMisses:         misses,
		CacheHitRate:        hitRate,
		Evictions:           st.evictions.Load(),
		MemoryEstimateBytes: memoryEstimate,
		AverageIndexTimeMs:  avgTime,
	}
}

// ComputeContentHash hashes file content for change detection.
func ComputeContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// estimateTokenCount is a rough heuristic standing in for an actual
// tokenizer pass: ten characters per name character, four characters per
// token. Only definition names are counted.
func estimateTokenCount(defs []extractor.DefinitionHeader) int {
	totalChars := 0
	for _, d := range defs {
		totalChars += len(d.Name) * 10
	}
	return totalChars / 4
}

// Close releases all resources held by the store. The store cannot be used
// afterward.
func (st *Store) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.definitions = nil
	st.fileCache.Purge()
	st.fileToSymbols = nil
	st.dirtyFiles = nil

	st.logger.Info("Store closed")
}
