package batch_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/batch"
	"github.com/gnana997/semindex/pkg/extractor"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/typescript"
	"github.com/gnana997/semindex/pkg/parser"
)

func buildIndex(t *testing.T, path, source string) *extractor.SemanticIndex {
	t.Helper()

	pm := parser.NewParserManager(slog.Default())
	t.Cleanup(func() { pm.Close() })

	tree, err := pm.Parse([]byte(source), parser.LanguageTypeScript, false)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	index, err := extractor.BuildSemanticIndex(pm, extractor.ParsedFile{FilePath: path, Lang: parser.LanguageTypeScript}, tree, []byte(source))
	require.NoError(t, err)
	return index
}

const sampleA = `export function add(a: number, b: number): number {
  return a + b
}
`

const sampleB = `export function subtract(a: number, b: number): number {
  return a - b
}
`

func TestStore_AddFileIndex_DefinitionsLookupBySymbolId(t *testing.T) {
	store := batch.NewStore(batch.DefaultStoreConfig(), slog.Default())
	defer store.Close()

	index := buildIndex(t, "a.ts", sampleA)
	fi := store.AddFileIndex("a.ts", index, batch.ComputeContentHash([]byte(sampleA)))

	require.Len(t, index.Functions, 1)
	var symbolId extractor.SymbolId
	for id := range index.Functions {
		symbolId = id
	}

	def, ok := store.GetDefinition(symbolId)
	require.True(t, ok, "definition should be looked up by its SymbolId across the whole store")
	assert.Equal(t, "add", def.Name)

	cached, ok := store.GetFileIndex("a.ts")
	require.True(t, ok)
	assert.Equal(t, fi.ContentHash, cached.ContentHash)
}

func TestStore_AddFileIndex_ReplacesPriorEntryForSamePath(t *testing.T) {
	store := batch.NewStore(batch.DefaultStoreConfig(), slog.Default())
	defer store.Close()

	first := buildIndex(t, "a.ts", sampleA)
	store.AddFileIndex("a.ts", first, batch.ComputeContentHash([]byte(sampleA)))

	second := buildIndex(t, "a.ts", sampleB)
	store.AddFileIndex("a.ts", second, batch.ComputeContentHash([]byte(sampleB)))

	found := store.FindDefinitions(func(d extractor.DefinitionHeader) bool { return d.Name == "add" })
	assert.Empty(t, found, "re-indexing a file should drop its stale definitions")

	found = store.FindDefinitions(func(d extractor.DefinitionHeader) bool { return d.Name == "subtract" })
	assert.Len(t, found, 1)
}

func TestStore_RemoveFile_DropsItsDefinitions(t *testing.T) {
	store := batch.NewStore(batch.DefaultStoreConfig(), slog.Default())
	defer store.Close()

	index := buildIndex(t, "a.ts", sampleA)
	store.AddFileIndex("a.ts", index, batch.ComputeContentHash([]byte(sampleA)))

	store.RemoveFile("a.ts")

	_, ok := store.GetFileIndex("a.ts")
	assert.False(t, ok)

	found := store.FindDefinitions(func(d extractor.DefinitionHeader) bool { return d.Name == "add" })
	assert.Empty(t, found)
}

func TestStore_InvalidateFile_MarksDirtyWithoutRemoving(t *testing.T) {
	store := batch.NewStore(batch.DefaultStoreConfig(), slog.Default())
	defer store.Close()

	index := buildIndex(t, "a.ts", sampleA)
	store.AddFileIndex("a.ts", index, batch.ComputeContentHash([]byte(sampleA)))

	store.InvalidateFile("a.ts")
	assert.True(t, store.IsDirty("a.ts"))

	_, ok := store.GetFileIndex("a.ts")
	assert.True(t, ok, "invalidation is lazy — the stale index stays queryable until reindexed")

	store.AddFileIndex("a.ts", index, batch.ComputeContentHash([]byte(sampleA)))
	assert.False(t, store.IsDirty("a.ts"), "reindexing should clear the dirty flag")
}

func TestStore_GetStats_ReportsIndexedFilesAndDefinitions(t *testing.T) {
	store := batch.NewStore(batch.DefaultStoreConfig(), slog.Default())
	defer store.Close()

	store.AddFileIndex("a.ts", buildIndex(t, "a.ts", sampleA), batch.ComputeContentHash([]byte(sampleA)))
	store.AddFileIndex("b.ts", buildIndex(t, "b.ts", sampleB), batch.ComputeContentHash([]byte(sampleB)))

	stats := store.GetStats()
	assert.Equal(t, 2, stats.IndexedFiles)
	assert.Equal(t, 2, stats.CachedFiles)
	assert.GreaterOrEqual(t, stats.TotalDefinitions, 2)
}

func TestComputeContentHash_StableForSameContent(t *testing.T) {
	h1 := batch.ComputeContentHash([]byte(sampleA))
	h2 := batch.ComputeContentHash([]byte(sampleA))
	assert.Equal(t, h1, h2)

	h3 := batch.ComputeContentHash([]byte(sampleB))
	assert.NotEqual(t, h1, h3)
}
