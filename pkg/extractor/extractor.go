// Package extractor builds a semantic index for a single source file.
//
// The pipeline runs four passes over one parsed syntax tree: Query Runner,
// Scope Builder, Definition Builder, Reference Builder. Each pass depends
// only on state the pass before it produced. See BuildSemanticIndex.
package extractor

import (
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/parser"
)

var (
	compiledMu sync.Mutex
	compiled   = make(map[parser.Language]*ts.Query)
)

func compiledQueryFor(pm *parser.ParserManager, lang parser.Language, setup languageSetup) (*ts.Query, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if q, ok := compiled[lang]; ok {
		return q, nil
	}

	langPtr, err := pm.GetLanguagePointer(lang, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}
	tsLang := ts.NewLanguage(langPtr)

	query, qerr := ts.NewQuery(tsLang, setup.querySource)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile query for %s: %s", lang, qerr.Message)
	}

	compiled[lang] = query
	return query, nil
}

// BuildSemanticIndex is the single documented entry point of this package
// (spec.md §6): it runs all four passes over one already-parsed tree and
// returns a SemanticIndex that owns no reference into the tree.
//
// pm supplies the read-only compiled grammar/query objects; it and the
// compiled query cache are safe to share across concurrent calls for
// different files, per spec.md §5 — nothing mutable is shared.
func BuildSemanticIndex(pm *parser.ParserManager, parsed ParsedFile, tree *ts.Tree, source []byte) (*SemanticIndex, error) {
	setup, ok := lookupLanguage(parsed.Lang)
	if !ok {
		return nil, fmt.Errorf("extractor: no language registered for %s (forgot a blank import of pkg/extractor/lang/...?)", parsed.Lang)
	}

	query, err := compiledQueryFor(pm, parsed.Lang, setup)
	if err != nil {
		return nil, err
	}

	// Pass 1: Query Runner.
	allCaptures, err := runQuery(parsed.FilePath, query, tree, source, setup.registry)
	if err != nil {
		return nil, err
	}

	var scopeCaptures, definitionCaptures, referenceCaptures []Capture
	for _, c := range allCaptures {
		switch c.Category {
		case CategoryScope:
			scopeCaptures = append(scopeCaptures, c)
		case CategoryReference, CategoryAssignment, CategoryReturn:
			referenceCaptures = append(referenceCaptures, c)
		default: // definition, import, export, type, decorator, modifier
			definitionCaptures = append(definitionCaptures, c)
		}
	}

	root := tree.RootNode()
	fileEnd := Location{
		FilePath:    parsed.FilePath,
		StartLine:   1,
		StartColumn: 1,
		EndLine:     uint32(root.EndPosition().Row) + 1,
		EndColumn:   uint32(root.EndPosition().Column) + 1,
		StartByte:   0,
		EndByte:     uint32(root.EndByte()),
	}

	// Pass 2: Scope Builder.
	scopeBuilder := newScopeBuilder(parsed.FilePath, setup.registry.boundary, source)
	scopes, rootId, depths, err := scopeBuilder.Build(scopeCaptures, fileEnd)
	if err != nil {
		return nil, err
	}

	ctx := newProcessingContext(parsed.FilePath, scopes, rootId, depths)

	index := &SemanticIndex{
		FilePath:    parsed.FilePath,
		Language:    parsed.Lang,
		RootScopeId: rootId,
		Scopes:      scopes,
		Functions:   make(map[SymbolId]*FunctionDefinition),
		Classes:     make(map[SymbolId]*ClassDefinition),
		Variables:   make(map[SymbolId]*VariableDefinition),
		Interfaces:  make(map[SymbolId]*InterfaceDefinition),
		Enums:       make(map[SymbolId]*EnumDefinition),
		Namespaces:  make(map[SymbolId]*NamespaceDefinition),
		Types:       make(map[SymbolId]*TypeAliasDefinition),
		Imports:     make(map[SymbolId]*ImportDefinition),
	}

	// Pass 3: Definition Builder (two-phase).
	defBuilder := newDefinitionBuilder(parsed.FilePath, source, ctx, setup.registry, index)
	if err := defBuilder.Build(definitionCaptures); err != nil {
		return nil, err
	}

	// Pass 4: Reference Builder.
	refBuilder := newReferenceBuilder(parsed.FilePath, source, ctx, setup.registry)
	refs, err := refBuilder.Build(referenceCaptures)
	if err != nil {
		return nil, err
	}
	index.References = refs

	return index, nil
}
