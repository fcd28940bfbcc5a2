// Package extractor builds a semantic index for a single source file.
//
// The pipeline runs in four passes over one parsed syntax tree — query
// execution, scope building, definition building, reference building — each
// depending only on state produced by the pass before it. See BuildSemanticIndex.
package extractor

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/parser"
)

// FilePath is an opaque identifier for the file being indexed.
type FilePath = string

// Location is a span in a file: 1-based inclusive start, 1-based exclusive
// end. Every Location in this package is derived from a tree-sitter node's
// 0-based row/column by adding 1 uniformly — no other column convention is
// used anywhere in this repo.
type Location struct {
	FilePath    string `json:"file_path"`
	StartLine   uint32 `json:"start_line"`
	StartColumn uint32 `json:"start_column"`
	EndLine     uint32 `json:"end_line"`
	EndColumn   uint32 `json:"end_column"`
	StartByte   uint32 `json:"start_byte"`
	EndByte     uint32 `json:"end_byte"`
}

// NewLocation derives a Location from a tree-sitter node using this
// package's one column convention (§9 Open Question: 1-based inclusive
// start, 1-based exclusive end). Exported so per-language ScopeBoundary/
// MetadataExtractor implementations in lang/* never invent their own.
func NewLocation(node *ts.Node, filePath FilePath) Location {
	return locationFromNode(node, filePath)
}

func locationFromNode(node *ts.Node, filePath FilePath) Location {
	start := node.StartPosition()
	end := node.EndPosition()
	return Location{
		FilePath:    filePath,
		StartLine:   uint32(start.Row) + 1,
		StartColumn: uint32(start.Column) + 1,
		EndLine:     uint32(end.Row) + 1,
		EndColumn:   uint32(end.Column) + 1,
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}

// contains reports whether o is spatially contained within l (inclusive of
// shared boundaries).
func (l Location) contains(o Location) bool {
	if l.StartLine > o.StartLine || (l.StartLine == o.StartLine && l.StartColumn > o.StartColumn) {
		return false
	}
	if l.EndLine < o.EndLine || (l.EndLine == o.EndLine && l.EndColumn < o.EndColumn) {
		return false
	}
	return true
}

// areaBase dominates any realistic column delta so area comparisons are
// effectively ordered by line span first, column span second.
const areaBase = 1 << 20

// areaUnits gives Location a total order for "smallest containing scope"
// comparisons, per spec.md §4.2.
func (l Location) areaUnits() int64 {
	startUnits := int64(l.StartLine)*areaBase + int64(l.StartColumn)
	endUnits := int64(l.EndLine)*areaBase + int64(l.EndColumn)
	return endUnits - startUnits
}

// ScopeKind identifies the kind of lexical scope a LexicalScope represents.
type ScopeKind string

const (
	ScopeModule      ScopeKind = "module"
	ScopeClass       ScopeKind = "class"
	ScopeFunction    ScopeKind = "function"
	ScopeMethod      ScopeKind = "method"
	ScopeConstructor ScopeKind = "constructor"
	ScopeBlock       ScopeKind = "block"
)

// ScopeId is the deterministic identifier of a LexicalScope:
// "{type}:{file}:{start_line}:{start_column}:{end_line}:{end_column}".
type ScopeId string

func newScopeId(kind ScopeKind, loc Location) ScopeId {
	return ScopeId(fmt.Sprintf("%s:%s:%d:%d:%d:%d", kind, loc.FilePath, loc.StartLine, loc.StartColumn, loc.EndLine, loc.EndColumn))
}

// SymbolId is the deterministic identifier of a definition:
// "{kind}:{file}:{name}:{start_line}:{start_column}". A collision within one
// file is an implementation bug in a capture handler, not a runtime
// condition any caller needs to recover from.
type SymbolId string

func newSymbolId(kind DefinitionKind, filePath FilePath, name string, loc Location) SymbolId {
	return SymbolId(fmt.Sprintf("%s:%s:%s:%d:%d", kind, filePath, name, loc.StartLine, loc.StartColumn))
}

// SymbolName is the textual identifier as it appears in source.
type SymbolName = string

// LexicalScope is one node of the file's scope tree. Location is the scope
// BODY's span, never the declaration — see ScopeBuilder.
type LexicalScope struct {
	Id       ScopeId    `json:"id"`
	ParentId ScopeId    `json:"parent_id,omitempty"` // empty only for the root module scope
	Name     SymbolName `json:"name,omitempty"`
	Type     ScopeKind  `json:"type"`
	Location Location   `json:"location"`
	ChildIds []ScopeId  `json:"child_ids"` // ordered by source position
}

// Language is re-exported so callers of this package don't need to import
// pkg/parser directly just to call BuildSemanticIndex.
type Language = parser.Language

// ParsedFile describes the file being indexed. The syntax tree produced by
// the external parser collaborator is passed to BuildSemanticIndex
// separately; the pipeline borrows references into it but the returned
// SemanticIndex owns none.
type ParsedFile struct {
	FilePath      FilePath
	FileLines     int
	FileEndColumn int
	Lang          Language
}

// SemanticIndex is the complete, self-contained result of indexing one file.
// It owns no AST references and may outlive the syntax tree it was built
// from.
type SemanticIndex struct {
	FilePath    FilePath                          `json:"file_path"`
	Language    Language                          `json:"language"`
	RootScopeId ScopeId                           `json:"root_scope_id"`
	Scopes      map[ScopeId]*LexicalScope         `json:"scopes"`
	Functions   map[SymbolId]*FunctionDefinition  `json:"functions"`
	Classes     map[SymbolId]*ClassDefinition     `json:"classes"`
	Variables   map[SymbolId]*VariableDefinition  `json:"variables"`
	Interfaces  map[SymbolId]*InterfaceDefinition `json:"interfaces"`
	Enums       map[SymbolId]*EnumDefinition      `json:"enums"`
	Namespaces  map[SymbolId]*NamespaceDefinition `json:"namespaces"`
	Types       map[SymbolId]*TypeAliasDefinition `json:"types"`
	Imports     map[SymbolId]*ImportDefinition    `json:"imported_symbols"`
	References  []SymbolReference                 `json:"references"`
}

// SymbolsByName indexes every definition in the index by its source name.
// Implements spec.md §8 invariant 7: the returned slice for a name contains
// exactly the definitions whose Name equals it.
func (idx *SemanticIndex) SymbolsByName() map[SymbolName][]DefinitionHeader {
	out := make(map[SymbolName][]DefinitionHeader)
	add := func(h DefinitionHeader) { out[h.Name] = append(out[h.Name], h) }
	for _, d := range idx.Functions {
		add(d.DefinitionHeader)
	}
	for _, d := range idx.Classes {
		add(d.DefinitionHeader)
	}
	for _, d := range idx.Variables {
		add(d.DefinitionHeader)
	}
	for _, d := range idx.Interfaces {
		add(d.DefinitionHeader)
	}
	for _, d := range idx.Enums {
		add(d.DefinitionHeader)
	}
	for _, d := range idx.Namespaces {
		add(d.DefinitionHeader)
	}
	for _, d := range idx.Types {
		add(d.DefinitionHeader)
	}
	for _, d := range idx.Imports {
		add(d.DefinitionHeader)
	}
	return out
}

// AllDefinitions returns the header of every definition in the index,
// regardless of kind. Used by batch-processing callers that index
// definitions by SymbolId across an entire workspace.
func (idx *SemanticIndex) AllDefinitions() []DefinitionHeader {
	out := make([]DefinitionHeader, 0, len(idx.Functions)+len(idx.Classes)+len(idx.Variables)+
		len(idx.Interfaces)+len(idx.Enums)+len(idx.Namespaces)+len(idx.Types)+len(idx.Imports))
	for _, d := range idx.Functions {
		out = append(out, d.DefinitionHeader)
	}
	for _, d := range idx.Classes {
		out = append(out, d.DefinitionHeader)
	}
	for _, d := range idx.Variables {
		out = append(out, d.DefinitionHeader)
	}
	for _, d := range idx.Interfaces {
		out = append(out, d.DefinitionHeader)
	}
	for _, d := range idx.Enums {
		out = append(out, d.DefinitionHeader)
	}
	for _, d := range idx.Namespaces {
		out = append(out, d.DefinitionHeader)
	}
	for _, d := range idx.Types {
		out = append(out, d.DefinitionHeader)
	}
	for _, d := range idx.Imports {
		out = append(out, d.DefinitionHeader)
	}
	return out
}
