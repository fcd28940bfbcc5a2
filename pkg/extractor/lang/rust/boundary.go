package rust

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
)

// Boundary implements extractor.ScopeBoundaryExtractor for Rust. An
// impl_item/trait_item owns the functions declared in its body the same
// way a class owns methods in the other languages, so both are modeled
// as ScopeClass; mod_item nests further definitions the way a namespace
// does and is modeled as ScopeBlock since it carries no symbol of its own
// worth promoting to a class.
type Boundary struct{}

func (Boundary) ScopeKindFor(nodeType string) (extractor.ScopeKind, bool) {
	switch nodeType {
	case "function_item":
		return extractor.ScopeFunction, true
	case "impl_item", "trait_item":
		return extractor.ScopeClass, true
	case "mod_item":
		return extractor.ScopeBlock, true
	default:
		return "", false
	}
}

// SymbolLocation returns the declared name's location. impl_item has no
// "name" field of its own — it names the type it implements through the
// "type" field instead.
func (Boundary) SymbolLocation(node *ts.Node, filePath string) extractor.Location {
	if name := node.ChildByFieldName("name"); name != nil {
		return extractor.NewLocation(name, filePath)
	}
	if typ := node.ChildByFieldName("type"); typ != nil {
		return extractor.NewLocation(typ, filePath)
	}
	return extractor.NewLocation(node, filePath)
}

func (Boundary) ScopeLocation(node *ts.Node, filePath string) extractor.Location {
	if body := node.ChildByFieldName("body"); body != nil {
		return extractor.NewLocation(body, filePath)
	}
	return extractor.NewLocation(node, filePath)
}

func (Boundary) ScopeName(node *ts.Node, source []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return string(name.Utf8Text(source))
	}
	if typ := node.ChildByFieldName("type"); typ != nil {
		return string(typ.Utf8Text(source))
	}
	return ""
}
