package javascript

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
)

// Boundary implements extractor.ScopeBoundaryExtractor for JavaScript.
type Boundary struct{}

func (Boundary) ScopeKindFor(nodeType string) (extractor.ScopeKind, bool) {
	switch nodeType {
	case "function_declaration", "function_expression", "arrow_function", "generator_function_declaration":
		return extractor.ScopeFunction, true
	case "class_declaration":
		return extractor.ScopeClass, true
	case "method_definition":
		return extractor.ScopeMethod, true
	default:
		return "", false
	}
}

// SymbolLocation returns the declared name's location where one exists,
// falling back to the whole node for anonymous scopes (arrow/function
// expressions) — there is no narrower span to prefer.
func (Boundary) SymbolLocation(node *ts.Node, filePath string) extractor.Location {
	if name := node.ChildByFieldName("name"); name != nil {
		return extractor.NewLocation(name, filePath)
	}
	return extractor.NewLocation(node, filePath)
}

// ScopeLocation returns the body block's span — the scope's actual
// containment boundary, per spec.md §4.2's body-not-declaration rule.
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
	return ""
}
