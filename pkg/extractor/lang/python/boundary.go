package python

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
)

// Boundary implements extractor.ScopeBoundaryExtractor for Python. Grounded
// on the decorated_definition-unwrap and self/cls handling pattern common
// to Python AST walkers in the corpus.
type Boundary struct{}

func (Boundary) ScopeKindFor(nodeType string) (extractor.ScopeKind, bool) {
	switch nodeType {
	case "function_definition":
		return extractor.ScopeFunction, true
	case "class_definition":
		return extractor.ScopeClass, true
	default:
		return "", false
	}
}

func (Boundary) SymbolLocation(node *ts.Node, filePath string) extractor.Location {
	if name := node.ChildByFieldName("name"); name != nil {
		return extractor.NewLocation(name, filePath)
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
	return ""
}
