package typescript

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/extractor/lang/javascript"
)

// Boundary extends javascript.Boundary with TypeScript-only scope shapes:
// interfaces (no body keyword but a "body" field of declarations), and
// namespaces/modules.
type Boundary struct {
	javascript.Boundary
}

func (b Boundary) ScopeKindFor(nodeType string) (extractor.ScopeKind, bool) {
	switch nodeType {
	case "interface_declaration":
		return extractor.ScopeClass, true
	case "module":
		return extractor.ScopeBlock, true
	case "method_signature":
		// spec.md §9 Open Question: an interface method signature has no
		// body, so its own span is both its symbol location and its scope
		// location — matching the general "no body ⇒ coincide" rule used
		// for lambdas.
		return extractor.ScopeMethod, true
	default:
		return b.Boundary.ScopeKindFor(nodeType)
	}
}

func (b Boundary) ScopeLocation(node *ts.Node, filePath string) extractor.Location {
	if node.GrammarName() == "method_signature" {
		return extractor.NewLocation(node, filePath)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		return extractor.NewLocation(body, filePath)
	}
	return b.Boundary.ScopeLocation(node, filePath)
}
