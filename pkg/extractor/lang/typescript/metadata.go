package typescript

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor/lang/javascript"
)

// Metadata extends javascript.Metadata with TypeScript generics, which
// plain JavaScript's grammar has no node shape for.
type Metadata struct {
	javascript.Metadata
}

func (m Metadata) ExtractTypeArguments(node *ts.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	args := node.ChildByFieldName("type_arguments")
	if args == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < args.NamedChildCount(); i++ {
		if c := args.NamedChild(i); c != nil {
			out = append(out, string(c.Utf8Text(source)))
		}
	}
	return out
}
