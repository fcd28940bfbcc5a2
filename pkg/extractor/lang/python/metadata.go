package python

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
)

// Metadata implements extractor.MetadataExtractor for Python.
type Metadata struct{}

func (Metadata) ExtractTypeFromAnnotation(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(string(node.Utf8Text(source)))
}

// ExtractParameters reads a Python parameter list, skipping the leading
// "self"/"cls" receiver parameter — that's exposed instead through
// ExtractReceiverInfo, per spec.md §4.6.
func (m Metadata) ExtractParameters(node *ts.Node, source []byte) []extractor.Parameter {
	if node == nil {
		return nil
	}
	var params []extractor.Parameter
	for i := uint(0); i < node.NamedChildCount(); i++ {
		param := node.NamedChild(i)
		if param == nil {
			continue
		}
		switch param.GrammarName() {
		case "identifier":
			name := string(param.Utf8Text(source))
			if name == "self" || name == "cls" {
				continue
			}
			params = append(params, extractor.Parameter{Name: name})
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			nameNode := param.ChildByFieldName("name")
			if nameNode == nil {
				nameNode = param.NamedChild(0)
			}
			if nameNode == nil {
				continue
			}
			name := string(nameNode.Utf8Text(source))
			if name == "self" || name == "cls" {
				continue
			}
			p := extractor.Parameter{Name: name}
			if t := param.ChildByFieldName("type"); t != nil {
				p.Type = m.ExtractTypeFromAnnotation(t, source)
			}
			params = append(params, p)
		}
	}
	return params
}

func (Metadata) ExtractReceiverInfo(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	params := node.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() == 0 {
		return ""
	}
	first := params.NamedChild(0)
	if first == nil {
		return ""
	}
	name := string(first.Utf8Text(source))
	if name == "self" || name == "cls" {
		return name
	}
	return ""
}

func (Metadata) ExtractCallReceiver(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if obj := node.ChildByFieldName("object"); obj != nil {
		return string(obj.Utf8Text(source))
	}
	return ""
}

// ExtractPropertyChain splits an attribute/subscript access chain into its
// ordered segments — a.b[0].c -> ["a","b","0","c"] — per spec.md §4.5.2.
func (Metadata) ExtractPropertyChain(node *ts.Node, source []byte) []string {
	return splitPropertyChain(node, source)
}

func splitPropertyChain(node *ts.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	switch node.GrammarName() {
	case "attribute":
		chain := splitPropertyChain(node.ChildByFieldName("object"), source)
		if attr := node.ChildByFieldName("attribute"); attr != nil {
			chain = append(chain, string(attr.Utf8Text(source)))
		}
		return chain
	case "subscript":
		chain := splitPropertyChain(node.ChildByFieldName("value"), source)
		if sub := node.ChildByFieldName("subscript"); sub != nil {
			chain = append(chain, indexSegmentText(sub, source))
		}
		return chain
	default:
		return []string{string(node.Utf8Text(source))}
	}
}

// indexSegmentText reads a subscript's index node as a chain segment,
// unquoting string literals so CONFIG["k"] joins the chain as "k" rather
// than the quoted source text.
func indexSegmentText(node *ts.Node, source []byte) string {
	text := string(node.Utf8Text(source))
	if node.GrammarName() == "string" {
		return strings.Trim(text, `"'`)
	}
	return text
}

func (Metadata) ExtractAssignmentParts(node *ts.Node, source []byte) (string, string) {
	if node == nil {
		return "", ""
	}
	target, value := "", ""
	if t := node.ChildByFieldName("left"); t != nil {
		target = string(t.Utf8Text(source))
	}
	if v := node.ChildByFieldName("right"); v != nil {
		value = string(v.Utf8Text(source))
	}
	return target, value
}

func (Metadata) ExtractConstructTarget(node *ts.Node, source []byte) string {
	// Python has no dedicated "new" node; a constructor call is just a call
	// to a capitalized callable, which the call handler already reports as
	// a function_call — this is intentionally a no-op.
	return ""
}

func (Metadata) ExtractTypeArguments(node *ts.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	sub := node.ChildByFieldName("subscript")
	if sub == nil {
		return nil
	}
	return []string{string(sub.Utf8Text(source))}
}

func (Metadata) IsOptionalChain(node *ts.Node) bool {
	return false // Python has no optional-chaining operator
}

func (Metadata) IsMethodCall(node *ts.Node) bool {
	if node == nil {
		return false
	}
	fn := node.ChildByFieldName("function")
	return fn != nil && fn.GrammarName() == "attribute"
}

func (Metadata) ExtractCallName(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	if fn.GrammarName() == "attribute" {
		if attr := fn.ChildByFieldName("attribute"); attr != nil {
			return string(attr.Utf8Text(source))
		}
	}
	return string(fn.Utf8Text(source))
}
