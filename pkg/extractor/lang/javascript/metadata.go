package javascript

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
)

// Metadata implements extractor.MetadataExtractor for JavaScript, grounded
// on the teacher's AST-walking extractTSMetadata/extractTSParameters (which
// ran on the same grammar, minus type annotations).
type Metadata struct{}

func (Metadata) ExtractTypeFromAnnotation(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	text := string(node.Utf8Text(source))
	return strings.TrimSpace(strings.TrimPrefix(text, ":"))
}

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
		case "required_parameter", "optional_parameter":
			nameNode := param.ChildByFieldName("pattern")
			if nameNode == nil {
				nameNode = param.ChildByFieldName("name")
			}
			if nameNode == nil {
				continue
			}
			p := extractor.Parameter{Name: string(nameNode.Utf8Text(source))}
			if typeNode := param.ChildByFieldName("type"); typeNode != nil {
				p.Type = m.ExtractTypeFromAnnotation(typeNode, source)
			}
			params = append(params, p)
		case "identifier":
			params = append(params, extractor.Parameter{Name: string(param.Utf8Text(source))})
		}
	}
	return params
}

func (Metadata) ExtractReceiverInfo(node *ts.Node, source []byte) string {
	return "" // JavaScript methods carry no explicit receiver type
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

// ExtractPropertyChain splits a member/subscript access chain into its
// ordered segments — a.b[0].c -> ["a","b","0","c"] — per spec.md §4.5.2.
// Index literals contribute their unquoted text as an element rather than
// the raw bracketed source, matching the dotted-path shape a.b.c uses.
func (Metadata) ExtractPropertyChain(node *ts.Node, source []byte) []string {
	return splitPropertyChain(node, source)
}

func splitPropertyChain(node *ts.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	switch node.GrammarName() {
	case "member_expression":
		chain := splitPropertyChain(node.ChildByFieldName("object"), source)
		if property := node.ChildByFieldName("property"); property != nil {
			chain = append(chain, string(property.Utf8Text(source)))
		}
		return chain
	case "subscript_expression":
		chain := splitPropertyChain(node.ChildByFieldName("object"), source)
		if index := node.ChildByFieldName("index"); index != nil {
			chain = append(chain, indexSegmentText(index, source))
		}
		return chain
	default:
		return []string{string(node.Utf8Text(source))}
	}
}

// indexSegmentText reads a subscript's index node as a chain segment,
// unquoting string literals so `a["b"]` joins the chain as "b" rather than
// the quoted source text.
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
	target := ""
	value := ""
	if t := node.ChildByFieldName("left"); t != nil {
		target = string(t.Utf8Text(source))
	}
	if v := node.ChildByFieldName("right"); v != nil {
		value = string(v.Utf8Text(source))
	}
	return target, value
}

func (Metadata) ExtractConstructTarget(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if ctor := node.ChildByFieldName("constructor"); ctor != nil {
		return string(ctor.Utf8Text(source))
	}
	return ""
}

func (Metadata) ExtractTypeArguments(node *ts.Node, source []byte) []string {
	return nil // no generics in plain JavaScript
}

func (Metadata) IsOptionalChain(node *ts.Node) bool {
	if node == nil {
		return false
	}
	return node.GrammarName() == "optional_chain" || node.ChildByFieldName("optional_chain") != nil
}

func (Metadata) IsMethodCall(node *ts.Node) bool {
	if node == nil {
		return false
	}
	fn := node.ChildByFieldName("function")
	return fn != nil && fn.GrammarName() == "member_expression"
}

func (Metadata) ExtractCallName(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	if fn.GrammarName() == "member_expression" {
		if prop := fn.ChildByFieldName("property"); prop != nil {
			return string(prop.Utf8Text(source))
		}
	}
	return string(fn.Utf8Text(source))
}
