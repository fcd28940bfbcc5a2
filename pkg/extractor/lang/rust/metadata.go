package rust

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
)

// Metadata implements extractor.MetadataExtractor for Rust, grounded on the
// ::-path / turbofish handling pattern from the pack's Rust topology walker.
type Metadata struct{}

func (Metadata) ExtractTypeFromAnnotation(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(string(node.Utf8Text(source)))
}

// ExtractParameters reads a Rust parameter list, skipping a leading "self"
// receiver — self_parameter is its own grammar node, never a plain
// "parameter", so the skip is structural rather than name-based.
func (Metadata) ExtractParameters(node *ts.Node, source []byte) []extractor.Parameter {
	if node == nil {
		return nil
	}
	var params []extractor.Parameter
	for i := uint(0); i < node.NamedChildCount(); i++ {
		param := node.NamedChild(i)
		if param == nil || param.GrammarName() == "self_parameter" {
			continue
		}
		p := extractor.Parameter{}
		if pat := param.ChildByFieldName("pattern"); pat != nil {
			p.Name = string(pat.Utf8Text(source))
		} else {
			p.Name = string(param.Utf8Text(source))
		}
		if t := param.ChildByFieldName("type"); t != nil {
			p.Type = string(t.Utf8Text(source))
		}
		params = append(params, p)
	}
	return params
}

// ExtractReceiverInfo reports "self" when the function's parameter list
// opens with a self_parameter; defineFunction (handlers.go) uses this to
// tell an impl block's methods apart from its free functions.
func (Metadata) ExtractReceiverInfo(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	params := node.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() == 0 {
		return ""
	}
	first := params.NamedChild(0)
	if first != nil && first.GrammarName() == "self_parameter" {
		return "self"
	}
	return ""
}

func (Metadata) ExtractCallReceiver(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if value := node.ChildByFieldName("value"); value != nil {
		return string(value.Utf8Text(source))
	}
	return ""
}

// ExtractPropertyChain splits a field/index access chain into its ordered
// segments — a.b[0].c -> ["a","b","0","c"] — per spec.md §4.5.2.
func (Metadata) ExtractPropertyChain(node *ts.Node, source []byte) []string {
	return splitPropertyChain(node, source)
}

func splitPropertyChain(node *ts.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	switch node.GrammarName() {
	case "field_expression":
		chain := splitPropertyChain(node.ChildByFieldName("value"), source)
		if field := node.ChildByFieldName("field"); field != nil {
			chain = append(chain, string(field.Utf8Text(source)))
		}
		return chain
	case "index_expression":
		chain := splitPropertyChain(node.ChildByFieldName("value"), source)
		if index := node.ChildByFieldName("index"); index != nil {
			chain = append(chain, indexSegmentText(index, source))
		}
		return chain
	default:
		return []string{string(node.Utf8Text(source))}
	}
}

// indexSegmentText reads an index expression's index node as a chain
// segment, unquoting string literals so a dotted path reads naturally.
func indexSegmentText(node *ts.Node, source []byte) string {
	text := string(node.Utf8Text(source))
	if node.GrammarName() == "string_literal" {
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

// ExtractConstructTarget resolves the scoped type a call targets — used for
// Self::new(...) / Type::new(...) construction idioms, the closest Rust
// comes to a dedicated "new" expression.
func (Metadata) ExtractConstructTarget(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if path := node.ChildByFieldName("path"); path != nil {
		return string(path.Utf8Text(source))
	}
	return string(node.Utf8Text(source))
}

// ExtractTypeArguments reads turbofish generic arguments (::<T, U>).
func (Metadata) ExtractTypeArguments(node *ts.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	args := node.ChildByFieldName("type_arguments")
	if args == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < args.NamedChildCount(); i++ {
		child := args.NamedChild(i)
		if child != nil {
			out = append(out, string(child.Utf8Text(source)))
		}
	}
	return out
}

func (Metadata) IsOptionalChain(node *ts.Node) bool {
	return false // Rust has no optional-chaining operator; "?" is a distinct try_expression
}

func (Metadata) IsMethodCall(node *ts.Node) bool {
	if node == nil {
		return false
	}
	fn := node.ChildByFieldName("function")
	return fn != nil && fn.GrammarName() == "field_expression"
}

func (Metadata) ExtractCallName(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.GrammarName() {
	case "field_expression":
		if field := fn.ChildByFieldName("field"); field != nil {
			return string(field.Utf8Text(source))
		}
	case "scoped_identifier":
		if name := fn.ChildByFieldName("name"); name != nil {
			return string(name.Utf8Text(source))
		}
	}
	return string(fn.Utf8Text(source))
}
