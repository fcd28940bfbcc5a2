package typescript

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/extractor/lang/javascript"
	"github.com/gnana997/semindex/pkg/parser"
)

func init() {
	extractor.RegisterLanguage(parser.LanguageTypeScript, Query, Registry())
}

var registry *extractor.HandlerRegistry

// Registry builds the TypeScript registry as the JavaScript registry plus
// TypeScript-only entries, per spec.md §4.4.1.
func Registry() *extractor.HandlerRegistry {
	if registry != nil {
		return registry
	}
	r := extractor.NewHandlerRegistry(Boundary{}, Metadata{})
	r.ExtendFrom(javascript.Registry())

	r.RegisterScope("block")

	r.RegisterDefinition(extractor.CategoryDefinition, "interface", defineInterface)
	r.RegisterDefinition(extractor.CategoryDefinition, "enum", defineEnum)
	r.RegisterDefinition(extractor.CategoryDefinition, "namespace", defineNamespace)
	r.RegisterDefinition(extractor.CategoryDefinition, "type_alias", defineTypeAlias)

	r.RegisterReference(extractor.CategoryReference, "type_reference", referenceTypeReference)

	registry = r
	return r
}

func defineInterface(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddInterface(name, loc)
}

func defineNamespace(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddNamespace(name, loc)
}

func defineTypeAlias(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	underlying := ""
	if parent := c.Node.Parent(); parent != nil {
		if v := parent.ChildByFieldName("value"); v != nil {
			underlying = string(v.Utf8Text(b.Source()))
		}
	}
	return b.AddTypeAlias(name, loc, underlying)
}

func defineEnum(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())

	var members []extractor.EnumMember
	if parent := c.Node.Parent(); parent != nil {
		if body := parent.ChildByFieldName("body"); body != nil {
			for i := uint(0); i < body.NamedChildCount(); i++ {
				member := body.NamedChild(i)
				if member == nil {
					continue
				}
				if nameNode := member.ChildByFieldName("name"); nameNode != nil {
					em := extractor.EnumMember{Name: string(nameNode.Utf8Text(b.Source()))}
					if val := member.ChildByFieldName("value"); val != nil {
						em.Value = string(val.Utf8Text(b.Source()))
					}
					members = append(members, em)
				} else if member.GrammarName() == "property_identifier" {
					// A member without an initializer is a bare name node.
					members = append(members, extractor.EnumMember{Name: string(member.Utf8Text(b.Source()))})
				}
			}
		}
	}

	return b.AddEnum(name, loc, members, false)
}

// referenceTypeReference handles the type_reference capture's three shapes
// (plain annotation, extends_clause, implements_clause) distinguished by
// c.Subtag, and attaches the TypeInfo the spec's type_reference variant
// requires, per spec.md §3.5.
func referenceTypeReference(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefTypeReference, name, loc)
	if err != nil {
		return ref, err
	}

	context := c.Subtag
	if context == "" {
		context = "annotation"
	}
	ref.Context = context

	parent := c.Node.Parent()
	info := &extractor.TypeInfo{
		TypeName:  name,
		Certainty: extractor.TypeCertaintyDeclared,
	}
	if parent != nil && parent.GrammarName() == "generic_type" {
		info.TypeArguments = b.Metadata().ExtractTypeArguments(parent, b.Source())
	}
	info.IsNullable = isNullableTypeNode(&c.Node, b.Source())
	ref.TypeInfo = info
	return ref, nil
}

// isNullableTypeNode reports whether node sits inside a union_type that
// also carries a "null" or "undefined" member (a literal_type or
// predefined_type node, depending on the grammar version) — tree-sitter
// parses multi-member unions as a left-recursive binary tree, so this walks
// up through nested union_type ancestors rather than checking one parent.
func isNullableTypeNode(node *ts.Node, source []byte) bool {
	for cur := node.Parent(); cur != nil && cur.GrammarName() == "union_type"; cur = cur.Parent() {
		if hasNullMember(cur, source) {
			return true
		}
	}
	return false
}

func hasNullMember(node *ts.Node, source []byte) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.GrammarName() == "union_type" {
			if hasNullMember(child, source) {
				return true
			}
			continue
		}
		if child.GrammarName() == "predefined_type" || child.GrammarName() == "literal_type" {
			text := string(child.Utf8Text(source))
			if text == "null" || text == "undefined" {
				return true
			}
		}
	}
	return false
}
