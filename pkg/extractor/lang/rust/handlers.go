package rust

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/parser"
)

func init() {
	extractor.RegisterLanguage(parser.LanguageRust, Query, Registry())
}

var registry *extractor.HandlerRegistry

func Registry() *extractor.HandlerRegistry {
	if registry != nil {
		return registry
	}
	r := extractor.NewHandlerRegistry(Boundary{}, Metadata{})

	r.RegisterScope("function")
	r.RegisterScope("class")
	r.RegisterScope("block")

	r.RegisterDefinition(extractor.CategoryDefinition, "class", defineStruct)
	r.RegisterDefinition(extractor.CategoryDefinition, "interface", defineTrait)
	r.RegisterDefinition(extractor.CategoryDefinition, "namespace", defineMod)
	r.RegisterDefinition(extractor.CategoryDefinition, "type_alias", defineTypeAlias)
	r.RegisterDefinition(extractor.CategoryDefinition, "enum", defineEnum)
	r.RegisterDefinition(extractor.CategoryDefinition, "function", defineFunction)
	r.RegisterDefinition(extractor.CategoryDefinition, "property", defineProperty)
	r.RegisterDefinition(extractor.CategoryDefinition, "variable", defineVariable)
	r.RegisterDefinition(extractor.CategoryImport, "import", defineImport)

	r.RegisterReference(extractor.CategoryReference, "function_call", referenceFunctionCall)
	r.RegisterReference(extractor.CategoryReference, "method_call", referenceMethodCall)
	r.RegisterReference(extractor.CategoryReference, "constructor_call", referenceConstructorCall)
	r.RegisterReference(extractor.CategoryReference, "property_access", referencePropertyAccess)
	r.RegisterReference(extractor.CategoryReference, "read", referenceRead)
	r.RegisterReference(extractor.CategoryReference, "assignment", referenceAssignment)
	r.RegisterReference(extractor.CategoryReturn, "value", referenceReturn)

	registry = r
	return r
}

func defineStruct(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddClass(name, loc)
}

func defineTrait(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddInterface(name, loc)
}

func defineMod(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddNamespace(name, loc)
}

func defineTypeAlias(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	underlying := ""
	if t := c.Node.Parent().ChildByFieldName("type"); t != nil {
		underlying = string(t.Utf8Text(b.Source()))
	}
	return b.AddTypeAlias(name, loc, underlying)
}

func defineEnum(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())

	var members []extractor.EnumMember
	enumNode := c.Node.Parent()
	if body := enumNode.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			variant := body.NamedChild(i)
			if variant == nil || variant.GrammarName() != "enum_variant" {
				continue
			}
			if vname := variant.ChildByFieldName("name"); vname != nil {
				members = append(members, extractor.EnumMember{Name: string(vname.Utf8Text(b.Source()))})
			}
		}
	}
	return b.AddEnum(name, loc, members, false)
}

// defineFunction distinguishes a free function from a method by whether its
// parameter list opens with a self_parameter — impl/trait bodies hold both
// shapes side by side, so the receiver check (not the enclosing scope kind)
// is what tells them apart, matching Python's __init__/self convention. The
// one exception is an associated function named new inside an impl block:
// it is recorded as the type's constructor whether or not it takes self.
func defineFunction(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	def := c.Node.Parent()

	var sig extractor.Signature
	returnType := ""
	if params := def.ChildByFieldName("parameters"); params != nil {
		sig.Parameters = b.Metadata().ExtractParameters(params, b.Source())
	}
	if rt := def.ChildByFieldName("return_type"); rt != nil {
		returnType = b.Metadata().ExtractTypeFromAnnotation(rt, b.Source())
	}

	if name == "new" {
		for p := def.Parent(); p != nil; p = p.Parent() {
			if p.GrammarName() == "impl_item" {
				return b.AddConstructor(name, loc, sig)
			}
			if p.GrammarName() == "function_item" {
				break
			}
		}
	}
	if b.Metadata().ExtractReceiverInfo(def, b.Source()) == "self" {
		return b.AddMethod(name, loc, sig, returnType)
	}
	return b.AddFunction(name, loc, sig, returnType)
}

func defineProperty(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	typ := ""
	if t := c.Node.Parent().ChildByFieldName("type"); t != nil {
		typ = b.Metadata().ExtractTypeFromAnnotation(t, b.Source())
	}
	return b.AddProperty(name, loc, typ)
}

func defineVariable(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	decl := c.Node.Parent()
	kind := extractor.VarKindLet
	switch decl.GrammarName() {
	case "const_item":
		kind = extractor.VarKindConst
	case "static_item":
		kind = extractor.VarKindConstant
	}
	typ := ""
	if t := decl.ChildByFieldName("type"); t != nil {
		typ = b.Metadata().ExtractTypeFromAnnotation(t, b.Source())
	}
	from := ""
	if value := decl.ChildByFieldName("value"); value != nil {
		from = derivedFromCall(value, b.Source())
	}
	return b.AddDerivedVariable(name, loc, kind, typ, from)
}

// derivedFromCall reports the receiver identifier of a `SOURCE.get(...)`-
// shaped initializer, e.g. CONFIG.get("k") -> "CONFIG", per spec.md §4.4.3.
func derivedFromCall(value *ts.Node, source []byte) string {
	if value == nil || value.GrammarName() != "call_expression" {
		return ""
	}
	fn := value.ChildByFieldName("function")
	if fn == nil || fn.GrammarName() != "field_expression" {
		return ""
	}
	obj := fn.ChildByFieldName("value")
	if obj == nil || obj.GrammarName() != "identifier" {
		return ""
	}
	return string(obj.Utf8Text(source))
}

func defineImport(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())

	path := name
	stmt := c.Node.Parent()
	for stmt != nil && stmt.GrammarName() != "use_declaration" {
		stmt = stmt.Parent()
	}
	if stmt != nil {
		if arg := stmt.ChildByFieldName("argument"); arg != nil {
			path = strings.TrimSpace(string(arg.Utf8Text(b.Source())))
		}
	}
	return b.AddImport(name, loc, path, extractor.ImportNamed, "")
}

func referenceFunctionCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.NewReference(extractor.RefFunctionCall, name, loc)
}

func referenceMethodCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	name := b.Metadata().ExtractCallName(c.Node.Parent(), b.Source())
	receiver := b.Metadata().ExtractCallReceiver(&c.Node, b.Source())
	if name == "" {
		name = string(c.Node.Utf8Text(b.Source()))
	}
	ref, err := b.NewReference(extractor.RefMethodCall, name, loc)
	if err != nil {
		return ref, err
	}
	ref.Receiver = receiver
	ref.PropertyChain = b.Metadata().ExtractPropertyChain(&c.Node, b.Source())
	return ref, nil
}

// referenceConstructorCall fires for scoped calls like Self::new(...) or
// Type::new(...) — Rust's closest equivalent to a "new" expression, since
// the language has no dedicated construction syntax of its own.
func referenceConstructorCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefConstructorCall, name, loc)
	if err != nil {
		return ref, err
	}
	ref.ConstructTarget = b.Metadata().ExtractConstructTarget(&c.Node, b.Source())
	return ref, nil
}

func referencePropertyAccess(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	text := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefPropertyAccess, text, loc)
	if err != nil {
		return ref, err
	}
	ref.PropertyChain = b.Metadata().ExtractPropertyChain(&c.Node, b.Source())
	return ref, nil
}

func referenceRead(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.NewReference(extractor.RefRead, name, loc)
}

func referenceAssignment(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	target, value := b.Metadata().ExtractAssignmentParts(c.Node.Parent(), b.Source())
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefAssignment, target, loc)
	if err != nil {
		return ref, err
	}
	ref.AssignedValue = value
	return ref, nil
}

func referenceReturn(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	value := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefReturn, "", loc)
	if err != nil {
		return ref, err
	}
	ref.ReturnedValue = value
	return ref, nil
}
