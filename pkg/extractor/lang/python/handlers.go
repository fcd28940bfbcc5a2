package python

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/parser"
)

func init() {
	extractor.RegisterLanguage(parser.LanguagePython, Query, Registry())
}

var registry *extractor.HandlerRegistry

func Registry() *extractor.HandlerRegistry {
	if registry != nil {
		return registry
	}
	r := extractor.NewHandlerRegistry(Boundary{}, Metadata{})

	r.RegisterScope("function")
	r.RegisterScope("class")

	r.RegisterDefinition(extractor.CategoryDefinition, "function", defineFunction)
	r.RegisterDefinition(extractor.CategoryDefinition, "class", defineClass)
	r.RegisterDefinition(extractor.CategoryDefinition, "variable", defineVariable)
	r.RegisterDefinition(extractor.CategoryImport, "import", defineImport)

	r.RegisterDecorator(extractor.CategoryDefinition, "doc", setDoc)
	r.RegisterDecorator(extractor.CategoryDecorator, "name", addDecorator)

	r.RegisterReference(extractor.CategoryReference, "function_call", referenceFunctionCall)
	r.RegisterReference(extractor.CategoryReference, "method_call", referenceMethodCall)
	r.RegisterReference(extractor.CategoryReference, "self_reference_call", referenceSelfCall)
	r.RegisterReference(extractor.CategoryReference, "property_access", referencePropertyAccess)
	r.RegisterReference(extractor.CategoryReference, "read", referenceRead)
	r.RegisterReference(extractor.CategoryReference, "assignment", referenceAssignment)
	r.RegisterReference(extractor.CategoryReturn, "value", referenceReturn)

	registry = r
	return r
}

func defineFunction(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	def := c.Node.Parent()

	receiver := b.Metadata().ExtractReceiverInfo(def, b.Source())
	var sig extractor.Signature
	var returnType string
	if params := def.ChildByFieldName("parameters"); params != nil {
		sig.Parameters = b.Metadata().ExtractParameters(params, b.Source())
	}
	if rt := def.ChildByFieldName("return_type"); rt != nil {
		returnType = b.Metadata().ExtractTypeFromAnnotation(rt, b.Source())
	}

	if receiver != "" {
		if name == "__init__" {
			return b.AddConstructor(name, loc, sig)
		}
		return b.AddMethod(name, loc, sig, returnType)
	}
	return b.AddFunction(name, loc, sig, returnType)
}

func defineClass(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddClass(name, loc)
}

func defineVariable(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	from := ""
	if value := c.Node.Parent().ChildByFieldName("right"); value != nil {
		from = derivedFromCall(value, b.Source())
	}
	return b.AddDerivedVariable(name, loc, extractor.VarKindConstant, "", from)
}

// derivedFromCall reports the receiver identifier of a `SOURCE.get(...)`-
// shaped initializer, e.g. CONFIG.get("k") -> "CONFIG", per spec.md §4.4.3.
func derivedFromCall(value *ts.Node, source []byte) string {
	if value == nil || value.GrammarName() != "call" {
		return ""
	}
	fn := value.ChildByFieldName("function")
	if fn == nil || fn.GrammarName() != "attribute" {
		return ""
	}
	obj := fn.ChildByFieldName("object")
	if obj == nil || obj.GrammarName() != "identifier" {
		return ""
	}
	return string(obj.Utf8Text(source))
}

func defineImport(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddImport(name, loc, name, extractor.ImportNamed, "")
}

// setDoc attaches a leading docstring to the nearest enclosing function or
// class definition, per spec.md §4.4.4. The capture targets the docstring
// string literal itself, so this walks up to the enclosing definition's own
// name location before calling SetDocstring.
func setDoc(b *extractor.DefinitionBuilder, c extractor.Capture) error {
	doc := strings.Trim(string(c.Node.Utf8Text(b.Source())), `"' `)

	owner := enclosingDefinition(&c.Node)
	if owner == nil {
		return nil
	}
	nameNode := owner.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	loc := extractor.NewLocation(nameNode, b.FilePath())
	b.SetDocstring(loc, doc)
	return nil
}

func enclosingDefinition(node *ts.Node) *ts.Node {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.GrammarName() {
		case "function_definition", "class_definition":
			return cur
		}
	}
	return nil
}

func addDecorator(b *extractor.DefinitionBuilder, c extractor.Capture) error {
	text := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	b.AddDecorator(loc, text)
	return nil
}

func referenceFunctionCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.NewReference(extractor.RefFunctionCall, name, loc)
}

func referenceMethodCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	chain := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	name := b.Metadata().ExtractCallName(c.Node.Parent(), b.Source())
	receiver := b.Metadata().ExtractCallReceiver(&c.Node, b.Source())
	if name == "" {
		name = chain
	}
	ref, err := b.NewReference(extractor.RefMethodCall, name, loc)
	if err != nil {
		return ref, err
	}
	ref.Receiver = receiver
	ref.PropertyChain = b.Metadata().ExtractPropertyChain(&c.Node, b.Source())
	return ref, nil
}

// referenceSelfCall fires for `self.foo()`/`cls.foo()` calls; the leading
// identifier is read straight off the attribute's object field rather than
// assumed, so self/cls aren't conflated, per spec.md §4.5.1 rules 5-7.
func referenceSelfCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := b.Metadata().ExtractCallName(&c.Node, b.Source())
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefSelfReferenceCall, name, loc)
	if err != nil {
		return ref, err
	}
	fn := c.Node.ChildByFieldName("function")
	keyword := ""
	if fn != nil {
		if obj := fn.ChildByFieldName("object"); obj != nil {
			keyword = string(obj.Utf8Text(b.Source()))
		}
	}
	ref.Receiver = keyword
	ref.SelfKeyword = keyword
	ref.PropertyChain = b.Metadata().ExtractPropertyChain(fn, b.Source())
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
