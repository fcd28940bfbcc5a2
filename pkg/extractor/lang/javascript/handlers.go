package javascript

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/extractor"
	"github.com/gnana997/semindex/pkg/parser"
)

func init() {
	extractor.RegisterLanguage(parser.LanguageJavaScript, Query, Registry())
}

var registry *extractor.HandlerRegistry

// Registry returns the JavaScript HandlerRegistry, building it once. Kept
// as a function (rather than a package var initialized inline) so
// typescript.Registry() can call it directly and extend the result without
// relying on Go's package init ordering across packages.
func Registry() *extractor.HandlerRegistry {
	if registry != nil {
		return registry
	}
	r := extractor.NewHandlerRegistry(Boundary{}, Metadata{})

	r.RegisterScope("function")
	r.RegisterScope("class")
	r.RegisterScope("method")

	r.RegisterDefinition(extractor.CategoryDefinition, "function", defineFunction)
	r.RegisterDefinition(extractor.CategoryDefinition, "variable", defineVariable)
	r.RegisterDefinition(extractor.CategoryDefinition, "class", defineClass)
	r.RegisterDefinition(extractor.CategoryDefinition, "method", defineMethod)
	r.RegisterDefinition(extractor.CategoryDefinition, "constructor", defineConstructor)
	r.RegisterDefinition(extractor.CategoryDefinition, "property", defineProperty)
	r.RegisterDefinition(extractor.CategoryImport, "import", defineImport)

	r.RegisterDecorator(extractor.CategoryExport, "named", markExportedNamed)
	r.RegisterDecorator(extractor.CategoryExport, "default", markExportedDefault)

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

// paramsAndReturn reads a callable node's "parameters"/"return_type" fields
// using the language's MetadataExtractor. node is the call site's defining
// node (function_declaration, method_definition, ...), not the name node
// the capture targeted.
func paramsAndReturn(node *ts.Node, source []byte, meta extractor.MetadataExtractor) (extractor.Signature, string) {
	if node == nil {
		return extractor.Signature{}, ""
	}
	sig := extractor.Signature{}
	if params := node.ChildByFieldName("parameters"); params != nil {
		sig.Parameters = meta.ExtractParameters(params, source)
	}
	returnType := ""
	if rt := node.ChildByFieldName("return_type"); rt != nil {
		returnType = meta.ExtractTypeFromAnnotation(rt, source)
	}
	return sig, returnType
}

func defineFunction(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	sig, returnType := paramsAndReturn(c.Node.Parent(), b.Source(), b.Metadata())
	return b.AddFunction(name, loc, sig, returnType)
}

// defineVariable tags the binding with its declaration keyword (let/var/
// const) per spec.md §3.4's kind_tag attribute, walking up from the
// declarator to the enclosing lexical_declaration/variable_declaration node
// that actually carries the keyword as its first child.
func defineVariable(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	declarator := c.Node.Parent()
	from := ""
	if value := declarator.ChildByFieldName("value"); value != nil {
		from = derivedFromCall(value, b.Source())
	}
	return b.AddDerivedVariable(name, loc, variableKind(declarator), "", from)
}

// derivedFromCall reports the receiver identifier of a `SOURCE.get(...)`-
// shaped initializer, e.g. CONFIG.get('k') -> "CONFIG", per spec.md §4.4.3.
// Anything else (no call, non-member callee, non-identifier receiver)
// returns "".
func derivedFromCall(value *ts.Node, source []byte) string {
	if value == nil || value.GrammarName() != "call_expression" {
		return ""
	}
	fn := value.ChildByFieldName("function")
	if fn == nil || fn.GrammarName() != "member_expression" {
		return ""
	}
	obj := fn.ChildByFieldName("object")
	if obj == nil || obj.GrammarName() != "identifier" {
		return ""
	}
	return string(obj.Utf8Text(source))
}

func variableKind(declarator *ts.Node) extractor.VariableKindTag {
	decl := declarator
	for decl != nil && decl.GrammarName() != "lexical_declaration" && decl.GrammarName() != "variable_declaration" {
		decl = decl.Parent()
	}
	if decl == nil {
		return extractor.VarKindConst
	}
	if decl.GrammarName() == "variable_declaration" {
		return extractor.VarKindVar
	}
	if kw := decl.Child(0); kw != nil && kw.GrammarName() == "let" {
		return extractor.VarKindLet
	}
	return extractor.VarKindConst
}

func defineClass(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.AddClass(name, loc)
}

func defineMethod(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	sig, returnType := paramsAndReturn(c.Node.Parent(), b.Source(), b.Metadata())
	return b.AddMethod(name, loc, sig, returnType)
}

func defineConstructor(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	sig, _ := paramsAndReturn(c.Node.Parent(), b.Source(), b.Metadata())
	return b.AddConstructor(name, loc, sig)
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

// defineImport reads the import statement's source string from the
// definition node's sibling "source" field — tree-sitter's import_statement
// always carries it directly, regardless of which clause shape matched.
func defineImport(b *extractor.DefinitionBuilder, c extractor.Capture) (extractor.SymbolId, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())

	path := ""
	stmt := c.Node.Parent()
	for stmt != nil && stmt.GrammarName() != "import_statement" {
		stmt = stmt.Parent()
	}
	kind := extractor.ImportNamed
	if stmt != nil {
		if src := stmt.ChildByFieldName("source"); src != nil {
			path = strings.Trim(string(src.Utf8Text(b.Source())), `"'`)
		}
		if clause := stmt.Child(1); clause != nil && clause.GrammarName() == "import_clause" {
			if first := clause.NamedChild(0); first != nil {
				switch first.GrammarName() {
				case "identifier":
					kind = extractor.ImportDefault
				case "namespace_import":
					kind = extractor.ImportNamespace
				}
			}
		}
	}
	if path == "" && stmt == nil {
		kind = extractor.ImportSideEffect
	}

	return b.AddImport(name, loc, path, kind, "")
}

func markExportedNamed(b *extractor.DefinitionBuilder, c extractor.Capture) error {
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	b.MarkExported(loc, extractor.ExportInfo{})
	return nil
}

func markExportedDefault(b *extractor.DefinitionBuilder, c extractor.Capture) error {
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	b.MarkExported(loc, extractor.ExportInfo{IsDefault: true})
	return nil
}

func referenceFunctionCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	return b.NewReference(extractor.RefFunctionCall, name, loc)
}

// referenceMethodCall classifies a.b.c()-shaped calls. A leading this/super
// receiver is a self-reference call instead of a plain method call, per
// spec.md §4.5.1 rules 5-7.
func referenceMethodCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	chain := b.Metadata().ExtractPropertyChain(&c.Node, b.Source())
	name := ""
	if len(chain) > 0 {
		name = chain[len(chain)-1]
	}

	if keyword := selfReferenceKeyword(chain); keyword != "" {
		ref, err := b.NewReference(extractor.RefSelfReferenceCall, name, loc)
		if err != nil {
			return ref, err
		}
		ref.SelfKeyword = keyword
		ref.Receiver = keyword
		ref.PropertyChain = chain
		return ref, nil
	}

	receiver := ""
	if len(chain) > 1 {
		receiver = strings.Join(chain[:len(chain)-1], ".")
	}
	ref, err := b.NewReference(extractor.RefMethodCall, name, loc)
	if err != nil {
		return ref, err
	}
	ref.Receiver = receiver
	ref.PropertyChain = chain
	return ref, nil
}

// selfReferenceKeyword reports chain's leading segment when it names a
// self/super receiver, per spec.md §4.5.1 rules 5-7; "" otherwise.
func selfReferenceKeyword(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	switch chain[0] {
	case "this", "super":
		return chain[0]
	}
	return ""
}

func referenceConstructorCall(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	name := string(c.Node.Utf8Text(b.Source()))
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefConstructorCall, name, loc)
	if err != nil {
		return ref, err
	}
	ref.ConstructTarget = name
	return ref, nil
}

func referencePropertyAccess(b *extractor.ReferenceBuilder, c extractor.Capture) (extractor.SymbolReference, error) {
	text := string(c.Node.Utf8Text(b.Source()))
	chain := b.Metadata().ExtractPropertyChain(&c.Node, b.Source())
	loc := extractor.NewLocation(&c.Node, b.FilePath())
	ref, err := b.NewReference(extractor.RefPropertyAccess, text, loc)
	if err != nil {
		return ref, err
	}
	ref.PropertyChain = chain
	ref.IsOptionalChain = b.Metadata().IsOptionalChain(&c.Node)
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
