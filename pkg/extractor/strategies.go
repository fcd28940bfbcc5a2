package extractor

import ts "github.com/tree-sitter/go-tree-sitter"

// ScopeBoundaryExtractor resolves the two locations spec.md §4.2 requires
// for every scope-introducing node: the symbol's own location (used for its
// SymbolId and containment checks against parent scopes) and the scope
// body's location (used as the LexicalScope's Location). For node kinds with
// no body — lambdas, interface method signatures — the two coincide.
type ScopeBoundaryExtractor interface {
	// ScopeKindFor maps a captured scope node's AST node type to a
	// ScopeKind. Returns false if the node type introduces no scope
	// (unreachable for nodes the per-language query captures as
	// "scope.*", but kept explicit rather than panicking).
	ScopeKindFor(nodeType string) (ScopeKind, bool)
	// SymbolLocation returns the location used to identify the scope
	// itself (e.g. a function's name, not its body).
	SymbolLocation(node *ts.Node, filePath string) Location
	// ScopeLocation returns the location of the scope's body — the span
	// every descendant reference/definition must fall within.
	ScopeLocation(node *ts.Node, filePath string) Location
	// ScopeName extracts the declared name of a scope node, if any (a
	// function or class name; empty for anonymous scopes and blocks).
	ScopeName(node *ts.Node, source []byte) string
}

// MetadataExtractor performs the per-language, per-node-shape detail
// extraction spec.md §4.6 delegates away from the generic pass logic:
// parameter/return types, receiver and call-target shapes, property access
// chains, optional chaining, and construct targets. Every method may return
// its zero value when the detail doesn't apply or isn't present in source —
// a missing metadata extraction result is never fatal per spec.md §7.
type MetadataExtractor interface {
	// ExtractTypeFromAnnotation reads a type annotation node's text as a
	// normalized type string.
	ExtractTypeFromAnnotation(node *ts.Node, source []byte) string
	// ExtractParameters reads a parameter-list node into Parameter values,
	// including type annotations where present.
	ExtractParameters(node *ts.Node, source []byte) []Parameter
	// ExtractReceiverInfo reads a method definition's receiver keyword (Rust's
	// leading `self` parameter, Python's first `self`/`cls` parameter); empty
	// when the definition has none.
	ExtractReceiverInfo(node *ts.Node, source []byte) string
	// ExtractCallReceiver reads a call expression's receiver sub-expression
	// text, empty for a bare function call.
	ExtractCallReceiver(node *ts.Node, source []byte) string
	// ExtractPropertyChain reads a member/field access expression into its
	// ordered chain segments, e.g. "a.b[0].c" -> ["a","b","0","c"], per
	// spec.md §4.5.2. Index literals contribute their unquoted text.
	ExtractPropertyChain(node *ts.Node, source []byte) []string
	// ExtractAssignmentParts reads an assignment node into (target, value)
	// text.
	ExtractAssignmentParts(node *ts.Node, source []byte) (target string, value string)
	// ExtractConstructTarget reads a `new X(...)`/constructor-call node into
	// the constructed type's name.
	ExtractConstructTarget(node *ts.Node, source []byte) string
	// ExtractTypeArguments reads generic/turbofish type arguments into a
	// slice of type strings.
	ExtractTypeArguments(node *ts.Node, source []byte) []string
	// IsOptionalChain reports whether a member/call expression uses
	// optional chaining (`?.`).
	IsOptionalChain(node *ts.Node) bool
	// IsMethodCall reports whether a call expression's callee is a member
	// access (method/self call) rather than a bare identifier.
	IsMethodCall(node *ts.Node) bool
	// ExtractCallName reads a call expression's callee name, stripping any
	// receiver prefix (use ExtractCallReceiver for that).
	ExtractCallName(node *ts.Node, source []byte) string
}
