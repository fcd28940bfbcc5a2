package extractor

import "fmt"

// ErrorKind names one of the fatal conditions in spec.md §7. Every condition
// that the spec marks fatal surfaces as a *FatalError with the matching Kind;
// nothing in this package panics.
type ErrorKind string

const (
	// ErrUnknownCapture: a query capture's (category, entity) pair is not
	// recognized by any handler registry entry for the active language.
	ErrUnknownCapture ErrorKind = "unknown_capture"
	// ErrUnknownScopeBoundary: a scope-introducing node type has no
	// registered ScopeBoundaryExtractor rule for the active language.
	ErrUnknownScopeBoundary ErrorKind = "unknown_scope_boundary"
	// ErrMissingField: a handler expected a named child/field on an AST node
	// that was absent (e.g. a function declaration with no name field).
	ErrMissingField ErrorKind = "missing_field"
	// ErrAmbiguousScope: two or more containing scopes tie as the innermost
	// container (get_scope_id: same maximal depth; parent resolution: same
	// smallest area), so "smallest containing scope" has no unique answer.
	ErrAmbiguousScope ErrorKind = "ambiguous_scope"
	// ErrChildScopeNotFound: get_child_scope_with_symbol_name found no child
	// scope bound to the requested symbol name.
	ErrChildScopeNotFound ErrorKind = "child_scope_not_found"
	// ErrScopeCycle: scope_depths precomputation detected a parent cycle.
	ErrScopeCycle ErrorKind = "scope_cycle"
)

// FatalError is the single error type this package returns for every
// condition spec.md §7 designates fatal. Fields beyond Kind and Message are
// optional diagnostic context; callers needing a specific field should type
// assert on Kind rather than parse Message.
type FatalError struct {
	Kind        ErrorKind
	Message     string
	FilePath    string
	NodeType    string
	CaptureName string
	ScopeId     ScopeId
}

func (e *FatalError) Error() string {
	switch {
	case e.CaptureName != "":
		return fmt.Sprintf("%s: %s (capture=%q, file=%s)", e.Kind, e.Message, e.CaptureName, e.FilePath)
	case e.NodeType != "":
		return fmt.Sprintf("%s: %s (node=%q, file=%s)", e.Kind, e.Message, e.NodeType, e.FilePath)
	case e.ScopeId != "":
		return fmt.Sprintf("%s: %s (scope=%q, file=%s)", e.Kind, e.Message, e.ScopeId, e.FilePath)
	default:
		return fmt.Sprintf("%s: %s (file=%s)", e.Kind, e.Message, e.FilePath)
	}
}

func unknownCaptureError(filePath, captureName string) error {
	return &FatalError{
		Kind:        ErrUnknownCapture,
		Message:     "capture name does not match any known (category, entity) pair",
		FilePath:    filePath,
		CaptureName: captureName,
	}
}

func unknownScopeBoundaryError(filePath, nodeType string) error {
	return &FatalError{
		Kind:     ErrUnknownScopeBoundary,
		Message:  "node type has no registered scope boundary rule",
		FilePath: filePath,
		NodeType: nodeType,
	}
}

func missingFieldError(filePath, nodeType, field string) error {
	return &FatalError{
		Kind:     ErrMissingField,
		Message:  fmt.Sprintf("required field %q absent", field),
		FilePath: filePath,
		NodeType: nodeType,
	}
}

func ambiguousScopeError(filePath string, id ScopeId) error {
	return &FatalError{
		Kind:     ErrAmbiguousScope,
		Message:  "two or more containing scopes tie as the innermost container",
		FilePath: filePath,
		ScopeId:  id,
	}
}

func childScopeNotFoundError(filePath string, parent ScopeId, name string) error {
	return &FatalError{
		Kind:        ErrChildScopeNotFound,
		Message:     fmt.Sprintf("no child scope of %q bound to symbol name", parent),
		FilePath:    filePath,
		CaptureName: name,
		ScopeId:     parent,
	}
}

func scopeCycleError(filePath string, id ScopeId) error {
	return &FatalError{
		Kind:     ErrScopeCycle,
		Message:  "scope parent chain cycles back on itself",
		FilePath: filePath,
		ScopeId:  id,
	}
}
