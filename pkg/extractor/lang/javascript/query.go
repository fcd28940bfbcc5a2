// Package javascript wires the JavaScript grammar into the semantic
// indexer: one unified tree-sitter query plus the scope-boundary and
// metadata strategies extractor.BuildSemanticIndex dispatches through.
package javascript

// Query is the single per-language query spec.md §4.1 describes: one
// compiled pattern set yielding every scope/definition/reference/import/
// export/assignment/return capture for a JavaScript file in one pass.
//
// Every pattern captures exactly one node per match — the handler that owns
// that (category, entity) walks to parent/sibling fields itself via
// ChildByFieldName rather than relying on a second capture in the same
// match, so a match never dispatches to two handlers at once.
const Query = `
; -- scopes -------------------------------------------------------------
(function_declaration) @scope.function
(function_expression) @scope.function
(arrow_function) @scope.function
(generator_function_declaration) @scope.function
(class_declaration) @scope.class
(method_definition) @scope.method

; -- definitions ----------------------------------------------------------
(function_declaration
  name: (identifier) @definition.function
)

(variable_declarator
  name: (identifier) @definition.function
  value: (function_expression)
)

(variable_declarator
  name: (identifier) @definition.variable
  value: (arrow_function)
)

(class_declaration
  name: (identifier) @definition.class
)

(method_definition
  name: (property_identifier) @definition.method
  (#not-eq? @definition.method "constructor")
)

(method_definition
  name: (property_identifier) @definition.constructor
  (#eq? @definition.constructor "constructor")
)

(field_definition
  property: (property_identifier) @definition.property
)

(lexical_declaration
  (variable_declarator
    name: (identifier) @definition.variable
  )
)

(variable_declaration
  (variable_declarator
    name: (identifier) @definition.variable
  )
)

; -- imports ----------------------------------------------------------------
(import_clause (identifier) @definition.import)
(import_specifier name: (identifier) @definition.import)
(namespace_import (identifier) @definition.import)

; -- export decorations -----------------------------------------------------
(export_statement
  declaration: (_) @export.named
)

(export_statement
  "default"
  value: (_) @export.default
)

; -- references ---------------------------------------------------------
(call_expression
  function: (identifier) @reference.function_call
)

(call_expression
  function: (member_expression) @reference.method_call
)

(new_expression
  constructor: (identifier) @reference.constructor_call
)

(member_expression) @reference.property_access

(identifier) @reference.read

(assignment_expression
  left: (_) @reference.assignment
)

(return_statement
  (_) @return.value
)
`
