// Package rust wires the Rust grammar into the semantic indexer. Rust's
// "impl" blocks own functions the same way JS/Python classes own methods,
// so impl bodies are modeled as ScopeClass and the functions inside them as
// methods — see Boundary.
package rust

// Query is Rust's unified per-language query.
const Query = `
; -- scopes -------------------------------------------------------------
(function_item) @scope.function
(impl_item) @scope.class
(mod_item) @scope.block
(trait_item) @scope.class

; -- definitions ----------------------------------------------------------
(struct_item
  name: (type_identifier) @definition.class
)

(trait_item
  name: (type_identifier) @definition.interface
)

(mod_item
  name: (identifier) @definition.namespace
)

(type_item
  name: (type_identifier) @definition.type_alias
)

(enum_item
  name: (type_identifier) @definition.enum
)

(function_item
  name: (identifier) @definition.function
)

(field_declaration
  name: (field_identifier) @definition.property
)

(let_declaration
  pattern: (identifier) @definition.variable
)

(const_item
  name: (identifier) @definition.variable
)

(static_item
  name: (identifier) @definition.variable
)

; -- imports ----------------------------------------------------------------
(use_declaration
  argument: (scoped_identifier
    name: (identifier) @definition.import)
)
(use_declaration
  argument: (identifier) @definition.import
)

; -- references ---------------------------------------------------------
(call_expression
  function: (identifier) @reference.function_call
)

(call_expression
  function: (field_expression) @reference.method_call
)

(call_expression
  function: (scoped_identifier) @reference.constructor_call
)

(field_expression) @reference.property_access

(identifier) @reference.read

(assignment_expression
  left: (_) @reference.assignment
)

(return_expression
  (_) @return.value
)
`
