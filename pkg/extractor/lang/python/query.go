// Package python wires the Python grammar into the semantic indexer.
package python

// Query is Python's unified per-language query. Python's grammar has no
// "class_body" node — class members are children of the class's own
// "block" body directly — so the scope patterns capture the
// function_definition/class_definition nodes themselves; Boundary picks the
// scope kind from that node type and uses its "block" body field as the
// scope's span.
const Query = `
; -- scopes -------------------------------------------------------------
(function_definition) @scope.function
(class_definition) @scope.class

; -- definitions ----------------------------------------------------------
(function_definition
  name: (identifier) @definition.function
)

(class_definition
  name: (identifier) @definition.class
)

(assignment
  left: (identifier) @definition.variable
)

; -- imports ----------------------------------------------------------------
(import_statement
  name: (dotted_name (identifier) @definition.import)
)
(import_from_statement
  name: (dotted_name (identifier) @definition.import)
)
(aliased_import
  alias: (identifier) @definition.import
)

; -- decorators -------------------------------------------------------------
(decorator
  (identifier) @decorator.name
)

; -- docstrings ---------------------------------------------------------
((function_definition
  body: (block . (expression_statement (string) @definition.doc))))
((class_definition
  body: (block . (expression_statement (string) @definition.doc))))

; -- references ---------------------------------------------------------
(call
  function: (identifier) @reference.function_call
)

(call
  function: (attribute) @reference.method_call
)

(call
  function: (attribute
    object: (identifier) @_self_check
    (#eq? @_self_check "self"))
) @reference.self_reference_call

(call
  function: (attribute
    object: (identifier) @_self_check
    (#eq? @_self_check "cls"))
) @reference.self_reference_call

(attribute) @reference.property_access

(identifier) @reference.read

(assignment
  left: (_) @reference.assignment
)

(return_statement
  (_) @return.value
)
`
