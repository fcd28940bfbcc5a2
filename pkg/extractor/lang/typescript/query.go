// Package typescript extends the javascript language wiring with
// TypeScript-only constructs: interfaces, enums, namespaces, type aliases,
// and type annotations. Per spec.md §4.4.1 its handler registry is the
// JavaScript registry plus these extra entries.
package typescript

import "github.com/gnana997/semindex/pkg/extractor/lang/javascript"

// Query is JavaScript's query plus TypeScript-only patterns. tree-sitter-
// typescript's grammar is a superset of tree-sitter-javascript's node
// shapes for everything javascript.Query already matches, so running both
// pattern sets together is safe.
const Query = javascript.Query + `
; -- TypeScript-only scopes ----------------------------------------------
(interface_declaration) @scope.class
(module) @scope.block

; -- TypeScript-only definitions -------------------------------------------
(interface_declaration
  name: (type_identifier) @definition.interface
)

(enum_declaration
  name: (identifier) @definition.enum
)

(module
  name: (identifier) @definition.namespace
)

(type_alias_declaration
  name: (type_identifier) @definition.type_alias
)

(method_signature
  name: (property_identifier) @definition.method
)

(public_field_definition
  name: (property_identifier) @definition.property
)

; -- TypeScript-only references --------------------------------------------
(type_annotation (type_identifier) @reference.type_reference)
(union_type (type_identifier) @reference.type_reference)
(extends_clause value: (identifier) @reference.type_reference.extends)
(extends_clause value: (type_identifier) @reference.type_reference.extends)
(implements_clause (type_identifier) @reference.type_reference.implements)
(new_expression
  constructor: (identifier) @reference.constructor_call
  type_arguments: (type_arguments)
)
`
