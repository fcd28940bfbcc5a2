package extractor

// DefinitionKind identifies which keyed collection of SemanticIndex a
// definition belongs to. Used only to namespace SymbolId, per spec.md §3.1.
type DefinitionKind string

const (
	DefKindFunction  DefinitionKind = "function"
	DefKindClass     DefinitionKind = "class"
	DefKindMethod    DefinitionKind = "method"
	DefKindVariable  DefinitionKind = "variable"
	DefKindInterface DefinitionKind = "interface"
	DefKindEnum      DefinitionKind = "enum"
	DefKindNamespace DefinitionKind = "namespace"
	DefKindType      DefinitionKind = "type_alias"
	DefKindImport    DefinitionKind = "import"
	DefKindProperty  DefinitionKind = "property"
)

// ExportInfo records how a definition is exported, per spec.md §3.4.
type ExportInfo struct {
	ExportedName string `json:"exported_name,omitempty"`
	IsDefault    bool   `json:"is_default"`
	IsReexport   bool   `json:"is_reexport"`
}

// DefinitionHeader carries the fields common to every definition variant.
type DefinitionHeader struct {
	Kind            DefinitionKind `json:"kind"`
	SymbolId        SymbolId       `json:"symbol_id"`
	Name            SymbolName     `json:"name"`
	Location        Location       `json:"location"`
	DefiningScopeId ScopeId        `json:"defining_scope_id"`
	IsExported      bool           `json:"is_exported"`
	Export          *ExportInfo    `json:"export,omitempty"`
}

// Parameter is a single function/method parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Signature describes a callable's parameter list.
type Signature struct {
	Parameters []Parameter `json:"parameters"`
}

// FunctionDefinition is a free function (module-scope, or a named/anonymous
// function expression bound to a variable).
type FunctionDefinition struct {
	DefinitionHeader
	Signature  Signature `json:"signature"`
	ReturnType string    `json:"return_type,omitempty"`
	Docstring  string    `json:"docstring,omitempty"`
}

// MethodDefinition is a function owned by a class. Stored inline on
// ClassDefinition.Methods, never in SemanticIndex.Functions.
type MethodDefinition struct {
	DefinitionHeader
	Signature  Signature `json:"signature"`
	ReturnType string    `json:"return_type,omitempty"`
	Docstring  string    `json:"docstring,omitempty"`
	IsStatic   bool      `json:"is_static"`
	IsAsync    bool      `json:"is_async"`
	Visibility string    `json:"visibility,omitempty"` // public, private, protected
}

// PropertyDefinition is a field owned by a class or interface.
type PropertyDefinition struct {
	DefinitionHeader
	Type       string `json:"type,omitempty"`
	IsStatic   bool   `json:"is_static"`
	IsReadonly bool   `json:"is_readonly"`
}

// ClassDefinition models a class/struct/trait-impl grouping, per spec.md §3.4.
type ClassDefinition struct {
	DefinitionHeader
	Methods        []*MethodDefinition   `json:"methods"`
	Properties     []*PropertyDefinition `json:"properties"`
	Constructor    *MethodDefinition     `json:"constructor,omitempty"`
	Extends        []string              `json:"extends,omitempty"`
	Implements     []string              `json:"implements,omitempty"`
	TypeParameters []string              `json:"type_parameters,omitempty"`
	Decorators     []string              `json:"decorators,omitempty"`
	IsAbstract     bool                  `json:"is_abstract,omitempty"`
}

// VariableKindTag distinguishes binding forms across languages.
type VariableKindTag string

const (
	VarKindConst    VariableKindTag = "const"
	VarKindLet      VariableKindTag = "let"
	VarKindVar      VariableKindTag = "var"
	VarKindConstant VariableKindTag = "constant"
)

// VariableDefinition models a binding: `const x = ...`, a Python module
// assignment, a Rust `let`/`static`, and so on.
type VariableDefinition struct {
	DefinitionHeader
	KindTag     VariableKindTag `json:"kind_tag"`
	Type        string          `json:"type,omitempty"`
	DerivedFrom string          `json:"derived_from,omitempty"`
}

// InterfaceDefinition models a TypeScript interface or Rust trait.
type InterfaceDefinition struct {
	DefinitionHeader
	Methods        []*MethodDefinition   `json:"methods"`
	Properties     []*PropertyDefinition `json:"properties"`
	Extends        []string              `json:"extends,omitempty"`
	TypeParameters []string              `json:"type_parameters,omitempty"`
}

// EnumMember is one variant of an enum.
type EnumMember struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// EnumDefinition models an enum declaration.
type EnumDefinition struct {
	DefinitionHeader
	Members []EnumMember `json:"members"`
	IsConst bool         `json:"is_const"`
}

// NamespaceDefinition models a TypeScript namespace/module or a Rust mod.
// Inner is populated with the SymbolIds of definitions declared directly
// inside it, in the same keyed collections as top-level definitions.
type NamespaceDefinition struct {
	DefinitionHeader
	Inner []SymbolId `json:"inner"`
}

// TypeAliasDefinition models a type alias.
type TypeAliasDefinition struct {
	DefinitionHeader
	TypeParameters []string `json:"type_parameters,omitempty"`
	Underlying     string   `json:"underlying"`
}

// ImportKind classifies the shape of an import statement.
type ImportKind string

const (
	ImportDefault    ImportKind = "default"
	ImportNamed      ImportKind = "named"
	ImportNamespace  ImportKind = "namespace"
	ImportSideEffect ImportKind = "side_effect"
)

// ImportDefinition models one imported binding.
type ImportDefinition struct {
	DefinitionHeader
	ImportPath   string     `json:"import_path"`
	ImportKind   ImportKind `json:"import_kind"`
	ImportedName string     `json:"imported_name,omitempty"` // original name, for aliased named imports
}
