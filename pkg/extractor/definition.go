package extractor

// DefinitionBuilder runs pass 3: it consumes the non-scope captures pass 1
// produced, in two phases. Phase one creates every definition (functions,
// classes, methods, properties, variables, interfaces, enums, namespaces,
// type aliases, imports) and registers it into the in-progress
// SemanticIndex. Phase two attaches everything that can only be resolved
// once a definition already exists: export markers, type annotations,
// decorators, modifiers (static/async/visibility), and doc comments — see
// spec.md §4.4.
type DefinitionBuilder struct {
	filePath string
	source   []byte
	ctx      *ProcessingContext
	registry *HandlerRegistry
	index    *SemanticIndex

	classByScope     map[ScopeId]*ClassDefinition
	interfaceByScope map[ScopeId]*InterfaceDefinition
	namespaceByScope map[ScopeId]*NamespaceDefinition

	symbolAt map[Location]SymbolId
}

func newDefinitionBuilder(filePath string, source []byte, ctx *ProcessingContext, registry *HandlerRegistry, index *SemanticIndex) *DefinitionBuilder {
	return &DefinitionBuilder{
		filePath:         filePath,
		source:           source,
		ctx:              ctx,
		registry:         registry,
		index:            index,
		classByScope:     make(map[ScopeId]*ClassDefinition),
		interfaceByScope: make(map[ScopeId]*InterfaceDefinition),
		namespaceByScope: make(map[ScopeId]*NamespaceDefinition),
		symbolAt:         make(map[Location]SymbolId),
	}
}

// Build runs both phases over captures, which must already be filtered to
// exclude CategoryScope (the Scope Builder consumes those separately).
func (b *DefinitionBuilder) Build(captures []Capture) error {
	for _, c := range captures {
		handler, ok := b.registry.definitionHandler(c)
		if !ok {
			continue // belongs to phase two, or has no definition-phase meaning
		}
		id, err := handler(b, c)
		if err != nil {
			return err
		}
		if id != "" {
			b.symbolAt[locationFromNode(&c.Node, b.filePath)] = id
		}
	}

	for _, c := range captures {
		handler, ok := b.registry.decoratorHandler(c)
		if !ok {
			continue
		}
		if err := handler(b, c); err != nil {
			return err
		}
	}

	return nil
}

// Source returns the file's source bytes, for handlers reading node text.
func (b *DefinitionBuilder) Source() []byte { return b.source }

// FilePath returns the path of the file being indexed.
func (b *DefinitionBuilder) FilePath() string { return b.filePath }

// Metadata exposes the language's MetadataExtractor to definition handlers
// that need parameter/type extraction (e.g. a function or method handler
// reading its parameter list).
func (b *DefinitionBuilder) Metadata() MetadataExtractor { return b.registry.metadata }

// --- helpers called by per-language DefinitionHandlers ---

func (b *DefinitionBuilder) header(kind DefinitionKind, name SymbolName, loc Location) (DefinitionHeader, error) {
	scopeId, err := b.ctx.GetScopeId(loc)
	if err != nil {
		return DefinitionHeader{}, err
	}
	id := newSymbolId(kind, b.filePath, name, loc)
	if ns, ok := b.namespaceByScope[scopeId]; ok {
		ns.Inner = append(ns.Inner, id)
	}
	return DefinitionHeader{
		Kind:            kind,
		SymbolId:        id,
		Name:            name,
		Location:        loc,
		DefiningScopeId: scopeId,
	}, nil
}

// AddFunction registers a free function definition.
func (b *DefinitionBuilder) AddFunction(name SymbolName, loc Location, sig Signature, returnType string) (SymbolId, error) {
	h, err := b.header(DefKindFunction, name, loc)
	if err != nil {
		return "", err
	}
	fn := &FunctionDefinition{DefinitionHeader: h, Signature: sig, ReturnType: returnType}
	b.index.Functions[h.SymbolId] = fn
	return h.SymbolId, nil
}

// AddClass registers a class definition and remembers its own body scope so
// later method/property captures nested inside it can find it again.
func (b *DefinitionBuilder) AddClass(name SymbolName, loc Location) (SymbolId, error) {
	h, err := b.header(DefKindClass, name, loc)
	if err != nil {
		return "", err
	}
	cls := &ClassDefinition{DefinitionHeader: h}
	b.index.Classes[h.SymbolId] = cls

	if ownScope, err := b.ctx.GetChildScopeWithSymbolName(h.DefiningScopeId, name); err == nil {
		b.classByScope[ownScope] = cls
	}
	return h.SymbolId, nil
}

// AddInterface registers an interface (or Rust trait) definition.
func (b *DefinitionBuilder) AddInterface(name SymbolName, loc Location) (SymbolId, error) {
	h, err := b.header(DefKindInterface, name, loc)
	if err != nil {
		return "", err
	}
	iface := &InterfaceDefinition{DefinitionHeader: h}
	b.index.Interfaces[h.SymbolId] = iface

	if ownScope, err := b.ctx.GetChildScopeWithSymbolName(h.DefiningScopeId, name); err == nil {
		b.interfaceByScope[ownScope] = iface
	}
	return h.SymbolId, nil
}

// AddNamespace registers a namespace/module grouping (TS namespace, Rust
// mod).
func (b *DefinitionBuilder) AddNamespace(name SymbolName, loc Location) (SymbolId, error) {
	h, err := b.header(DefKindNamespace, name, loc)
	if err != nil {
		return "", err
	}
	ns := &NamespaceDefinition{DefinitionHeader: h}
	b.index.Namespaces[h.SymbolId] = ns

	if ownScope, err := b.ctx.GetChildScopeWithSymbolName(h.DefiningScopeId, name); err == nil {
		b.namespaceByScope[ownScope] = ns
	}
	return h.SymbolId, nil
}

// AddMethod registers a method, attaching it to whichever class or
// interface owns the scope containing loc. A method whose defining scope
// resolves to neither is dropped — per spec.md §4.4.1 a method capture only
// ever fires inside a class or interface body, so this indicates the
// per-language query and handler disagree about node shape, not a state a
// caller should treat as data.
func (b *DefinitionBuilder) AddMethod(name SymbolName, loc Location, sig Signature, returnType string) (SymbolId, error) {
	h, err := b.header(DefKindMethod, name, loc)
	if err != nil {
		return "", err
	}
	method := &MethodDefinition{DefinitionHeader: h, Signature: sig, ReturnType: returnType}

	if cls, ok := b.classByScope[h.DefiningScopeId]; ok {
		cls.Methods = append(cls.Methods, method)
	} else if iface, ok := b.interfaceByScope[h.DefiningScopeId]; ok {
		iface.Methods = append(iface.Methods, method)
	}
	return h.SymbolId, nil
}

// AddConstructor registers a class's constructor method.
func (b *DefinitionBuilder) AddConstructor(name SymbolName, loc Location, sig Signature) (SymbolId, error) {
	h, err := b.header(DefKindMethod, name, loc)
	if err != nil {
		return "", err
	}
	method := &MethodDefinition{DefinitionHeader: h, Signature: sig}
	if cls, ok := b.classByScope[h.DefiningScopeId]; ok {
		cls.Constructor = method
	}
	return h.SymbolId, nil
}

// AddProperty registers a class or interface field.
func (b *DefinitionBuilder) AddProperty(name SymbolName, loc Location, typ string) (SymbolId, error) {
	scopeId, err := b.ctx.GetScopeId(loc)
	if err != nil {
		return "", err
	}
	symbolId := newSymbolId(DefKindProperty, b.filePath, name, loc)
	header := DefinitionHeader{Kind: DefKindProperty, SymbolId: symbolId, Name: name, Location: loc, DefiningScopeId: scopeId}
	prop := &PropertyDefinition{DefinitionHeader: header, Type: typ}

	if cls, ok := b.classByScope[scopeId]; ok {
		cls.Properties = append(cls.Properties, prop)
	} else if iface, ok := b.interfaceByScope[scopeId]; ok {
		iface.Properties = append(iface.Properties, prop)
	}
	return symbolId, nil
}

// AddVariable registers a variable/constant binding.
func (b *DefinitionBuilder) AddVariable(name SymbolName, loc Location, kindTag VariableKindTag, typ string) (SymbolId, error) {
	return b.AddDerivedVariable(name, loc, kindTag, typ, "")
}

// AddDerivedVariable is AddVariable plus derivedFrom, the identifier a
// `const x = SOURCE.get(...)`-shaped initializer was read from, per
// spec.md §4.4.3. derivedFrom is empty for an ordinary binding.
func (b *DefinitionBuilder) AddDerivedVariable(name SymbolName, loc Location, kindTag VariableKindTag, typ string, derivedFrom string) (SymbolId, error) {
	h, err := b.header(DefKindVariable, name, loc)
	if err != nil {
		return "", err
	}
	v := &VariableDefinition{DefinitionHeader: h, KindTag: kindTag, Type: typ, DerivedFrom: derivedFrom}
	b.index.Variables[h.SymbolId] = v
	return h.SymbolId, nil
}

// AddEnum registers an enum definition with its members.
func (b *DefinitionBuilder) AddEnum(name SymbolName, loc Location, members []EnumMember, isConst bool) (SymbolId, error) {
	h, err := b.header(DefKindEnum, name, loc)
	if err != nil {
		return "", err
	}
	e := &EnumDefinition{DefinitionHeader: h, Members: members, IsConst: isConst}
	b.index.Enums[h.SymbolId] = e
	return h.SymbolId, nil
}

// AddTypeAlias registers a type alias.
func (b *DefinitionBuilder) AddTypeAlias(name SymbolName, loc Location, underlying string) (SymbolId, error) {
	h, err := b.header(DefKindType, name, loc)
	if err != nil {
		return "", err
	}
	t := &TypeAliasDefinition{DefinitionHeader: h, Underlying: underlying}
	b.index.Types[h.SymbolId] = t
	return h.SymbolId, nil
}

// AddImport registers one imported binding.
func (b *DefinitionBuilder) AddImport(name SymbolName, loc Location, path string, kind ImportKind, importedName string) (SymbolId, error) {
	h, err := b.header(DefKindImport, name, loc)
	if err != nil {
		return "", err
	}
	imp := &ImportDefinition{DefinitionHeader: h, ImportPath: path, ImportKind: kind, ImportedName: importedName}
	b.index.Imports[h.SymbolId] = imp
	return h.SymbolId, nil
}

// --- phase-two (decorator) lookups ---

// SymbolAt finds the SymbolId of the definition built at exactly loc, for
// decorator-phase handlers whose capture targets the same node a phase-one
// capture already consumed.
func (b *DefinitionBuilder) SymbolAt(loc Location) (SymbolId, bool) {
	id, ok := b.symbolAt[loc]
	return id, ok
}

// SymbolContainedIn finds a definition whose own location falls within loc
// — for decorator-phase handlers (export, decorator) whose capture targets
// a wrapping node (e.g. an export_statement's declaration field) rather
// than the exact name node a phase-one handler captured.
func (b *DefinitionBuilder) SymbolContainedIn(loc Location) (SymbolId, bool) {
	for at, id := range b.symbolAt {
		if loc.contains(at) {
			return id, true
		}
	}
	return "", false
}

// MarkExported marks the definition at loc as exported, per spec.md §4.4.2.
// loc is typically an export_statement's declaration span, which contains
// but rarely equals the wrapped definition's own name location.
func (b *DefinitionBuilder) MarkExported(loc Location, info ExportInfo) {
	id, ok := b.SymbolContainedIn(loc)
	if !ok {
		return
	}
	if h := b.headerFor(id); h != nil {
		h.IsExported = true
		h.Export = &info
	}
}

// SetDocstring attaches a doc comment to the definition at loc, per spec.md
// §4.4.4.
func (b *DefinitionBuilder) SetDocstring(loc Location, doc string) {
	id, ok := b.SymbolAt(loc)
	if !ok {
		return
	}
	switch d := b.anyFor(id).(type) {
	case *FunctionDefinition:
		d.Docstring = doc
	case *MethodDefinition:
		d.Docstring = doc
	}
}

// SetModifier applies a static/async/visibility modifier to the method at
// loc.
func (b *DefinitionBuilder) SetModifier(loc Location, kind string, value string) {
	id, ok := b.SymbolAt(loc)
	if !ok {
		return
	}
	method, ok := b.anyFor(id).(*MethodDefinition)
	if !ok {
		return
	}
	switch kind {
	case "static":
		method.IsStatic = true
	case "async":
		method.IsAsync = true
	case "visibility":
		method.Visibility = value
	}
}

// AddDecorator appends a decorator's source text to the class at loc.
func (b *DefinitionBuilder) AddDecorator(loc Location, text string) {
	id, ok := b.SymbolAt(loc)
	if !ok {
		return
	}
	if cls, ok := b.anyFor(id).(*ClassDefinition); ok {
		cls.Decorators = append(cls.Decorators, text)
	}
}

// headerFor returns a pointer to the embedded DefinitionHeader of whichever
// definition owns id, searching every keyed collection plus nested
// methods/properties, or nil if id is unknown.
func (b *DefinitionBuilder) headerFor(id SymbolId) *DefinitionHeader {
	if d, ok := b.index.Functions[id]; ok {
		return &d.DefinitionHeader
	}
	if d, ok := b.index.Classes[id]; ok {
		return &d.DefinitionHeader
	}
	if d, ok := b.index.Variables[id]; ok {
		return &d.DefinitionHeader
	}
	if d, ok := b.index.Interfaces[id]; ok {
		return &d.DefinitionHeader
	}
	if d, ok := b.index.Enums[id]; ok {
		return &d.DefinitionHeader
	}
	if d, ok := b.index.Namespaces[id]; ok {
		return &d.DefinitionHeader
	}
	if d, ok := b.index.Types[id]; ok {
		return &d.DefinitionHeader
	}
	if d, ok := b.index.Imports[id]; ok {
		return &d.DefinitionHeader
	}
	for _, cls := range b.index.Classes {
		for _, m := range cls.Methods {
			if m.SymbolId == id {
				return &m.DefinitionHeader
			}
		}
		for _, p := range cls.Properties {
			if p.SymbolId == id {
				return &p.DefinitionHeader
			}
		}
		if cls.Constructor != nil && cls.Constructor.SymbolId == id {
			return &cls.Constructor.DefinitionHeader
		}
	}
	for _, iface := range b.index.Interfaces {
		for _, m := range iface.Methods {
			if m.SymbolId == id {
				return &m.DefinitionHeader
			}
		}
		for _, p := range iface.Properties {
			if p.SymbolId == id {
				return &p.DefinitionHeader
			}
		}
	}
	return nil
}

// anyFor returns the concrete definition pointer for id as an interface
// value, for decorator handlers that need a kind-specific field.
func (b *DefinitionBuilder) anyFor(id SymbolId) any {
	if d, ok := b.index.Functions[id]; ok {
		return d
	}
	if d, ok := b.index.Classes[id]; ok {
		return d
	}
	if d, ok := b.index.Variables[id]; ok {
		return d
	}
	if d, ok := b.index.Interfaces[id]; ok {
		return d
	}
	if d, ok := b.index.Enums[id]; ok {
		return d
	}
	if d, ok := b.index.Namespaces[id]; ok {
		return d
	}
	if d, ok := b.index.Types[id]; ok {
		return d
	}
	for _, cls := range b.index.Classes {
		for _, m := range cls.Methods {
			if m.SymbolId == id {
				return m
			}
		}
		if cls.Constructor != nil && cls.Constructor.SymbolId == id {
			return cls.Constructor
		}
	}
	for _, iface := range b.index.Interfaces {
		for _, m := range iface.Methods {
			if m.SymbolId == id {
				return m
			}
		}
	}
	return nil
}
