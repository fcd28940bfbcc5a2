package extractor

// ReferenceKind tags the shape of a SymbolReference, per spec.md §3.5/§4.5.1.
type ReferenceKind string

const (
	RefRead              ReferenceKind = "read"
	RefWrite             ReferenceKind = "write"
	RefFunctionCall      ReferenceKind = "function_call"
	RefMethodCall        ReferenceKind = "method_call"
	RefSelfReferenceCall ReferenceKind = "self_reference_call"
	RefConstructorCall   ReferenceKind = "constructor_call"
	RefPropertyAccess    ReferenceKind = "property_access"
	RefTypeReference     ReferenceKind = "type_reference"
	RefAssignment        ReferenceKind = "assignment"
	RefReturn            ReferenceKind = "return"
)

// TypeCertainty classifies how confidently a type_reference's type name was
// determined, per spec.md §3.5.
type TypeCertainty string

const (
	TypeCertaintyDeclared  TypeCertainty = "declared"
	TypeCertaintyInferred  TypeCertainty = "inferred"
	TypeCertaintyAmbiguous TypeCertainty = "ambiguous"
)

// TypeInfo details a type_reference's resolved type, per spec.md §3.5.
type TypeInfo struct {
	TypeName      string        `json:"type_name"`
	Certainty     TypeCertainty `json:"certainty"`
	IsNullable    bool          `json:"is_nullable,omitempty"`
	TypeArguments []string      `json:"type_arguments,omitempty"`
}

// SymbolReference is one use-site reference produced by pass 4. Fields
// beyond the common ones are populated according to Kind; zero values in
// fields that don't apply to a given Kind are expected, not errors.
type SymbolReference struct {
	Kind            ReferenceKind `json:"kind"`
	Name            string        `json:"name"`
	Location        Location      `json:"location"`
	ScopeId         ScopeId       `json:"scope_id"`
	Receiver        string        `json:"receiver,omitempty"`         // method_call / property_access
	SelfKeyword     string        `json:"self_keyword,omitempty"`     // self_reference_call: this/self/cls/super
	PropertyChain   []string      `json:"property_chain,omitempty"`   // method_call / property_access / self_reference_call
	ConstructTarget string        `json:"construct_target,omitempty"` // constructor_call
	TypeArguments   []string      `json:"type_arguments,omitempty"`
	IsOptionalChain bool          `json:"is_optional_chain,omitempty"`
	AssignedValue   string        `json:"assigned_value,omitempty"` // assignment / write
	ReturnedValue   string        `json:"returned_value,omitempty"` // return
	Context         string        `json:"context,omitempty"`  // type_reference: annotation/extends/implements
	TypeInfo        *TypeInfo     `json:"type_info,omitempty"` // type_reference
}

// ReferenceBuilder runs pass 4: it classifies each reference/assignment/
// return capture into a SymbolReference using the active language's
// MetadataExtractor, per spec.md §4.5.
type ReferenceBuilder struct {
	filePath string
	source   []byte
	ctx      *ProcessingContext
	registry *HandlerRegistry
}

func newReferenceBuilder(filePath string, source []byte, ctx *ProcessingContext, registry *HandlerRegistry) *ReferenceBuilder {
	return &ReferenceBuilder{filePath: filePath, source: source, ctx: ctx, registry: registry}
}

// Build consumes reference/assignment/return captures (scope and definition
// categories are not passed here) and returns the ordered reference list.
func (b *ReferenceBuilder) Build(captures []Capture) ([]SymbolReference, error) {
	refs := make([]SymbolReference, 0, len(captures))
	for _, c := range captures {
		handler, ok := b.registry.referenceHandler(c)
		if !ok {
			continue
		}
		ref, err := handler(b, c)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Source returns the file's source bytes, for handlers reading node text.
func (b *ReferenceBuilder) Source() []byte { return b.source }

// FilePath returns the path of the file being indexed.
func (b *ReferenceBuilder) FilePath() string { return b.filePath }

// --- helpers called by per-language ReferenceHandlers ---

func (b *ReferenceBuilder) scopeIdFor(loc Location) (ScopeId, error) {
	return b.ctx.GetScopeId(loc)
}

// Metadata exposes the language's MetadataExtractor to reference handlers
// composing a SymbolReference's detail fields.
func (b *ReferenceBuilder) Metadata() MetadataExtractor {
	return b.registry.metadata
}

// NewReference builds the common fields of a SymbolReference; callers fill
// in the Kind-specific fields afterward.
func (b *ReferenceBuilder) NewReference(kind ReferenceKind, name string, loc Location) (SymbolReference, error) {
	scopeId, err := b.scopeIdFor(loc)
	if err != nil {
		return SymbolReference{}, err
	}
	return SymbolReference{Kind: kind, Name: name, Location: loc, ScopeId: scopeId}, nil
}
