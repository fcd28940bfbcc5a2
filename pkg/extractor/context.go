package extractor

// ProcessingContext is the read-only view of pass 2's output that passes 3
// and 4 query against. It never mutates the scope tree it was built from —
// per spec.md §4.3, both lookups it exposes are either well-defined or
// fatal, never "best effort".
type ProcessingContext struct {
	filePath string
	scopes   map[ScopeId]*LexicalScope
	rootId   ScopeId
	depths   map[ScopeId]int
}

func newProcessingContext(filePath string, scopes map[ScopeId]*LexicalScope, rootId ScopeId, depths map[ScopeId]int) *ProcessingContext {
	return &ProcessingContext{filePath: filePath, scopes: scopes, rootId: rootId, depths: depths}
}

// GetScopeId returns the id of the deepest scope whose Location contains
// loc — the scope a definition or reference at loc belongs to. Per spec.md
// §4.3, if two scopes at the same maximal depth both contain loc, that is a
// fatal ambiguity rather than an arbitrary pick.
func (c *ProcessingContext) GetScopeId(loc Location) (ScopeId, error) {
	var best ScopeId
	bestDepth := -1
	tied := false

	for id, scope := range c.scopes {
		if !scope.Location.contains(loc) {
			continue
		}
		d := c.depths[id]
		switch {
		case d > bestDepth:
			best = id
			bestDepth = d
			tied = false
		case d == bestDepth && id != best:
			tied = true
		}
	}

	if bestDepth == -1 {
		// loc falls outside every known scope, including root — root's
		// Location is the whole file so this indicates a malformed
		// Location, which is a missing-field-class error from the caller.
		return "", missingFieldError(c.filePath, "location", "containing scope")
	}
	if tied {
		return "", ambiguousScopeError(c.filePath, best)
	}

	return best, nil
}

// GetChildScopeWithSymbolName returns the id of the child of parent whose
// Name equals name. Fatal if no such child exists — per spec.md §4.3 this
// is used only where the caller already knows (from a definition capture)
// that such a scope must exist, e.g. looking up a function's own body scope
// by its just-built name.
func (c *ProcessingContext) GetChildScopeWithSymbolName(parent ScopeId, name string) (ScopeId, error) {
	parentScope, ok := c.scopes[parent]
	if !ok {
		return "", childScopeNotFoundError(c.filePath, parent, name)
	}
	for _, childId := range parentScope.ChildIds {
		child, ok := c.scopes[childId]
		if ok && child.Name == name {
			return childId, nil
		}
	}
	return "", childScopeNotFoundError(c.filePath, parent, name)
}

// Scope returns the LexicalScope for id, or nil if id is unknown.
func (c *ProcessingContext) Scope(id ScopeId) *LexicalScope {
	return c.scopes[id]
}

// RootScopeId returns the module-level root scope's id.
func (c *ProcessingContext) RootScopeId() ScopeId {
	return c.rootId
}
