package extractor

import "sort"

// scopeBuildEntry is the working-set record the ScopeBuilder keeps per
// discovered scope before parent resolution runs — the symbol location is
// kept alongside the scope so parent containment can be checked against
// whichever location spec.md §4.2 designates for that purpose.
type scopeBuildEntry struct {
	scope          *LexicalScope
	symbolLocation Location
}

// ScopeBuilder runs pass 2: it walks the scope.* captures pass 1 produced,
// builds one LexicalScope per capture plus an implicit module root, resolves
// parent/child links by smallest spatial containment, and precomputes each
// scope's depth from the root.
type ScopeBuilder struct {
	filePath string
	boundary ScopeBoundaryExtractor
	source   []byte

	entries []*scopeBuildEntry
	byId    map[ScopeId]*LexicalScope
}

func newScopeBuilder(filePath string, boundary ScopeBoundaryExtractor, source []byte) *ScopeBuilder {
	return &ScopeBuilder{
		filePath: filePath,
		boundary: boundary,
		source:   source,
		byId:     make(map[ScopeId]*LexicalScope),
	}
}

// Build consumes the scope.* captures (already filtered to CategoryScope by
// the caller) and the whole file's span, and returns the completed scope
// tree plus a depth table keyed by ScopeId.
func (b *ScopeBuilder) Build(scopeCaptures []Capture, fileEnd Location) (map[ScopeId]*LexicalScope, ScopeId, map[ScopeId]int, error) {
	root := &LexicalScope{
		Type:     ScopeModule,
		Location: fileEnd,
	}
	root.Id = newScopeId(ScopeModule, root.Location)
	b.byId[root.Id] = root
	b.entries = append(b.entries, &scopeBuildEntry{scope: root, symbolLocation: root.Location})

	for _, c := range scopeCaptures {
		kind, ok := b.boundary.ScopeKindFor(c.Node.Kind())
		if !ok {
			return nil, "", nil, unknownScopeBoundaryError(b.filePath, c.Node.Kind())
		}

		symbolLoc := b.boundary.SymbolLocation(&c.Node, b.filePath)
		scopeLoc := b.boundary.ScopeLocation(&c.Node, b.filePath)
		name := b.boundary.ScopeName(&c.Node, b.source)

		scope := &LexicalScope{
			Name:     name,
			Type:     kind,
			Location: scopeLoc,
		}
		scope.Id = newScopeId(kind, scopeLoc)

		if _, exists := b.byId[scope.Id]; exists {
			// Two captures resolved to the identical body span (e.g. a
			// method_signature capture firing twice for the same node) —
			// keep the first, later ones are redundant rather than new
			// scopes.
			continue
		}

		b.byId[scope.Id] = scope
		b.entries = append(b.entries, &scopeBuildEntry{scope: scope, symbolLocation: symbolLoc})
	}

	if err := b.resolveParents(); err != nil {
		return nil, "", nil, err
	}

	b.sortChildren()

	depths, err := b.computeDepths(root.Id)
	if err != nil {
		return nil, "", nil, err
	}

	return b.byId, root.Id, depths, nil
}

// resolveParents assigns each non-root scope the smallest scope (by
// areaUnits) that spatially contains its symbol location, per spec.md §4.2.
// A tie at minimal area is a fatal ambiguity — two distinct scopes cannot
// both be the unique smallest container.
func (b *ScopeBuilder) resolveParents() error {
	for _, entry := range b.entries {
		scope := entry.scope
		if scope.Id == b.rootId() {
			continue
		}

		var best *LexicalScope
		var bestArea int64
		tied := false

		for _, candidate := range b.entries {
			if candidate.scope.Id == scope.Id {
				continue
			}
			if !candidate.scope.Location.contains(entry.symbolLocation) {
				continue
			}
			area := candidate.scope.Location.areaUnits()
			switch {
			case best == nil || area < bestArea:
				best = candidate.scope
				bestArea = area
				tied = false
			case area == bestArea:
				if best.Id != candidate.scope.Id {
					tied = true
				}
			}
		}

		if best == nil {
			// Every scope is at minimum contained by the module root, whose
			// location spans the whole file, so this only happens if a
			// boundary extractor returned a location outside the file.
			return unknownScopeBoundaryError(b.filePath, string(scope.Type))
		}
		if tied {
			return ambiguousScopeError(b.filePath, scope.Id)
		}

		scope.ParentId = best.Id
	}
	return nil
}

func (b *ScopeBuilder) rootId() ScopeId {
	return b.entries[0].scope.Id
}

// sortChildren populates ChildIds on every scope, ordered by source
// position (start line, then start column), matching spec.md §4.2's
// document-order requirement.
func (b *ScopeBuilder) sortChildren() {
	childrenOf := make(map[ScopeId][]*LexicalScope)
	for _, entry := range b.entries {
		s := entry.scope
		if s.ParentId == "" {
			continue
		}
		childrenOf[s.ParentId] = append(childrenOf[s.ParentId], s)
	}
	for parentId, children := range childrenOf {
		sort.SliceStable(children, func(i, j int) bool {
			a, bb := children[i].Location, children[j].Location
			if a.StartLine != bb.StartLine {
				return a.StartLine < bb.StartLine
			}
			return a.StartColumn < bb.StartColumn
		})
		ids := make([]ScopeId, len(children))
		for i, c := range children {
			ids[i] = c.Id
		}
		b.byId[parentId].ChildIds = ids
	}
}

// computeDepths walks the parent chain from every scope up to the root,
// memoizing as it goes, and fails fatally if a cycle is detected (a
// malformed containment graph, not a recoverable runtime condition).
func (b *ScopeBuilder) computeDepths(rootId ScopeId) (map[ScopeId]int, error) {
	depths := make(map[ScopeId]int, len(b.byId))
	depths[rootId] = 0

	for _, entry := range b.entries {
		id := entry.scope.Id
		if _, done := depths[id]; done {
			continue
		}
		visiting := make(map[ScopeId]bool)
		chain := []ScopeId{}
		cur := id
		for {
			if d, ok := depths[cur]; ok {
				// cur's depth is known; unwind chain assigning depths
				// increasing from there.
				base := d
				for i := len(chain) - 1; i >= 0; i-- {
					base++
					depths[chain[i]] = base
				}
				break
			}
			if visiting[cur] {
				return nil, scopeCycleError(b.filePath, cur)
			}
			visiting[cur] = true
			chain = append(chain, cur)
			parent := b.byId[cur].ParentId
			if parent == "" {
				// Reached a scope with no recorded parent that isn't the
				// root — treat as directly under root.
				base := 0
				for i := len(chain) - 1; i >= 0; i-- {
					base++
					depths[chain[i]] = base
				}
				break
			}
			cur = parent
		}
	}

	return depths, nil
}
