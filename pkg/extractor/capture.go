package extractor

import (
	"sort"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// CaptureCategory is the first dot-separated segment of a query capture
// name: "scope", "definition", "reference", "import", "export", "type",
// "assignment", "return", "decorator", or "modifier", per spec.md §4.1.
type CaptureCategory string

const (
	CategoryScope      CaptureCategory = "scope"
	CategoryDefinition CaptureCategory = "definition"
	CategoryReference  CaptureCategory = "reference"
	CategoryImport     CaptureCategory = "import"
	CategoryExport     CaptureCategory = "export"
	CategoryType       CaptureCategory = "type"
	CategoryAssignment CaptureCategory = "assignment"
	CategoryReturn     CaptureCategory = "return"
	CategoryDecorator  CaptureCategory = "decorator"
	CategoryModifier   CaptureCategory = "modifier"
)

// Capture is one normalized result from running a compiled per-language
// query against a parsed tree: a captured node plus its parsed
// category/entity/subtag name, in document order.
type Capture struct {
	Category CaptureCategory
	Entity   string
	Subtag   string // empty when the capture name has no third segment
	Name     string // the full original capture name, for diagnostics
	Node     ts.Node
}

// parseCaptureName splits a capture name of the form "category.entity" or
// "category.entity.subtag" per spec.md §4.1. A leading underscore marks a
// helper capture that pass 1 discards before this is ever called.
func parseCaptureName(name string) (category CaptureCategory, entity string, subtag string, ok bool) {
	parts := strings.SplitN(name, ".", 3)
	if len(parts) < 2 {
		return "", "", "", false
	}
	category = CaptureCategory(parts[0])
	entity = parts[1]
	if len(parts) == 3 {
		subtag = parts[2]
	}
	return category, entity, subtag, true
}

// knownCategories lists every CaptureCategory a Capture may legally bear.
// Anything else is a fatal unknown-category error per spec.md §7.
var knownCategories = map[CaptureCategory]bool{
	CategoryScope:      true,
	CategoryDefinition: true,
	CategoryReference:  true,
	CategoryImport:     true,
	CategoryExport:     true,
	CategoryType:       true,
	CategoryAssignment: true,
	CategoryReturn:     true,
	CategoryDecorator:  true,
	CategoryModifier:   true,
}

// runQuery executes query against tree's root node and returns the
// normalized, order-preserved capture stream of pass 1. Captures whose name
// starts with "_" are filtered silently (they exist only to anchor a
// pattern, per convention). Any other capture whose category isn't in
// knownCategories, or whose entity isn't registered for lang in registry, is
// a fatal error — spec.md §7 treats an unrecognized capture as a grammar/
// query mismatch, never a value to skip.
func runQuery(filePath string, query *ts.Query, tree *ts.Tree, source []byte, registry *HandlerRegistry) ([]Capture, error) {
	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, tree.RootNode(), source)

	captures := make([]Capture, 0)
	names := query.CaptureNames()

	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, qc := range match.Captures {
			name := names[qc.Index]
			if strings.HasPrefix(name, "_") {
				continue
			}
			category, entity, subtag, ok := parseCaptureName(name)
			if !ok || !knownCategories[category] {
				return nil, unknownCaptureError(filePath, name)
			}
			if !registry.knowsEntity(category, entity) {
				return nil, unknownCaptureError(filePath, name)
			}
			captures = append(captures, Capture{
				Category: category,
				Entity:   entity,
				Subtag:   subtag,
				Name:     name,
				Node:     qc.Node,
			})
		}
	}

	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].Node.StartByte() < captures[j].Node.StartByte()
	})

	return captures, nil
}
