package extractor

import (
	"fmt"
	"sync"

	"github.com/gnana997/semindex/pkg/parser"
)

// languageSetup is what each lang/* package registers for itself: the
// unified per-language query string (spec.md §4.1's single Query Runner
// pass) and the HandlerRegistry wired to that language's boundary/metadata
// strategies and capture handlers.
type languageSetup struct {
	querySource string
	registry    *HandlerRegistry
}

var (
	langMu    sync.RWMutex
	languages = make(map[parser.Language]languageSetup)
)

// RegisterLanguage is called from each lang/* package's init(), the same
// driver-registration shape as database/sql: this package never imports
// lang/*, so callers choose which languages to link in by blank-importing
// the packages they need.
func RegisterLanguage(lang parser.Language, querySource string, registry *HandlerRegistry) {
	langMu.Lock()
	defer langMu.Unlock()
	if _, exists := languages[lang]; exists {
		panic(fmt.Sprintf("extractor: RegisterLanguage called twice for %s", lang))
	}
	languages[lang] = languageSetup{querySource: querySource, registry: registry}
}

func lookupLanguage(lang parser.Language) (languageSetup, bool) {
	langMu.RLock()
	defer langMu.RUnlock()
	setup, ok := languages[lang]
	return setup, ok
}
