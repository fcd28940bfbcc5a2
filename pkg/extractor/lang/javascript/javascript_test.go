package javascript_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/extractor"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/javascript"
	"github.com/gnana997/semindex/pkg/parser"
)

const sampleJS = `
import { helper } from "./util.js"

export class Greeter {
  constructor(name) {
    this.name = name
  }

  greet() {
    return helper(this.name)
  }
}

export function makeGreeter(name) {
  return new Greeter(name)
}
`

func buildIndex(t *testing.T, source, path string) *extractor.SemanticIndex {
	t.Helper()

	pm := parser.NewParserManager(slog.Default())
	t.Cleanup(func() { pm.Close() })

	tree, err := pm.Parse([]byte(source), parser.LanguageJavaScript, false)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	index, err := extractor.BuildSemanticIndex(pm, extractor.ParsedFile{FilePath: path, Lang: parser.LanguageJavaScript}, tree, []byte(source))
	require.NoError(t, err)
	return index
}

func TestBuildSemanticIndex_JavaScript_ClassWithConstructorAndMethod(t *testing.T) {
	index := buildIndex(t, sampleJS, "greeter.js")

	require.Len(t, index.Classes, 1)
	var greeter *extractor.ClassDefinition
	for _, c := range index.Classes {
		greeter = c
	}
	assert.Equal(t, "Greeter", greeter.Name)
	assert.True(t, greeter.IsExported, "class Greeter is exported")

	require.NotNil(t, greeter.Constructor)
	require.Len(t, greeter.Methods, 1)
	assert.Equal(t, "greet", greeter.Methods[0].Name)

	require.Len(t, index.Functions, 1, "makeGreeter is the only free function")
	var makeGreeter *extractor.FunctionDefinition
	for _, fn := range index.Functions {
		makeGreeter = fn
	}
	assert.Equal(t, "makeGreeter", makeGreeter.Name)
	assert.True(t, makeGreeter.IsExported)
}

func TestBuildSemanticIndex_JavaScript_ImportAndCallsProduceReferences(t *testing.T) {
	index := buildIndex(t, sampleJS, "greeter.js")

	require.Len(t, index.Imports, 1)
	var imp *extractor.ImportDefinition
	for _, i := range index.Imports {
		imp = i
	}
	assert.Equal(t, "helper", imp.Name)
	assert.Equal(t, "./util.js", imp.ImportPath)
	assert.Equal(t, extractor.ImportNamed, imp.ImportKind)

	var sawFunctionCall, sawConstructorCall bool
	for _, ref := range index.References {
		switch ref.Kind {
		case extractor.RefFunctionCall:
			if ref.Name == "helper" {
				sawFunctionCall = true
			}
		case extractor.RefConstructorCall:
			if ref.ConstructTarget == "Greeter" {
				sawConstructorCall = true
			}
		}
	}
	assert.True(t, sawFunctionCall, "helper(this.name) should produce a function-call reference")
	assert.True(t, sawConstructorCall, "new Greeter(name) should produce a constructor-call reference")
}

const sampleJSSelfAndChain = `
class Base {
  speak() {
    super.speak()
    this.log()
  }
  log() {
    api.users.list()
    const handler = CONFIG.get('k')
  }
}
`

func TestBuildSemanticIndex_JavaScript_SelfReferenceAndPropertyChain(t *testing.T) {
	index := buildIndex(t, sampleJSSelfAndChain, "chain.js")

	var sawSuper, sawThis bool
	var sawChain bool
	for _, ref := range index.References {
		switch ref.Kind {
		case extractor.RefSelfReferenceCall:
			switch ref.SelfKeyword {
			case "super":
				sawSuper = true
				assert.Equal(t, []string{"super", "speak"}, ref.PropertyChain)
			case "this":
				sawThis = true
				assert.Equal(t, []string{"this", "log"}, ref.PropertyChain)
			}
		case extractor.RefMethodCall:
			if ref.Name == "list" {
				sawChain = true
				assert.Equal(t, []string{"api", "users", "list"}, ref.PropertyChain)
			}
		}
	}
	assert.True(t, sawSuper, "super.speak() should be a self_reference_call with self_keyword=super")
	assert.True(t, sawThis, "this.log() should be a self_reference_call with self_keyword=this")
	assert.True(t, sawChain, "api.users.list() should carry the full property_chain")

	var sawDerived bool
	for _, v := range index.Variables {
		if v.Name == "handler" {
			sawDerived = true
			assert.Equal(t, "CONFIG", v.DerivedFrom)
			assert.Equal(t, extractor.VarKindConst, v.KindTag)
		}
	}
	assert.True(t, sawDerived, "const handler = CONFIG.get('k') should record derived_from")
}
