package python_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/extractor"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/python"
	"github.com/gnana997/semindex/pkg/parser"
)

const samplePython = `
import os

class Greeter:
    def __init__(self, name):
        self.name = name

    def greet(self):
        """Return the greeted name, basename only."""
        return os.path.basename(self.name)


def make_greeter(name):
    g = Greeter(name)
    return g
`

func buildIndex(t *testing.T, source, path string) *extractor.SemanticIndex {
	t.Helper()

	pm := parser.NewParserManager(slog.Default())
	t.Cleanup(func() { pm.Close() })

	tree, err := pm.Parse([]byte(source), parser.LanguagePython, false)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	index, err := extractor.BuildSemanticIndex(pm, extractor.ParsedFile{FilePath: path, Lang: parser.LanguagePython}, tree, []byte(source))
	require.NoError(t, err)
	return index
}

func TestBuildSemanticIndex_Python_ClassWithInitAndMethodDocstring(t *testing.T) {
	index := buildIndex(t, samplePython, "greeter.py")

	require.Len(t, index.Classes, 1)
	var greeter *extractor.ClassDefinition
	for _, c := range index.Classes {
		greeter = c
	}
	assert.Equal(t, "Greeter", greeter.Name)

	require.NotNil(t, greeter.Constructor, "__init__ should be captured as the constructor")
	assert.Equal(t, "__init__", greeter.Constructor.Name)

	require.Len(t, greeter.Methods, 1)
	assert.Equal(t, "greet", greeter.Methods[0].Name)
	assert.Equal(t, "Return the greeted name, basename only.", greeter.Methods[0].Docstring)

	require.Len(t, index.Functions, 1, "make_greeter is the only free function")
	var makeGreeter *extractor.FunctionDefinition
	for _, fn := range index.Functions {
		makeGreeter = fn
	}
	assert.Equal(t, "make_greeter", makeGreeter.Name)
}

func TestBuildSemanticIndex_Python_CallsAndImport(t *testing.T) {
	index := buildIndex(t, samplePython, "greeter.py")

	require.Len(t, index.Imports, 1)
	var imp *extractor.ImportDefinition
	for _, i := range index.Imports {
		imp = i
	}
	assert.Equal(t, "os", imp.Name)

	// Python's grammar doesn't distinguish a call to a capitalized name from
	// any other call, so Greeter(name) surfaces as a plain function_call.
	var sawGreeterCall, sawMethodCall bool
	for _, ref := range index.References {
		switch ref.Kind {
		case extractor.RefFunctionCall:
			if ref.Name == "Greeter" {
				sawGreeterCall = true
			}
		case extractor.RefMethodCall:
			if ref.Name == "basename" {
				sawMethodCall = true
			}
		}
	}
	assert.True(t, sawGreeterCall, "Greeter(name) should produce a function-call reference")
	assert.True(t, sawMethodCall, "os.path.basename(...) should produce a method-call reference")

	for _, ref := range index.References {
		if ref.Kind == extractor.RefMethodCall && ref.Name == "basename" {
			assert.Equal(t, []string{"os", "path", "basename"}, ref.PropertyChain)
		}
	}
}

const samplePythonSelfAndCls = `
class Widget:
    @classmethod
    def create(cls):
        return cls.build()

    def render(self):
        self.paint()
`

func TestBuildSemanticIndex_Python_SelfAndClsReferenceCalls(t *testing.T) {
	index := buildIndex(t, samplePythonSelfAndCls, "widget.py")

	var sawSelf, sawCls bool
	for _, ref := range index.References {
		if ref.Kind != extractor.RefSelfReferenceCall {
			continue
		}
		switch ref.SelfKeyword {
		case "self":
			sawSelf = true
			assert.Equal(t, "self", ref.Receiver)
			assert.Equal(t, []string{"self", "paint"}, ref.PropertyChain)
		case "cls":
			sawCls = true
			assert.Equal(t, "cls", ref.Receiver)
			assert.Equal(t, []string{"cls", "build"}, ref.PropertyChain)
		}
	}
	assert.True(t, sawSelf, "self.paint() should be a self_reference_call with self_keyword=self")
	assert.True(t, sawCls, "cls.build() should be a self_reference_call with self_keyword=cls")
}
