package typescript_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/extractor"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/typescript"
	"github.com/gnana997/semindex/pkg/parser"
)

const sampleTS = `
export interface Shape {
  area(): number
}

export enum Color {
  Red,
  Blue = "blue",
}

export type Id = string

export class Circle implements Shape {
  radius: number

  constructor(radius: number) {
    this.radius = radius
  }

  area(): number {
    return Math.PI * this.radius * this.radius
  }
}
`

func buildIndex(t *testing.T, source, path string) *extractor.SemanticIndex {
	t.Helper()

	pm := parser.NewParserManager(slog.Default())
	t.Cleanup(func() { pm.Close() })

	tree, err := pm.Parse([]byte(source), parser.LanguageTypeScript, false)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	index, err := extractor.BuildSemanticIndex(pm, extractor.ParsedFile{FilePath: path, Lang: parser.LanguageTypeScript}, tree, []byte(source))
	require.NoError(t, err)
	return index
}

func TestBuildSemanticIndex_TypeScript_InterfaceEnumAndTypeAlias(t *testing.T) {
	index := buildIndex(t, sampleTS, "shapes.ts")

	require.Len(t, index.Interfaces, 1)
	var shape *extractor.InterfaceDefinition
	for _, i := range index.Interfaces {
		shape = i
	}
	assert.Equal(t, "Shape", shape.Name)
	assert.True(t, shape.IsExported)

	require.Len(t, index.Enums, 1)
	var color *extractor.EnumDefinition
	for _, e := range index.Enums {
		color = e
	}
	assert.Equal(t, "Color", color.Name)
	require.Len(t, color.Members, 2)
	assert.Equal(t, "Red", color.Members[0].Name)
	assert.Equal(t, "Blue", color.Members[1].Name)
	assert.Equal(t, `"blue"`, color.Members[1].Value)

	require.Len(t, index.Types, 1)
	var idAlias *extractor.TypeAliasDefinition
	for _, ta := range index.Types {
		idAlias = ta
	}
	assert.Equal(t, "Id", idAlias.Name)
	assert.Equal(t, "string", idAlias.Underlying)
}

func TestBuildSemanticIndex_TypeScript_ClassImplementsInterface(t *testing.T) {
	index := buildIndex(t, sampleTS, "shapes.ts")

	require.Len(t, index.Classes, 1)
	var circle *extractor.ClassDefinition
	for _, c := range index.Classes {
		circle = c
	}
	assert.Equal(t, "Circle", circle.Name)
	assert.True(t, circle.IsExported)

	require.NotNil(t, circle.Constructor)
	require.Len(t, circle.Methods, 1)
	assert.Equal(t, "area", circle.Methods[0].Name)
	assert.Equal(t, "number", circle.Methods[0].ReturnType)

	require.Len(t, circle.Properties, 1)
	assert.Equal(t, "radius", circle.Properties[0].Name)

	var sawImplements bool
	for _, ref := range index.References {
		if ref.Kind == extractor.RefTypeReference && ref.Context == "implements" && ref.Name == "Shape" {
			sawImplements = true
			require.NotNil(t, ref.TypeInfo)
			assert.Equal(t, "Shape", ref.TypeInfo.TypeName)
			assert.Equal(t, extractor.TypeCertaintyDeclared, ref.TypeInfo.Certainty)
		}
	}
	assert.True(t, sawImplements, "class Circle implements Shape should carry a type_reference with context=implements")
}

const sampleTSExtendsAndNullable = `
class Animal {}
class Dog extends Animal {}

interface Config {
  handler: Worker | null
}
`

func TestBuildSemanticIndex_TypeScript_ExtendsContextAndNullableType(t *testing.T) {
	index := buildIndex(t, sampleTSExtendsAndNullable, "animals.ts")

	var sawExtends, sawNullable bool
	for _, ref := range index.References {
		if ref.Kind != extractor.RefTypeReference {
			continue
		}
		if ref.Context == "extends" && ref.Name == "Animal" {
			sawExtends = true
		}
		if ref.Name == "Worker" {
			require.NotNil(t, ref.TypeInfo)
			if ref.TypeInfo.IsNullable {
				sawNullable = true
			}
		}
	}
	assert.True(t, sawExtends, "class Dog extends Animal should carry a type_reference with context=extends")
	assert.True(t, sawNullable, "Worker | null should mark the type_reference as nullable")
}
