package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/express/token"
)

const sampleSchema = `
SCHEMA geometry_schema;

TYPE label = STRING;
END_TYPE;

ENTITY point;
  x : REAL;
  y : REAL;
  z : OPTIONAL REAL;
 DERIVE
  magnitude : REAL := x;
 WHERE
  wr1 : x > 0;
END_ENTITY;

ENTITY shape
 ABSTRACT SUPERTYPE OF (ONEOF(circle, square));
  name : label;
END_ENTITY;

ENTITY circle
 SUBTYPE OF (shape);
  radius : REAL;
 INVERSE
  owner : SET OF point FOR z;
 UNIQUE
  ur1 : radius;
END_ENTITY;

ENTITY square
 SUBTYPE OF (shape);
  side : REAL;
END_ENTITY;

END_SCHEMA;
`

func parseSample(t *testing.T) *ast.SyntaxTree {
	t.Helper()

	toks, err := token.New(sampleSchema).All()
	require.NoError(t, err)

	tree, err := Parse(toks)
	require.NoError(t, err)

	return tree
}

func TestParseSchemaStructure(t *testing.T) {
	tree := parseSample(t)

	require.Len(t, tree.Schemas, 1)
	sc := tree.Schemas[0]

	assert.Equal(t, "geometry_schema", sc.Name)
	require.Len(t, sc.Types, 1)
	assert.Equal(t, "label", sc.Types[0].Name)
	require.Len(t, sc.Entities, 4)
}

func TestParseEntityAttributesAndDerive(t *testing.T) {
	tree := parseSample(t)
	sc := tree.Schemas[0]

	point := findEntity(t, sc, "point")
	require.Len(t, point.Attributes, 3)
	assert.True(t, point.Attributes[2].Optional)

	require.Len(t, point.Derived, 1)
	assert.Equal(t, "magnitude", point.Derived[0].Name)

	require.Len(t, point.Where, 1)
	assert.Equal(t, "wr1", point.Where[0].Label)
}

func TestParseSupertypeConstraint(t *testing.T) {
	tree := parseSample(t)
	sc := tree.Schemas[0]

	shape := findEntity(t, sc, "shape")
	require.NotNil(t, shape.Supertype)
	require.Len(t, shape.Supertype.Oneof, 2)
	assert.Equal(t, "circle", shape.Supertype.Oneof[0].Leaf)
	assert.Equal(t, "square", shape.Supertype.Oneof[1].Leaf)
}

func TestParseSubtypeAndInverseAndUnique(t *testing.T) {
	tree := parseSample(t)
	sc := tree.Schemas[0]

	circle := findEntity(t, sc, "circle")
	assert.Equal(t, []string{"shape"}, circle.SubtypeOf)

	require.Len(t, circle.Inverse, 1)
	assert.Equal(t, "owner", circle.Inverse[0].Name)
	assert.Equal(t, "point", circle.Inverse[0].ForEntity)
	assert.Equal(t, "z", circle.Inverse[0].ForAttr)

	require.Len(t, circle.Unique, 1)
	assert.Equal(t, "ur1", circle.Unique[0].Label)
}

func findEntity(t *testing.T, sc *ast.Schema, name string) *ast.Entity {
	t.Helper()

	for _, e := range sc.Entities {
		if e.Name == name {
			return e
		}
	}

	t.Fatalf("entity %s not found", name)

	return nil
}
