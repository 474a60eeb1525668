package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepkit/expresso/express/parser"
	"github.com/stepkit/expresso/express/token"
)

const inheritanceSchema = `
SCHEMA shapes_schema;

ENTITY shape
 ABSTRACT SUPERTYPE OF (ONEOF(circle, square));
  name : STRING;
END_ENTITY;

ENTITY circle
 SUBTYPE OF (shape);
  radius : REAL;
END_ENTITY;

ENTITY square
 SUBTYPE OF (shape);
  side : REAL;
END_ENTITY;

END_SCHEMA;
`

func legalizeSample(t *testing.T, src string) *Program {
	t.Helper()

	toks, err := token.New(src).All()
	require.NoError(t, err)

	tree, err := parser.Parse(toks)
	require.NoError(t, err)

	prog, err := Legalize(tree)
	require.NoError(t, err)

	return prog
}

func TestLegalizeInheritanceClosure(t *testing.T) {
	prog := legalizeSample(t, inheritanceSchema)

	sc := prog.Schemas[0]
	circle, ok := sc.Entity("circle")
	require.True(t, ok)

	require.Len(t, circle.SubtypeOf, 1)
	assert.Equal(t, "shape", circle.SubtypeOf[0].Name())
	require.Len(t, circle.Supertypes, 1)
	assert.Equal(t, "shape", circle.Supertypes[0].Name())

	// attributes are never hoisted: circle's own Attributes holds only
	// its explicit "radius", never shape's "name".
	require.Len(t, circle.Attributes, 1)
	assert.Equal(t, "radius", circle.Attributes[0].Name)
}

func TestLegalizeSubtypeBackEdges(t *testing.T) {
	prog := legalizeSample(t, inheritanceSchema)

	shape, ok := prog.Schemas[0].Entity("shape")
	require.True(t, ok)
	require.Len(t, shape.Subtypes, 2)
}

func TestLegalizeConstraintBundles(t *testing.T) {
	prog := legalizeSample(t, inheritanceSchema)

	shape, ok := prog.Schemas[0].Entity("shape")
	require.True(t, ok)
	c := prog.Constraints[shape.Path.String()]
	require.NotNil(t, c)
	require.Len(t, c.Bundles, 2)
}

func TestLegalizeEntitiesPreserveSourceOrder(t *testing.T) {
	prog := legalizeSample(t, inheritanceSchema)

	sc := prog.Schemas[0]

	var names []string
	for _, e := range sc.Entities {
		names = append(names, e.Path.Name())
	}

	assert.Equal(t, []string{"shape", "circle", "square"}, names)
}

func TestLegalizeUnresolvedTypeNameErrors(t *testing.T) {
	src := `
SCHEMA broken_schema;
ENTITY widget;
  gizmo : unknown_type;
END_ENTITY;
END_SCHEMA;
`

	toks, err := token.New(src).All()
	require.NoError(t, err)

	tree, err := parser.Parse(toks)
	require.NoError(t, err)

	_, err = Legalize(tree)
	assert.Error(t, err)
}
