package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepkit/expresso/part21/ast"
	"github.com/stepkit/expresso/part21/parser"
	"github.com/stepkit/expresso/part21/token"
)

const sample = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''), '2;1');
FILE_NAME('', '', (''), (''), '', '', '');
FILE_SCHEMA(('TEST'));
ENDSEC;
DATA;
#1 = CARTESIAN_POINT('o', (0.0, 0.0, 0.0));
#2 = DIRECTION('d', (1.0, 0.0, 0.0));
ENDSEC;
END-ISO-10303-21;
`

func build(t *testing.T) *Table {
	t.Helper()

	toks, err := token.New(sample).All()
	require.NoError(t, err)

	ef, err := parser.Parse(toks)
	require.NoError(t, err)

	tbl, err := Build(ef)
	require.NoError(t, err)

	return tbl
}

func TestGetByID(t *testing.T) {
	tbl := build(t)

	inst, ok := tbl.Get(1)
	require.True(t, ok)
	assert.Equal(t, "CARTESIAN_POINT", inst.Records[0].Keyword)
}

func TestByKeyword(t *testing.T) {
	tbl := build(t)

	matches := tbl.ByKeyword("direction")
	require.Len(t, matches, 1)
	assert.EqualValues(t, 2, matches[0].ID)
}

func TestResolveMissingReference(t *testing.T) {
	tbl := build(t)

	_, _, err := tbl.Resolve(ast.Name{Kind: ast.KindEntity, ID: 99})
	assert.Error(t, err)
}

func TestResolveEntityRef(t *testing.T) {
	tbl := build(t)

	inst, _, err := tbl.Resolve(ast.Name{Kind: ast.KindEntity, ID: 2})
	require.NoError(t, err)
	assert.Equal(t, "DIRECTION", inst.Records[0].Keyword)
}

func TestResolveConstantWithTable(t *testing.T) {
	tbl := build(t).WithConstants(map[string]ast.Parameter{
		"PI": {Kind: ast.ParamReal, Real: 3.14159},
	})

	_, v, err := tbl.Resolve(ast.Name{Kind: ast.KindConstantValue, Const: "PI"})
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, v.Real, 1e-9)
}

func TestDuplicateInstanceIDErrors(t *testing.T) {
	src := `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''), '2;1');
FILE_NAME('', '', (''), (''), '', '', '');
FILE_SCHEMA(('TEST'));
ENDSEC;
DATA;
#1 = CARTESIAN_POINT('o', (0.0, 0.0, 0.0));
#1 = DIRECTION('d', (1.0, 0.0, 0.0));
ENDSEC;
END-ISO-10303-21;
`

	toks, err := token.New(src).All()
	require.NoError(t, err)

	ef, err := parser.Parse(toks)
	require.NoError(t, err)

	_, err = Build(ef)
	assert.Error(t, err)
}
