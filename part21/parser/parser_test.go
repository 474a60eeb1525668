package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepkit/expresso/part21/ast"
	"github.com/stepkit/expresso/part21/token"
)

const sampleExchange = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''), '2;1');
FILE_NAME('part.stp', '2026-07-31T00:00:00', ('author'), ('org'), 'preproc', 'system', '');
FILE_SCHEMA(('CONFIG_CONTROL_DESIGN'));
ENDSEC;
DATA;
#1 = CARTESIAN_POINT('origin', (0.0, 0.0, 0.0));
#2 = (NAMED_UNIT() LENGTH_UNIT() SI_UNIT($, .METRE.));
ENDSEC;
END-ISO-10303-21;
`

func parseSample(t *testing.T) *ast.ExchangeFile {
	t.Helper()

	toks, err := token.New(sampleExchange).All()
	require.NoError(t, err)

	ef, err := Parse(toks)
	require.NoError(t, err)

	return ef
}

func TestParseHeaderAndData(t *testing.T) {
	ef := parseSample(t)

	assert.Equal(t, "FILE_DESCRIPTION", ef.Header.Description.Keyword)
	assert.Equal(t, "FILE_SCHEMA", ef.Header.Schema.Keyword)
	require.Len(t, ef.Data, 1)
	require.Len(t, ef.Data[0].Instances, 2)
}

func TestParseSimpleInstance(t *testing.T) {
	ef := parseSample(t)

	inst := ef.Data[0].Instances[0]
	assert.EqualValues(t, 1, inst.ID)
	assert.False(t, inst.IsComplex())
	assert.Equal(t, "CARTESIAN_POINT", inst.Records[0].Keyword)
}

func TestParseComplexInstance(t *testing.T) {
	ef := parseSample(t)

	inst := ef.Data[0].Instances[1]
	assert.EqualValues(t, 2, inst.ID)
	assert.True(t, inst.IsComplex())
	require.Len(t, inst.Records, 3)
	assert.Equal(t, "SI_UNIT", inst.Records[2].Keyword)
}

func TestParseOmittedAndEnumerationParams(t *testing.T) {
	ef := parseSample(t)

	siUnit := ef.Data[0].Instances[1].Records[2]
	require.Len(t, siUnit.Params, 2)
	assert.Equal(t, ast.ParamOmitted, siUnit.Params[0].Kind)
	assert.Equal(t, ast.ParamEnumeration, siUnit.Params[1].Kind)
	assert.Equal(t, "METRE", siUnit.Params[1].Enum)
}
