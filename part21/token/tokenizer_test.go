package token

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealAssemblesExponent(t *testing.T) {
	cases := map[string]float64{
		"1.23":    1.23,
		"1.23E4":  1.23e4,
		"-1.23E-4": -1.23e-4,
	}

	for src, want := range cases {
		toks, err := New(src).All()
		require.NoError(t, err, src)
		require.Equal(t, REAL, toks[0].Type, src)

		got, err := strconv.ParseFloat(toks[0].Value, 64)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, src)
	}
}

func TestIntegerWithoutDotIsNotReal(t *testing.T) {
	toks, err := New("123").All()
	require.NoError(t, err)
	assert.Equal(t, INTEGER, toks[0].Type)
	assert.Equal(t, "123", toks[0].Value)
}

func TestStringEscapesApostropheOnly(t *testing.T) {
	toks, err := New(`'vim''s'`).All()
	require.NoError(t, err)
	require.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "vim's", toks[0].Value)
}

func TestEntityInstanceNameAcceptsLeadingZeros(t *testing.T) {
	toks, err := New("#001").All()
	require.NoError(t, err)
	require.Equal(t, ENTITY_REF, toks[0].Type)

	id, err := strconv.ParseUint(toks[0].Value, 10, 64)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
}

func TestEntityInstanceNameMaxUint64(t *testing.T) {
	toks, err := New("#18446744073709551615").All()
	require.NoError(t, err)

	id, err := strconv.ParseUint(toks[0].Value, 10, 64)
	require.NoError(t, err)
	assert.EqualValues(t, uint64(math.MaxUint64), id)
}

func TestEntityInstanceNameOverflows(t *testing.T) {
	toks, err := New("#18446744073709551616").All()
	require.NoError(t, err)

	_, err = strconv.ParseUint(toks[0].Value, 10, 64)
	assert.Error(t, err)
}

func TestConstantEntityName(t *testing.T) {
	toks, err := New("#MY_CONST").All()
	require.NoError(t, err)
	require.Equal(t, CONSTANT_ENTITY, toks[0].Type)
	assert.Equal(t, "MY_CONST", toks[0].Value)
}

func TestOmittedAndDeriveMarkers(t *testing.T) {
	toks, err := New("$ *").All()
	require.NoError(t, err)
	assert.Equal(t, OMITTED, toks[0].Type)
	assert.Equal(t, DERIVE_VALUE, toks[2].Type)
}
