package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t []Token) []Type {
	out := make([]Type, len(t))
	for i, tok := range t {
		out[i] = tok.Type
	}

	return out
}

func TestTokenizeSimpleEntity(t *testing.T) {
	src := "ENTITY point; x : REAL; END_ENTITY;"

	toks, err := New(src).All()
	require.NoError(t, err)

	var kept []Token

	for _, tok := range toks {
		if tok.Type != WHITESPACE {
			kept = append(kept, tok)
		}
	}

	assert.Equal(t,
		[]Type{WORD, WORD, SEMICOLON, WORD, COLON, WORD, SEMICOLON, WORD, SEMICOLON, EOF},
		tokenTypes(kept))
}

func TestTokenizeIntegerVsReal(t *testing.T) {
	toks, err := New("42 3.14 1.").All()
	require.NoError(t, err)

	// "42" is INTEGER; "3.14" and the degenerate "1." are both REAL.
	require.GreaterOrEqual(t, len(toks), 5)
	assert.Equal(t, INTEGER, toks[0].Type)
	assert.Equal(t, REAL, toks[2].Type)
	assert.Equal(t, "1.", toks[4].Value)
	assert.Equal(t, REAL, toks[4].Type)
}

func TestTokenizeStringEscape(t *testing.T) {
	toks, err := New(`'vim''s'`).All()
	require.NoError(t, err)

	require.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "vim's", toks[0].Value)
}

func TestTokenizeEnumeration(t *testing.T) {
	toks, err := New(".TRUE.").All()
	require.NoError(t, err)

	require.Equal(t, ENUMERATION, toks[0].Type)
	assert.Equal(t, "TRUE", toks[0].Value)
}

func TestTokenizeEntityAndValueRef(t *testing.T) {
	toks, err := New("#1 @2").All()
	require.NoError(t, err)

	assert.Equal(t, ENTITY_REF, toks[0].Type)
	assert.Equal(t, "1", toks[0].Value)
	assert.Equal(t, VALUE_REF, toks[2].Type)
	assert.Equal(t, "2", toks[2].Value)
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := New("'unterminated").All()
	assert.ErrorIs(t, err, ErrUnterminatedString)
}

func TestFoldIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, Fold("entity"), Fold("ENTITY"))
	assert.Equal(t, Fold("Entity"), Fold("entity"))
}
