package parser

import (
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/stepkit/expresso/part21/token"
)

// toParserToken is the Part 21 counterpart of express/parser's own
// helper of the same name, grounded on the same
// parsercommon.ToParserToken conversion.
func toParserToken(toks []token.Token) []pc.Token[token.Token] {
	out := make([]pc.Token[token.Token], len(toks))

	for i, t := range toks {
		out[i] = pc.Token[token.Token]{
			Type: t.Type.String(),
			Pos:  &pc.Pos{Line: t.Position.Line, Col: t.Position.Column, Index: t.Position.Offset},
			Val:  t,
			Raw:  t.Value,
		}
	}

	return out
}

// primitiveType matches a single token whose Type is one of types, the
// Part 21 counterpart of parsercommon.PrimitiveType.
func primitiveType(types ...token.Type) pc.Parser[token.Token] {
	return func(_ *pc.ParseContext[token.Token], toks []pc.Token[token.Token]) (int, []pc.Token[token.Token], error) {
		if len(toks) == 0 {
			return 0, nil, pc.ErrNotMatch
		}

		for _, want := range types {
			if toks[0].Val.Type == want {
				return 1, toks[:1], nil
			}
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// keyword matches a KEYWORD token case-insensitively, the Part 21
// counterpart of parsercommon.KeywordType. Part 21 keywords (unlike
// EXPRESS's) are plain ASCII, so strings.EqualFold is the right fold,
// not token.Fold's Unicode case folding.
func keyword(word string) pc.Parser[token.Token] {
	return func(_ *pc.ParseContext[token.Token], toks []pc.Token[token.Token]) (int, []pc.Token[token.Token], error) {
		if len(toks) > 0 && toks[0].Val.Type == token.KEYWORD && strings.EqualFold(toks[0].Val.Value, word) {
			return 1, toks[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}
