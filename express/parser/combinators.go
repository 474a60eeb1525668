package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	"github.com/stepkit/expresso/express/token"
)

// toParserToken wraps a filtered token.Token stream as parsercombinator
// tokens, the same conversion snapsql's parsercommon.ToParserToken
// performs for its own tokenizer.Token stream.
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

// primitiveType is the EXPRESS-side counterpart of
// parsercommon.PrimitiveType: a pc.Parser matching a single token whose
// Type is one of types. It operates on the plain token.Token payload,
// the same choice parserstep4's from_clause.go/order_by_clause.go make
// (pc.Parser[tok.Token]) rather than parserstep2's richer Entity
// wrapper, since this grammar has no whitespace/comment text to stitch
// back onto reconstructed source.
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

// keyword is the EXPRESS-side counterpart of parsercommon.KeywordType:
// it matches a WORD token whose value folds case-insensitively to word,
// via token.Fold rather than strings.EqualFold, since EXPRESS keyword
// folding is locale-neutral Unicode case folding, not ASCII folding.
func keyword(word string) pc.Parser[token.Token] {
	return func(_ *pc.ParseContext[token.Token], toks []pc.Token[token.Token]) (int, []pc.Token[token.Token], error) {
		if len(toks) > 0 && toks[0].Val.Type == token.WORD && token.Fold(toks[0].Val.Value) == token.Fold(word) {
			return 1, toks[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}
