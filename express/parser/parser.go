// Package parser builds an express/ast.SyntaxTree from a token stream.
// Grammar rules are recursive-descent functions over a cursor index,
// matching parserstep1's token-list-walker shape, but each leaf token
// match is delegated to a parsercombinator pc.Parser[token.Token],
// exactly as parsercommon.PrimitiveType/KeywordType do for snapsql's
// own grammar (see combinators.go).
package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/express/token"
	"github.com/stepkit/expresso/internal/diag"
)

// parser walks a filtered token slice (whitespace and comments dropped),
// converted to parsercombinator's own pc.Token[token.Token] wrapper so
// every match goes through a pc.Parser[token.Token], with a single
// cursor index layered on top for the recursive grammar structure that
// the combinator library itself leaves to hand-written functions (see
// e.g. parserstep4's finalizeFromClause/parseTableReference).
type parser struct {
	toks []pc.Token[token.Token]
	pos  int
	pctx *pc.ParseContext[token.Token]
}

// Parse turns toks, a full token stream as produced by token.Tokenizer,
// into a SyntaxTree, or returns the first *diag.Error encountered.
func Parse(toks []token.Token) (*ast.SyntaxTree, error) {
	p := &parser{
		toks: toParserToken(filterTrivia(toks)),
		pctx: pc.NewParseContext[token.Token](),
	}

	tree := &ast.SyntaxTree{}

	for !p.atEOF() {
		sc, err := p.parseSchema()
		if err != nil {
			return nil, err
		}

		tree.Schemas = append(tree.Schemas, sc)
	}

	return tree, nil
}

func filterTrivia(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))

	for _, t := range toks {
		switch t.Type {
		case token.WHITESPACE, token.LINE_COMMENT, token.BLOCK_COMMENT:
			continue
		default:
			out = append(out, t)
		}
	}

	return out
}

func (p *parser) atEOF() bool {
	return p.pos >= len(p.toks) || p.toks[p.pos].Val.Type == token.EOF
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Type: token.EOF}
	}

	return p.toks[p.pos].Val
}

// at returns the raw token.Token at absolute index i, for call sites
// that look at a token other than the current one (e.g.
// peekIsColon's one-token lookahead).
func (p *parser) at(i int) token.Token {
	return p.toks[i].Val
}

// span materializes the raw token.Token values for the half-open
// absolute index range [from, to), unwrapped from their
// pc.Token[token.Token] envelope.
func (p *parser) span(from, to int) []token.Token {
	out := make([]token.Token, 0, to-from)
	for _, t := range p.toks[from:to] {
		out = append(out, t.Val)
	}

	return out
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}

	return t
}

func (p *parser) pos2diag() diag.Position {
	t := p.cur()

	return diag.Position{Line: t.Position.Line, Column: t.Position.Column, Offset: t.Position.Offset}
}

// isWord reports whether the current token is a WORD matching kw,
// case-insensitively, per token.Fold — EXPRESS keywords are
// case-insensitive but identifiers preserve their written case.
func (p *parser) isWord(kw string) bool {
	n, _, err := keyword(kw)(p.pctx, p.toks[p.pos:])

	return err == nil && n > 0
}

func (p *parser) expectWord(kw string) (token.Token, error) {
	n, matched, err := keyword(kw)(p.pctx, p.toks[p.pos:])
	if err != nil || n == 0 {
		return token.Token{}, diag.New(diag.KindExpectedKeyword, p.pos2diag(), nil,
			"expected %q, found %s", kw, p.cur())
	}

	p.pos += n

	return matched[0].Val, nil
}

func (p *parser) expectType(typ token.Type, what string) (token.Token, error) {
	n, matched, err := primitiveType(typ)(p.pctx, p.toks[p.pos:])
	if err != nil || n == 0 {
		return token.Token{}, diag.New(diag.KindExpectedToken, p.pos2diag(), nil,
			"expected %s, found %s", what, p.cur())
	}

	p.pos += n

	return matched[0].Val, nil
}

// expectIdent accepts any WORD as a name, regardless of whether it
// collides with a keyword spelling; the grammar disambiguates by
// position, not by reserving keyword spellings from identifier space.
func (p *parser) expectIdent() (string, error) {
	t, err := p.expectType(token.WORD, "identifier")
	if err != nil {
		return "", err
	}

	return t.Value, nil
}
