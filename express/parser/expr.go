package parser

import (
	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/express/token"
	"github.com/stepkit/expresso/internal/diag"
)

// captureExpr consumes tokens up to (but not including) the first
// occurrence, at bracket depth zero, of any token whose Type is in
// stop. Expressions are a Non-goal for evaluation, so this is the only
// treatment WHERE/DERIVE/RULE/FUNCTION bodies receive: a raw span.
func (p *parser) captureExpr(stop ...token.Type) (ast.RawExpr, error) {
	start := p.pos
	depth := 0

	for {
		t := p.cur()
		if t.Type == token.EOF {
			return ast.RawExpr{}, diag.New(diag.KindMalformedExpression, p.pos2diag(), nil,
				"unterminated expression starting at token %d", start)
		}

		if depth == 0 && containsType(stop, t.Type) {
			break
		}

		switch t.Type {
		case token.LPAREN, token.LBRACKET:
			depth++
		case token.RPAREN, token.RBRACKET:
			depth--
		}

		p.advance()
	}

	return ast.RawExpr{Tokens: p.span(start, p.pos)}, nil
}

func containsType(set []token.Type, t token.Type) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}

	return false
}

// skipSemicolon consumes one ';' token, or reports an ExpectedToken
// diagnostic when the current token is anything else.
func (p *parser) skipSemicolon() error {
	_, err := p.expectType(token.SEMICOLON, "';'")
	return err
}
