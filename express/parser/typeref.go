package parser

import (
	"strconv"

	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/express/token"
	"github.com/stepkit/expresso/internal/diag"
)

var simpleKeywords = map[string]ast.SimpleKind{
	"INTEGER": ast.SimpleInteger,
	"REAL":    ast.SimpleReal,
	"NUMBER":  ast.SimpleNumber,
	"STRING":  ast.SimpleString,
	"BOOLEAN": ast.SimpleBoolean,
	"LOGICAL": ast.SimpleLogical,
	"BINARY":  ast.SimpleBinary,
}

// parseTypeRef parses one underlying_type production: a simple type, a
// named type reference, an aggregation type, an ENUMERATION OF, or a
// SELECT type.
func (p *parser) parseTypeRef() (ast.TypeRef, error) {
	switch {
	case p.isAnyWord("SET", "BAG", "LIST", "ARRAY"):
		return p.parseAggregateType()
	case p.isWord("ENUMERATION"):
		return p.parseEnumerationType()
	case p.isWord("SELECT"):
		return p.parseSelectType()
	}

	if p.cur().Type != token.WORD {
		return ast.TypeRef{}, diag.New(diag.KindExpectedToken, p.pos2diag(), nil,
			"expected a type reference, found %s", p.cur())
	}

	name := p.advance().Value
	folded := token.Fold(name)

	if kind, ok := simpleKeywords[folded]; ok {
		tr := ast.TypeRef{Kind: ast.KindSimple, Simple: kind}

		if folded == "STRING" && p.cur().Type == token.LPAREN {
			// Optional fixed-width STRING(n) / STRING(n) FIXED: the width
			// and FIXED marker are consumed and discarded; the TypeRef
			// records neither.
			p.advance()

			if _, err := p.expectType(token.INTEGER, "width"); err != nil {
				return ast.TypeRef{}, err
			}

			if _, err := p.expectType(token.RPAREN, "')'"); err != nil {
				return ast.TypeRef{}, err
			}

			if p.isWord("FIXED") {
				p.advance()
			}
		}

		return tr, nil
	}

	return ast.TypeRef{Kind: ast.KindNamed, Named: name}, nil
}

func (p *parser) isAnyWord(kws ...string) bool {
	for _, kw := range kws {
		if p.isWord(kw) {
			return true
		}
	}

	return false
}

func (p *parser) parseAggregateType() (ast.TypeRef, error) {
	kwTok := p.advance()

	var kind ast.TypeRefKind

	switch token.Fold(kwTok.Value) {
	case "SET":
		kind = ast.KindSet
	case "BAG":
		kind = ast.KindBag
	case "LIST":
		kind = ast.KindList
	case "ARRAY":
		kind = ast.KindArray
	}

	tr := ast.TypeRef{Kind: kind}

	if p.cur().Type == token.LBRACKET {
		b1, b2, err := p.parseBoundSpec()
		if err != nil {
			return ast.TypeRef{}, err
		}

		tr.Bound1, tr.Bound2 = b1, b2
	}

	if _, err := p.expectWord("OF"); err != nil {
		return ast.TypeRef{}, err
	}

	if p.isWord("UNIQUE") {
		p.advance()

		tr.Unique = true
	}

	elem, err := p.parseTypeRef()
	if err != nil {
		return ast.TypeRef{}, err
	}

	tr.Elem = &elem

	return tr, nil
}

func (p *parser) parseBoundSpec() (*int64, *int64, error) {
	if _, err := p.expectType(token.LBRACKET, "'['"); err != nil {
		return nil, nil, err
	}

	b1, err := p.parseBound()
	if err != nil {
		return nil, nil, err
	}

	if _, err := p.expectType(token.COLON, "':'"); err != nil {
		return nil, nil, err
	}

	b2, err := p.parseBound()
	if err != nil {
		return nil, nil, err
	}

	if _, err := p.expectType(token.RBRACKET, "']'"); err != nil {
		return nil, nil, err
	}

	return b1, b2, nil
}

func (p *parser) parseBound() (*int64, error) {
	if p.cur().Type == token.QUESTION {
		p.advance()
		return nil, nil
	}

	neg := false
	if p.cur().Type == token.MINUS {
		p.advance()
		neg = true
	}

	t, err := p.expectType(token.INTEGER, "bound")
	if err != nil {
		return nil, err
	}

	n, convErr := strconv.ParseInt(t.Value, 10, 64)
	if convErr != nil {
		return nil, diag.New(diag.KindInvalidBound, p.pos2diag(), convErr, "bound %q out of range", t.Value)
	}

	if neg {
		n = -n
	}

	return &n, nil
}

func (p *parser) parseEnumerationType() (ast.TypeRef, error) {
	p.advance() // ENUMERATION

	if _, err := p.expectWord("OF"); err != nil {
		return ast.TypeRef{}, err
	}

	names, err := p.parseIdentList()
	if err != nil {
		return ast.TypeRef{}, err
	}

	return ast.TypeRef{Kind: ast.KindEnumeration, EnumValues: names}, nil
}

func (p *parser) parseSelectType() (ast.TypeRef, error) {
	p.advance() // SELECT

	names, err := p.parseIdentList()
	if err != nil {
		return ast.TypeRef{}, err
	}

	return ast.TypeRef{Kind: ast.KindSelect, SelectOf: names}, nil
}

// parseIdentList parses a parenthesized, comma-separated name list:
// '(' name (',' name)* ')'.
func (p *parser) parseIdentList() ([]string, error) {
	if _, err := p.expectType(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var names []string

	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		names = append(names, name)

		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expectType(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	return names, nil
}
