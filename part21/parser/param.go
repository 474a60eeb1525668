package parser

import (
	"strconv"

	"github.com/stepkit/expresso/internal/diag"
	"github.com/stepkit/expresso/part21/ast"
	"github.com/stepkit/expresso/part21/token"
)

// parseParamList parses '(' [ parameter (',' parameter)* ] ')'.
func (p *parser) parseParamList() ([]ast.Parameter, error) {
	if _, err := p.expectType(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var params []ast.Parameter

	if p.cur().Type != token.RPAREN {
		for {
			param, err := p.parseParameter()
			if err != nil {
				return nil, err
			}

			params = append(params, param)

			if p.cur().Type == token.COMMA {
				p.advance()
				continue
			}

			break
		}
	}

	if _, err := p.expectType(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	return params, nil
}

func (p *parser) parseParameter() (ast.Parameter, error) {
	pos := diagToAstPos(p.pos2diag())
	t := p.cur()

	switch t.Type {
	case token.INTEGER:
		p.advance()

		n, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return ast.Parameter{}, diag.New(diag.KindInvalidBound, p.pos2diag(), err, "integer %q out of range", t.Value)
		}

		return ast.Parameter{Kind: ast.ParamInteger, Integer: n, Pos: pos}, nil

	case token.REAL:
		p.advance()

		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return ast.Parameter{}, diag.New(diag.KindInvalidBound, p.pos2diag(), err, "real %q not representable", t.Value)
		}

		return ast.Parameter{Kind: ast.ParamReal, Real: f, Pos: pos}, nil

	case token.STRING:
		p.advance()
		return ast.Parameter{Kind: ast.ParamString, Str: t.Value, Pos: pos}, nil

	case token.ENUMERATION:
		p.advance()
		return ast.Parameter{Kind: ast.ParamEnumeration, Enum: t.Value, Pos: pos}, nil

	case token.RESOURCE:
		p.advance()
		// A <uri> appearing as a parameter value is kept as a string;
		// URI validation is out of scope.
		return ast.Parameter{Kind: ast.ParamString, Str: t.Value, Pos: pos}, nil

	case token.ENTITY_REF:
		p.advance()

		id, err := parseInstanceID(t.Value, p.pos2diag())
		if err != nil {
			return ast.Parameter{}, err
		}

		return ast.Parameter{Kind: ast.ParamRef, Ref: ast.Name{Kind: ast.KindEntity, ID: id}, Pos: pos}, nil

	case token.VALUE_REF:
		p.advance()

		id, err := parseInstanceID(t.Value, p.pos2diag())
		if err != nil {
			return ast.Parameter{}, err
		}

		return ast.Parameter{Kind: ast.ParamRef, Ref: ast.Name{Kind: ast.KindValue, ID: id}, Pos: pos}, nil

	case token.CONSTANT_ENTITY:
		p.advance()
		return ast.Parameter{Kind: ast.ParamRef, Ref: ast.Name{Kind: ast.KindConstantEntity, Const: t.Value}, Pos: pos}, nil

	case token.CONSTANT_VALUE:
		p.advance()
		return ast.Parameter{Kind: ast.ParamRef, Ref: ast.Name{Kind: ast.KindConstantValue, Const: t.Value}, Pos: pos}, nil

	case token.OMITTED:
		p.advance()
		return ast.Parameter{Kind: ast.ParamOmitted, Pos: pos}, nil

	case token.DERIVE_VALUE:
		p.advance()
		return ast.Parameter{Kind: ast.ParamNotProvided, Pos: pos}, nil

	case token.LPAREN:
		items, err := p.parseParamList()
		if err != nil {
			return ast.Parameter{}, err
		}

		return ast.Parameter{Kind: ast.ParamList, List: items, Pos: pos}, nil

	case token.KEYWORD:
		kw := p.advance().Value

		if p.cur().Type != token.LPAREN {
			return ast.Parameter{}, diag.New(diag.KindMalformedRecord, p.pos2diag(), nil,
				"expected '(' after typed parameter keyword %s", kw)
		}

		inner, err := p.parseParamList()
		if err != nil {
			return ast.Parameter{}, err
		}

		if len(inner) != 1 {
			return ast.Parameter{}, diag.New(diag.KindMalformedRecord, p.pos2diag(), nil,
				"typed parameter %s must wrap exactly one value, found %d", kw, len(inner))
		}

		return ast.Parameter{Kind: ast.ParamTyped, Typed: &ast.TypedParameter{Keyword: kw, Param: inner[0]}, Pos: pos}, nil

	default:
		return ast.Parameter{}, diag.New(diag.KindMalformedRecord, p.pos2diag(), nil,
			"unexpected token %s in parameter position", t)
	}
}
