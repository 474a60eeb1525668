package parser

import (
	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/express/token"
	"github.com/stepkit/expresso/internal/diag"
)

func (p *parser) parseSchema() (*ast.Schema, error) {
	start := p.pos2diag()

	if _, err := p.expectWord("SCHEMA"); err != nil {
		return nil, err
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	// Optional schema_version_id: a bare STRING literal before the ';'.
	if p.cur().Type == token.STRING {
		p.advance()
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	sc := &ast.Schema{Name: name, Pos: start}

	for !p.isWord("END_SCHEMA") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil,
				"unterminated SCHEMA %s: missing END_SCHEMA", name)
		}

		switch {
		case p.isWord("TYPE"):
			td, err := p.parseTypeDecl()
			if err != nil {
				return nil, err
			}

			sc.Types = append(sc.Types, td)
		case p.isWord("ENTITY"):
			e, err := p.parseEntity()
			if err != nil {
				return nil, err
			}

			sc.Entities = append(sc.Entities, e)
		case p.isWord("FUNCTION"):
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}

			sc.Functions = append(sc.Functions, fn)
		case p.isWord("PROCEDURE"):
			pr, err := p.parseProcedure()
			if err != nil {
				return nil, err
			}

			sc.Procedures = append(sc.Procedures, pr)
		case p.isWord("RULE"):
			r, err := p.parseRule()
			if err != nil {
				return nil, err
			}

			sc.Rules = append(sc.Rules, r)
		case p.isWord("CONSTANT"):
			if err := p.skipBlock("CONSTANT", "END_CONSTANT"); err != nil {
				return nil, err
			}
		case p.isWord("USE"), p.isWord("REFERENCE"):
			if _, err := p.captureExpr(token.SEMICOLON); err != nil {
				return nil, err
			}

			if err := p.skipSemicolon(); err != nil {
				return nil, err
			}
		default:
			return nil, diag.New(diag.KindExpectedKeyword, p.pos2diag(), nil,
				"unexpected schema body element %s", p.cur())
		}
	}

	p.advance() // END_SCHEMA

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	return sc, nil
}

// skipBlock consumes open ... matching close ';' verbatim, for schema
// constructs this compiler doesn't model in the IR (e.g. CONSTANT).
func (p *parser) skipBlock(open, close string) error {
	if _, err := p.expectWord(open); err != nil {
		return err
	}

	for !p.isWord(close) {
		if p.atEOF() {
			return diag.New(diag.KindMissingSection, p.pos2diag(), nil,
				"unterminated %s block: missing %s", open, close)
		}

		p.advance()
	}

	p.advance() // close keyword

	return p.skipSemicolon()
}

func (p *parser) parseTypeDecl() (*ast.TypeDecl, error) {
	start := p.pos2diag()

	p.advance() // TYPE

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectType(token.EQ, "'='"); err != nil {
		return nil, err
	}

	underlying, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	td := &ast.TypeDecl{Name: name, Pos: start, Underlying: underlying}

	if p.isWord("WHERE") {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}

		td.Where = where
	}

	if _, err := p.expectWord("END_TYPE"); err != nil {
		return nil, err
	}

	return td, p.skipSemicolon()
}

// parseWhereClause parses WHERE { [label ':'] expr ';' } and is shared
// by TYPE, ENTITY and RULE declarations.
func (p *parser) parseWhereClause() ([]ast.NamedExpr, error) {
	p.advance() // WHERE

	var exprs []ast.NamedExpr

	for !p.isAnyWord("END_TYPE", "END_ENTITY", "END_RULE", "DERIVE", "INVERSE", "UNIQUE") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil, "unterminated WHERE clause")
		}

		label := ""
		if p.cur().Type == token.WORD && p.peekIsColon() {
			label = p.advance().Value
			p.advance() // ':'
		}

		expr, err := p.captureExpr(token.SEMICOLON)
		if err != nil {
			return nil, err
		}

		if err := p.skipSemicolon(); err != nil {
			return nil, err
		}

		exprs = append(exprs, ast.NamedExpr{Label: label, Expr: expr})
	}

	return exprs, nil
}

func (p *parser) peekIsColon() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}

	return p.at(p.pos+1).Type == token.COLON
}

func (p *parser) parseFunction() (*ast.FunctionDecl, error) {
	start := p.pos2diag()

	p.advance() // FUNCTION

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectType(token.COLON, "':'"); err != nil {
		return nil, err
	}

	ret, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	// Function bodies run to END_FUNCTION; captured as a raw span since
	// statement evaluation is out of scope.
	rawBody, err := p.captureUntilWord("END_FUNCTION")
	if err != nil {
		return nil, err
	}

	p.advance() // END_FUNCTION

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	return &ast.FunctionDecl{Name: name, Pos: start, Params: params, Returns: ret, Body: rawBody}, nil
}

func (p *parser) parseProcedure() (*ast.ProcedureDecl, error) {
	start := p.pos2diag()

	p.advance() // PROCEDURE

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	rawBody, err := p.captureUntilWord("END_PROCEDURE")
	if err != nil {
		return nil, err
	}

	p.advance() // END_PROCEDURE

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	return &ast.ProcedureDecl{Name: name, Pos: start, Params: params, Body: rawBody}, nil
}

func (p *parser) parseRule() (*ast.RuleDecl, error) {
	start := p.pos2diag()

	p.advance() // RULE

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectWord("FOR"); err != nil {
		return nil, err
	}

	applies, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	var where []ast.NamedExpr

	rawBody, err := p.captureUntilWord("WHERE", "END_RULE")
	if err != nil {
		return nil, err
	}

	if p.isWord("WHERE") {
		where, err = p.parseWhereClause()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expectWord("END_RULE"); err != nil {
		return nil, err
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	return &ast.RuleDecl{Name: name, Pos: start, Applies: applies, Where: where, Body: rawBody}, nil
}

// parseParamList parses '(' name (',' name)* ':' type ';' ... ')' style
// function/procedure formal parameter lists.
func (p *parser) parseParamList() ([]*ast.Attribute, error) {
	if _, err := p.expectType(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var params []*ast.Attribute

	for p.cur().Type != token.RPAREN {
		if p.isWord("VAR") {
			p.advance()
		}

		pos := p.pos2diag()

		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectType(token.COLON, "':'"); err != nil {
			return nil, err
		}

		typ, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}

		params = append(params, &ast.Attribute{Name: name, Pos: pos, Type: typ})

		if p.cur().Type == token.SEMICOLON {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expectType(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	return params, nil
}

// captureUntilWord captures a raw token span up to (not including) the
// first occurrence of any of words at bracket depth zero.
func (p *parser) captureUntilWord(words ...string) (ast.RawExpr, error) {
	start := p.pos
	depth := 0

	for {
		t := p.cur()
		if t.Type == token.EOF {
			return ast.RawExpr{}, diag.New(diag.KindMalformedExpression, p.pos2diag(), nil,
				"unterminated block starting at token %d", start)
		}

		if depth == 0 && t.Type == token.WORD {
			for _, w := range words {
				if token.Fold(t.Value) == token.Fold(w) {
					return ast.RawExpr{Tokens: p.span(start, p.pos)}, nil
				}
			}
		}

		switch t.Type {
		case token.LPAREN, token.LBRACKET:
			depth++
		case token.RPAREN, token.RBRACKET:
			depth--
		}

		p.advance()
	}
}
