package parser

import (
	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/express/token"
	"github.com/stepkit/expresso/internal/diag"
)

func (p *parser) parseEntity() (*ast.Entity, error) {
	start := p.pos2diag()

	p.advance() // ENTITY

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	e := &ast.Entity{Name: name, Pos: start}

	if p.isWord("ABSTRACT") {
		p.advance()
		e.Abstract = true

		if p.isWord("SUPERTYPE") {
			p.advance()

			if p.isWord("OF") {
				p.advance()

				expr, err := p.parseSupertypeParen()
				if err != nil {
					return nil, err
				}

				e.Supertype = expr
			}
		}
	} else if p.isWord("SUPERTYPE") {
		p.advance()

		if p.isWord("OF") {
			p.advance()

			expr, err := p.parseSupertypeParen()
			if err != nil {
				return nil, err
			}

			e.Supertype = expr
		}
	}

	if p.isWord("SUBTYPE") {
		p.advance()

		if _, err := p.expectWord("OF"); err != nil {
			return nil, err
		}

		names, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}

		e.SubtypeOf = names
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	for !p.isAnyWord("DERIVE", "INVERSE", "UNIQUE", "WHERE", "END_ENTITY") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil,
				"unterminated ENTITY %s: missing END_ENTITY", name)
		}

		attrs, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}

		e.Attributes = append(e.Attributes, attrs...)
	}

	if p.isWord("DERIVE") {
		derived, err := p.parseDeriveClause()
		if err != nil {
			return nil, err
		}

		e.Derived = derived
	}

	if p.isWord("INVERSE") {
		inv, err := p.parseInverseClause()
		if err != nil {
			return nil, err
		}

		e.Inverse = inv
	}

	if p.isWord("UNIQUE") {
		uc, err := p.parseUniqueClause()
		if err != nil {
			return nil, err
		}

		e.Unique = uc
	}

	if p.isWord("WHERE") {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}

		e.Where = where
	}

	if _, err := p.expectWord("END_ENTITY"); err != nil {
		return nil, err
	}

	return e, p.skipSemicolon()
}

// parseSupertypeParen parses the parenthesized supertype_expr following
// SUPERTYPE OF.
func (p *parser) parseSupertypeParen() (*ast.SupertypeExpr, error) {
	if _, err := p.expectType(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	expr, err := p.parseSupertypeExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectType(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	return expr, nil
}

// parseSupertypeExpr = supertype_factor { ANDOR supertype_factor }
func (p *parser) parseSupertypeExpr() (*ast.SupertypeExpr, error) {
	first, err := p.parseSupertypeFactor()
	if err != nil {
		return nil, err
	}

	items := []*ast.SupertypeExpr{first}

	for p.isWord("ANDOR") {
		p.advance()

		next, err := p.parseSupertypeFactor()
		if err != nil {
			return nil, err
		}

		items = append(items, next)
	}

	if len(items) == 1 {
		return items[0], nil
	}

	return &ast.SupertypeExpr{Andors: items}, nil
}

// parseSupertypeFactor = supertype_term { AND supertype_term }
func (p *parser) parseSupertypeFactor() (*ast.SupertypeExpr, error) {
	first, err := p.parseSupertypeTerm()
	if err != nil {
		return nil, err
	}

	items := []*ast.SupertypeExpr{first}

	for p.isWord("AND") {
		p.advance()

		next, err := p.parseSupertypeTerm()
		if err != nil {
			return nil, err
		}

		items = append(items, next)
	}

	if len(items) == 1 {
		return items[0], nil
	}

	return &ast.SupertypeExpr{Ands: items}, nil
}

// parseSupertypeTerm = entity_ref | one_of | '(' supertype_expr ')'
func (p *parser) parseSupertypeTerm() (*ast.SupertypeExpr, error) {
	switch {
	case p.isWord("ONEOF"):
		p.advance()

		if _, err := p.expectType(token.LPAREN, "'('"); err != nil {
			return nil, err
		}

		var items []*ast.SupertypeExpr

		for {
			item, err := p.parseSupertypeExpr()
			if err != nil {
				return nil, err
			}

			items = append(items, item)

			if p.cur().Type == token.COMMA {
				p.advance()
				continue
			}

			break
		}

		if _, err := p.expectType(token.RPAREN, "')'"); err != nil {
			return nil, err
		}

		return &ast.SupertypeExpr{Oneof: items}, nil

	case p.cur().Type == token.LPAREN:
		p.advance()

		expr, err := p.parseSupertypeExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectType(token.RPAREN, "')'"); err != nil {
			return nil, err
		}

		return expr, nil

	default:
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		return &ast.SupertypeExpr{Leaf: name}, nil
	}
}

// parseAttribute parses one explicit_attr: name { ',' name } ':' [OPTIONAL] type ';'.
// A comma-joined name list sharing one type declaration expands into one
// Attribute node per name, all sharing Type and Optional.
func (p *parser) parseAttribute() ([]*ast.Attribute, error) {
	pos := p.pos2diag()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	names := []string{name}

	for p.cur().Type == token.COMMA {
		p.advance()

		n, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		names = append(names, n)
	}

	if _, err := p.expectType(token.COLON, "':'"); err != nil {
		return nil, err
	}

	optional := false
	if p.isWord("OPTIONAL") {
		p.advance()

		optional = true
	}

	typ, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}

	if err := p.skipSemicolon(); err != nil {
		return nil, err
	}

	out := make([]*ast.Attribute, 0, len(names))
	for _, n := range names {
		out = append(out, &ast.Attribute{Name: n, Pos: pos, Type: typ, Optional: optional})
	}

	return out, nil
}

func (p *parser) parseDeriveClause() ([]*ast.DerivedAttribute, error) {
	p.advance() // DERIVE

	var out []*ast.DerivedAttribute

	for !p.isAnyWord("INVERSE", "UNIQUE", "WHERE", "END_ENTITY") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil, "unterminated DERIVE clause")
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

		if _, err := p.expectType(token.ASSIGN, "':='"); err != nil {
			return nil, err
		}

		expr, err := p.captureExpr(token.SEMICOLON)
		if err != nil {
			return nil, err
		}

		if err := p.skipSemicolon(); err != nil {
			return nil, err
		}

		out = append(out, &ast.DerivedAttribute{Name: name, Pos: pos, Type: typ, Expr: expr})
	}

	return out, nil
}

func (p *parser) parseInverseClause() ([]*ast.InverseAttribute, error) {
	p.advance() // INVERSE

	var out []*ast.InverseAttribute

	for !p.isAnyWord("UNIQUE", "WHERE", "END_ENTITY") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil, "unterminated INVERSE clause")
		}

		pos := p.pos2diag()

		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectType(token.COLON, "':'"); err != nil {
			return nil, err
		}

		inv := &ast.InverseAttribute{Name: name, Pos: pos}

		switch {
		case p.isWord("SET"):
			p.advance()

			if p.cur().Type == token.LBRACKET {
				b1, b2, err := p.parseBoundSpec()
				if err != nil {
					return nil, err
				}

				inv.Bound1, inv.Bound2 = b1, b2
			}

			if _, err := p.expectWord("OF"); err != nil {
				return nil, err
			}
		case p.isWord("BAG"):
			p.advance()

			inv.Bag = true

			if p.cur().Type == token.LBRACKET {
				b1, b2, err := p.parseBoundSpec()
				if err != nil {
					return nil, err
				}

				inv.Bound1, inv.Bound2 = b1, b2
			}

			if _, err := p.expectWord("OF"); err != nil {
				return nil, err
			}
		}

		entityName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		inv.ForEntity = entityName

		if _, err := p.expectWord("FOR"); err != nil {
			return nil, err
		}

		forAttr, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		inv.ForAttr = forAttr

		if err := p.skipSemicolon(); err != nil {
			return nil, err
		}

		out = append(out, inv)
	}

	return out, nil
}

func (p *parser) parseUniqueClause() ([]ast.UniqueClause, error) {
	p.advance() // UNIQUE

	var out []ast.UniqueClause

	for !p.isAnyWord("WHERE", "END_ENTITY") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil, "unterminated UNIQUE clause")
		}

		label := ""
		if p.peekIsColon() {
			label = p.advance().Value
			p.advance() // ':'
		}

		var attrs []string

		for {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}

			// A qualified path (e.g. "partner.name") folds to dotted text;
			// the resolver only needs the leading attribute name to check
			// uniqueness membership, so remaining segments are captured
			// verbatim.
			for p.cur().Type == token.DOT {
				p.advance()

				seg, err := p.expectIdent()
				if err != nil {
					return nil, err
				}

				name += "." + seg
			}

			attrs = append(attrs, name)

			if p.cur().Type == token.COMMA {
				p.advance()
				continue
			}

			break
		}

		if err := p.skipSemicolon(); err != nil {
			return nil, err
		}

		out = append(out, ast.UniqueClause{Label: label, Attrs: attrs})
	}

	return out, nil
}
