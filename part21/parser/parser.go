// Package parser builds a part21/ast.ExchangeFile from a Part 21 token
// stream. Like express/parser, grammar rules are recursive-descent
// functions over a cursor index, but every leaf token match goes
// through a parsercombinator pc.Parser[token.Token] (see combinators.go).
package parser

import (
	"strconv"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/stepkit/expresso/internal/diag"
	"github.com/stepkit/expresso/part21/ast"
	"github.com/stepkit/expresso/part21/token"
)

type parser struct {
	toks []pc.Token[token.Token]
	pos  int
	pctx *pc.ParseContext[token.Token]
}

// Parse scans a full Part 21 token stream into an ExchangeFile.
func Parse(toks []token.Token) (*ast.ExchangeFile, error) {
	p := &parser{
		toks: toParserToken(filterTrivia(toks)),
		pctx: pc.NewParseContext[token.Token](),
	}

	return p.parseExchangeFile()
}

func filterTrivia(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))

	for _, t := range toks {
		if t.Type == token.WHITESPACE || t.Type == token.COMMENT {
			continue
		}

		out = append(out, t)
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

func (p *parser) isKeyword(kw string) bool {
	n, _, err := keyword(kw)(p.pctx, p.toks[p.pos:])

	return err == nil && n > 0
}

func (p *parser) expectKeyword(kw string) (token.Token, error) {
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

// parseExchangeFile parses: ISO-10303-21; HEADER ... ENDSEC;
// { DATA ... ENDSEC; } [ANCHOR ... ENDSEC;] [REFERENCE ... ENDSEC;]
// [SIGNATURE ... ENDSEC;] END-ISO-10303-21;
func (p *parser) parseExchangeFile() (*ast.ExchangeFile, error) {
	if _, err := p.expectKeyword("ISO-10303-21"); err != nil {
		return nil, err
	}

	if _, err := p.expectType(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	ef := &ast.ExchangeFile{}

	header, err := p.parseHeaderSection()
	if err != nil {
		return nil, err
	}

	ef.Header = *header

	for p.isKeyword("DATA") {
		data, err := p.parseDataSection()
		if err != nil {
			return nil, err
		}

		ef.Data = append(ef.Data, *data)
	}

	if p.isKeyword("ANCHOR") {
		records, err := p.parseRecordSection("ANCHOR")
		if err != nil {
			return nil, err
		}

		ef.Anchor = records
		ef.HasAnchor = true
	}

	if p.isKeyword("REFERENCE") {
		records, err := p.parseRecordSection("REFERENCE")
		if err != nil {
			return nil, err
		}

		ef.Reference = records
		ef.HasRef = true
	}

	if p.isKeyword("SIGNATURE") {
		raw, err := p.parseSignatureSection()
		if err != nil {
			return nil, err
		}

		ef.Signature = raw
		ef.HasSig = true
	}

	if _, err := p.expectKeyword("END-ISO-10303-21"); err != nil {
		return nil, err
	}

	return ef, p.expectSemi()
}

func (p *parser) expectSemi() error {
	_, err := p.expectType(token.SEMICOLON, "';'")
	return err
}

func (p *parser) parseHeaderSection() (*ast.Header, error) {
	if _, err := p.expectKeyword("HEADER"); err != nil {
		return nil, err
	}

	if err := p.expectSemi(); err != nil {
		return nil, err
	}

	h := &ast.Header{}

	desc, err := p.parseRecord()
	if err != nil {
		return nil, err
	}

	h.Description = *desc

	name, err := p.parseRecord()
	if err != nil {
		return nil, err
	}

	h.Name = *name

	schema, err := p.parseRecord()
	if err != nil {
		return nil, err
	}

	h.Schema = *schema

	if _, err := p.expectKeyword("ENDSEC"); err != nil {
		return nil, err
	}

	return h, p.expectSemi()
}

// parseRecord parses one `KEYWORD ( params ) ;` production, used for
// header fields and ANCHOR/REFERENCE entries (which aren't assigned to
// an instance id).
func (p *parser) parseRecord() (*ast.Record, error) {
	pos := p.pos2diag()

	kw, err := p.expectType(token.KEYWORD, "keyword")
	if err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	if err := p.expectSemi(); err != nil {
		return nil, err
	}

	return &ast.Record{Keyword: kw.Value, Params: params, Pos: diagToAstPos(pos)}, nil
}

func diagToAstPos(p diag.Position) ast.Pos {
	return ast.Pos{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func (p *parser) parseDataSection() (*ast.DataSection, error) {
	if _, err := p.expectKeyword("DATA"); err != nil {
		return nil, err
	}

	if err := p.expectSemi(); err != nil {
		return nil, err
	}

	ds := &ast.DataSection{}

	for !p.isKeyword("ENDSEC") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil, "unterminated DATA section")
		}

		inst, err := p.parseEntityInstance()
		if err != nil {
			return nil, err
		}

		ds.Instances = append(ds.Instances, inst)
	}

	if _, err := p.expectKeyword("ENDSEC"); err != nil {
		return nil, err
	}

	return ds, p.expectSemi()
}

// parseEntityInstance parses `#id = KEYWORD(params);` or the complex
// form `#id = (KEYWORD1(params) KEYWORD2(params) ...);`.
func (p *parser) parseEntityInstance() (*ast.EntityInstance, error) {
	pos := p.pos2diag()

	t, err := p.expectType(token.ENTITY_REF, "entity instance name")
	if err != nil {
		return nil, err
	}

	id, err := parseInstanceID(t.Value, p.pos2diag())
	if err != nil {
		return nil, err
	}

	if _, err := p.expectType(token.EQ, "'='"); err != nil {
		return nil, err
	}

	inst := &ast.EntityInstance{ID: id, Pos: diagToAstPos(pos)}

	if p.cur().Type == token.LPAREN {
		p.advance()

		for p.cur().Type != token.RPAREN {
			rec, err := p.parseSubtypeRecord()
			if err != nil {
				return nil, err
			}

			inst.Records = append(inst.Records, *rec)
		}

		p.advance() // ')'
	} else {
		rec, err := p.parseSubtypeRecord()
		if err != nil {
			return nil, err
		}

		inst.Records = append(inst.Records, *rec)
	}

	return inst, p.expectSemi()
}

func (p *parser) parseSubtypeRecord() (*ast.Record, error) {
	pos := p.pos2diag()

	kw, err := p.expectType(token.KEYWORD, "keyword")
	if err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	return &ast.Record{Keyword: kw.Value, Params: params, Pos: diagToAstPos(pos)}, nil
}

func parseInstanceID(digits string, pos diag.Position) (uint64, error) {
	id, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, diag.New(diag.KindReferenceOverflow, pos, err, "reference #%s exceeds u64 range", digits)
	}

	return id, nil
}

// parseRecordSection parses ANCHOR or REFERENCE: keyword ; { record } ENDSEC ;
func (p *parser) parseRecordSection(keyword string) ([]ast.Record, error) {
	if _, err := p.expectKeyword(keyword); err != nil {
		return nil, err
	}

	if err := p.expectSemi(); err != nil {
		return nil, err
	}

	var out []ast.Record

	for !p.isKeyword("ENDSEC") {
		if p.atEOF() {
			return nil, diag.New(diag.KindMissingSection, p.pos2diag(), nil, "unterminated %s section", keyword)
		}

		rec, err := p.parseRecord()
		if err != nil {
			return nil, err
		}

		out = append(out, *rec)
	}

	if _, err := p.expectKeyword("ENDSEC"); err != nil {
		return nil, err
	}

	return out, p.expectSemi()
}

// parseSignatureSection captures the SIGNATURE section body verbatim,
// token values joined with a single space, rather than decoding its
// base64 payload.
func (p *parser) parseSignatureSection() (string, error) {
	if _, err := p.expectKeyword("SIGNATURE"); err != nil {
		return "", err
	}

	if err := p.expectSemi(); err != nil {
		return "", err
	}

	var b strings.Builder

	for !p.isKeyword("ENDSEC") {
		if p.atEOF() {
			return "", diag.New(diag.KindMissingSection, p.pos2diag(), nil, "unterminated SIGNATURE section")
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(p.advance().Value)
	}

	p.advance() // ENDSEC

	return b.String(), p.expectSemi()
}
