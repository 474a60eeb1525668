// Package ast defines the syntax tree produced by the EXPRESS parser.
// Nodes here are pre-legalization: type references are unresolved names,
// and rule/function/where bodies are captured as raw token spans rather
// than evaluated, per the syntactic-capture-only contract.
package ast

import (
	"github.com/stepkit/expresso/express/token"
	"github.com/stepkit/expresso/internal/diag"
)

// Pos is the source location a node begins at, kept for diagnostics.
// It is the same type as diag.Position, which the parser records.
type Pos = diag.Position

func fromToken(t token.Token) Pos {
	return Pos{Line: t.Position.Line, Column: t.Position.Column, Offset: t.Position.Offset}
}

// SyntaxTree is the root node produced by parsing one EXPRESS source file.
// A single file may declare more than one SCHEMA.
type SyntaxTree struct {
	Schemas []*Schema
}

// Schema is one SCHEMA ... END_SCHEMA; declaration.
type Schema struct {
	Name       string
	Pos        Pos
	Types      []*TypeDecl
	Entities   []*Entity
	Functions  []*FunctionDecl
	Procedures []*ProcedureDecl
	Rules      []*RuleDecl
}

// TypeDecl is a TYPE ... END_TYPE; declaration.
type TypeDecl struct {
	Name       string
	Pos        Pos
	Underlying TypeRef
	Where      []NamedExpr
}

// Entity is an ENTITY ... END_ENTITY; declaration.
type Entity struct {
	Name        string
	Pos         Pos
	Abstract    bool
	SubtypeOf   []string       // SUBTYPE OF (...) supertype names, unresolved
	Supertype   *SupertypeExpr // SUPERTYPE OF (...) constraint expression, nil if absent
	Attributes  []*Attribute
	Derived     []*DerivedAttribute
	Inverse     []*InverseAttribute
	Unique      []UniqueClause
	Where       []NamedExpr
}

// SupertypeExpr is the boolean ONEOF/AND/ANDOR expression inside a
// SUPERTYPE OF clause. It is captured structurally (needed by the
// constraint analyzer) rather than evaluated as a general expression.
type SupertypeExpr struct {
	// Exactly one of Leaf, Oneof, Ands, Andors is populated.
	Leaf   string // a bare subtype entity name
	Oneof  []*SupertypeExpr
	Ands   []*SupertypeExpr
	Andors []*SupertypeExpr
}

// Attribute is an explicit (non-derived, non-inverse) entity attribute.
type Attribute struct {
	Name     string
	Pos      Pos
	Type     TypeRef
	Optional bool
}

// DerivedAttribute is one entry of a DERIVE clause.
type DerivedAttribute struct {
	Name string
	Pos  Pos
	Type TypeRef
	Expr RawExpr
}

// InverseAttribute is one entry of an INVERSE clause.
type InverseAttribute struct {
	Name       string
	Pos        Pos
	ForEntity  string // the entity type of the inverse partner
	ForAttr    string // the partner's attribute name this inverts
	Bag        bool   // true for BAG, false for SET
	Bound1     *int64
	Bound2     *int64 // nil means unbounded (?)
}

// UniqueClause is one UNIQUE rule label plus its attribute path list.
type UniqueClause struct {
	Label string
	Attrs []string
}

// NamedExpr is a (possibly unnamed) WHERE rule: a label and its raw
// boolean expression, captured but never evaluated.
type NamedExpr struct {
	Label string
	Expr  RawExpr
}

// RawExpr is an EXPRESS expression captured as its original token span.
// The Non-goal on rule/function evaluation means this is the terminal
// representation: nothing downstream interprets it.
type RawExpr struct {
	Tokens []token.Token
}

func (r RawExpr) String() string {
	var out string
	for i, t := range r.Tokens {
		if i > 0 {
			out += " "
		}
		out += t.Value
	}
	return out
}

// FunctionDecl captures a FUNCTION declaration's signature and body as
// raw token spans; bodies are never executed.
type FunctionDecl struct {
	Name    string
	Pos     Pos
	Params  []*Attribute
	Returns TypeRef
	Body    RawExpr
}

// ProcedureDecl captures a PROCEDURE declaration the same way.
type ProcedureDecl struct {
	Name   string
	Pos    Pos
	Params []*Attribute
	Body   RawExpr
}

// RuleDecl captures a schema-level RULE declaration.
type RuleDecl struct {
	Name    string
	Pos     Pos
	Applies []string // entity names in the RULE ... FOR (...) clause
	Where   []NamedExpr
	Body    RawExpr
}
