package ir

import "github.com/stepkit/expresso/express/ast"

// TypeRef is a legalized type reference: KindNamed carries a resolved
// Path instead of a bare name, and KindSelect's members are resolved
// Paths too. Every other field mirrors express/ast.TypeRef.
type TypeRef struct {
	Kind   ast.TypeRefKind
	Simple ast.SimpleKind
	Ref    Path

	Elem   *TypeRef
	Bound1 *int64
	Bound2 *int64
	Unique bool

	EnumValues []string
	SelectOf   []Path
}

// Attribute is a legalized explicit attribute. Supertype attributes
// are never copied down into subtype Entity values: lookups that need
// the full attribute set walk Supertypes and merge at read time, per
// the non-hoisting contract.
type Attribute struct {
	Name     string
	Type     TypeRef
	Optional bool
}

// DerivedAttribute is a legalized DERIVE entry; Expr is carried
// unevaluated.
type DerivedAttribute struct {
	Name string
	Type TypeRef
	Expr ast.RawExpr
}

// InverseAttribute is a legalized INVERSE entry, with ForEntity
// resolved to a Path.
type InverseAttribute struct {
	Name      string
	ForEntity Path
	ForAttr   string
	Bag       bool
	Bound1    *int64
	Bound2    *int64
}

// Entity is the legalized form of an express/ast.Entity: TypeRefs and
// supertype/subtype names are resolved to Paths, and the inheritance
// graph is materialized in both directions (SubtypeOf from the
// SUBTYPE OF clause; Subtypes populated by a second namespace pass
// over every other entity's SubtypeOf list).
type Entity struct {
	Path     Path
	Abstract bool

	SubtypeOf  []Path // immediate supertypes
	Supertypes []Path // full transitive ancestor closure, unordered
	Subtypes   []Path // immediate children

	Attributes []Attribute
	Derived    []DerivedAttribute
	Inverse    []InverseAttribute
	Unique     []ast.UniqueClause
	Where      []ast.NamedExpr

	// SupertypeConstraint is the raw SUPERTYPE OF(...) boolean
	// expression with leaf names left as unqualified entity names
	// (resolved within the owning schema by the Constraints analyzer).
	SupertypeConstraint *ast.SupertypeExpr
}

// TypeDecl is the legalized form of an express/ast.TypeDecl.
type TypeDecl struct {
	Path       Path
	Underlying TypeRef
	Where      []ast.NamedExpr
}

// Schema is the legalized form of one express/ast.Schema. Entities and
// Types are held in source declaration order, mirroring
// express/ast.Schema's own slices: a downstream code generator
// iterating schema -> entities -> attributes must see the same order
// the EXPRESS text declared them in, not map iteration order.
type Schema struct {
	Name     string
	Entities []*Entity
	Types    []*TypeDecl

	// Functions, Procedures and Rules are carried unevaluated: bodies
	// are raw token spans, per the rule/function evaluation Non-goal.
	Functions  []*ast.FunctionDecl
	Procedures []*ast.ProcedureDecl
	Rules      []*ast.RuleDecl
}

// Entity looks up a legalized entity by its unqualified name within
// this schema, for callers that only have a name, not a Path.
func (s *Schema) Entity(name string) (*Entity, bool) {
	for _, e := range s.Entities {
		if e.Path.Name() == name {
			return e, true
		}
	}

	return nil, false
}

// Type looks up a legalized type declaration by its unqualified name
// within this schema.
func (s *Schema) Type(name string) (*TypeDecl, bool) {
	for _, t := range s.Types {
		if t.Path.Name() == name {
			return t, true
		}
	}

	return nil, false
}

// Program is the full legalized result of compiling a SyntaxTree: the
// Namespace used to resolve it, one Schema per SCHEMA declaration, and
// the Constraints bundle set for every entity that declares
// SUPERTYPE OF.
type Program struct {
	Namespace   *Namespace
	Schemas     []*Schema
	Constraints map[string]*Constraints // keyed by Path.String() of the entity
}
