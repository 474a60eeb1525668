package ir

import (
	"fmt"

	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/internal/diag"
)

// decl is the declaration payload stored for one Namespace entry: one
// of *ast.Entity, *ast.TypeDecl, *ast.FunctionDecl, *ast.ProcedureDecl,
// or *ast.RuleDecl.
type decl struct {
	path Path
	node any
}

// Namespace is the scoped declaration index built from a SyntaxTree:
// every ENTITY, TYPE, FUNCTION, PROCEDURE and RULE name declared in a
// SCHEMA maps to exactly one Path under that schema (the schema itself
// gets no Path entry). EXPRESS requires declared names to be unique within
// a schema across all of these categories, so each schema is a single
// flat namespace; cross-schema (REFERENCE FROM) resolution is out of
// scope (the USE/REFERENCE clauses are captured but not resolved).
type Namespace struct {
	bySchema map[string]map[string]decl
	byPath   map[string]decl
}

// BuildNamespace walks tree and indexes every declaration, returning a
// *diag.Error the first time two declarations in the same schema
// collide on name.
func BuildNamespace(tree *ast.SyntaxTree) (*Namespace, error) {
	ns := &Namespace{
		bySchema: make(map[string]map[string]decl),
		byPath:   make(map[string]decl),
	}

	for _, sc := range tree.Schemas {
		names, ok := ns.bySchema[sc.Name]
		if !ok {
			names = make(map[string]decl)
			ns.bySchema[sc.Name] = names
		}

		schemaPath := Path{{Kind: KindSchema, Name: sc.Name}}

		add := func(kind Kind, name string, node any, pos ast.Pos) error {
			if _, dup := names[name]; dup {
				return diag.New(diag.KindDuplicateDecl,
					diag.Position{Line: pos.Line, Column: pos.Column, Offset: pos.Offset}, nil,
					"%q is already declared in schema %s", name, sc.Name)
			}

			d := decl{path: schemaPath.Append(kind, name), node: node}
			names[name] = d
			ns.byPath[d.path.String()] = d

			return nil
		}

		for _, e := range sc.Entities {
			if err := add(KindEntity, e.Name, e, e.Pos); err != nil {
				return nil, err
			}
		}

		for _, t := range sc.Types {
			if err := add(KindType, t.Name, t, t.Pos); err != nil {
				return nil, err
			}
		}

		for _, f := range sc.Functions {
			if err := add(KindFunction, f.Name, f, f.Pos); err != nil {
				return nil, err
			}
		}

		for _, pr := range sc.Procedures {
			if err := add(KindProcedure, pr.Name, pr, pr.Pos); err != nil {
				return nil, err
			}
		}

		for _, r := range sc.Rules {
			if err := add(KindRule, r.Name, r, r.Pos); err != nil {
				return nil, err
			}
		}
	}

	return ns, nil
}

// Resolve looks up an unqualified name within schema, returning its
// Path. It never matches across schemas.
func (ns *Namespace) Resolve(schema, name string) (Path, error) {
	names, ok := ns.bySchema[schema]
	if !ok {
		return nil, diag.New(diag.KindUnresolvedName, diag.Position{}, nil, "unknown schema %q", schema)
	}

	d, ok := names[name]
	if !ok {
		return nil, diag.New(diag.KindUnresolvedName, diag.Position{}, nil,
			"%q is not declared in schema %s", name, schema)
	}

	return d.path, nil
}

// Lookup returns the declaration node stored at path.
func (ns *Namespace) Lookup(path Path) (any, bool) {
	d, ok := ns.byPath[path.String()]
	if !ok {
		return nil, false
	}

	return d.node, true
}

// Entity returns the *ast.Entity declared at path, or an error if path
// doesn't name an entity.
func (ns *Namespace) Entity(path Path) (*ast.Entity, error) {
	node, ok := ns.Lookup(path)
	if !ok {
		return nil, diag.New(diag.KindUnresolvedName, diag.Position{}, nil, "no declaration at %s", path)
	}

	e, ok := node.(*ast.Entity)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, diag.Position{}, nil, "%s is not an entity", path)
	}

	return e, nil
}

// EntityInSchema resolves name within schema and returns its *ast.Entity.
func (ns *Namespace) EntityInSchema(schema, name string) (*ast.Entity, error) {
	path, err := ns.Resolve(schema, name)
	if err != nil {
		return nil, err
	}

	return ns.Entity(path)
}

func (d decl) String() string {
	return fmt.Sprintf("%s -> %T", d.path, d.node)
}
