package ir

import (
	"github.com/stepkit/expresso/express/ast"
	"github.com/stepkit/expresso/internal/diag"
)

// Legalize resolves every TypeRef in tree against a freshly built
// Namespace, materializes each entity's inheritance graph in both
// directions, and expands SUPERTYPE OF constraints. It returns the
// first diagnostic encountered; legalization does not attempt partial
// recovery.
func Legalize(tree *ast.SyntaxTree) (*Program, error) {
	ns, err := BuildNamespace(tree)
	if err != nil {
		return nil, err
	}

	prog := &Program{Namespace: ns, Constraints: make(map[string]*Constraints)}

	for _, sc := range tree.Schemas {
		legalSchema := &Schema{Name: sc.Name}

		for _, td := range sc.Types {
			lt, err := legalizeTypeDecl(ns, sc.Name, td)
			if err != nil {
				return nil, err
			}

			legalSchema.Types = append(legalSchema.Types, lt)
		}

		for _, e := range sc.Entities {
			le, err := legalizeEntity(ns, sc.Name, e)
			if err != nil {
				return nil, err
			}

			legalSchema.Entities = append(legalSchema.Entities, le)
		}

		legalSchema.Functions = sc.Functions
		legalSchema.Procedures = sc.Procedures
		legalSchema.Rules = sc.Rules

		prog.Schemas = append(prog.Schemas, legalSchema)
	}

	if err := materializeInheritance(prog); err != nil {
		return nil, err
	}

	for _, sc := range prog.Schemas {
		for _, e := range sc.Entities {
			if e.SupertypeConstraint == nil {
				continue
			}

			c, err := NewConstraints(ns, sc.Name, e)
			if err != nil {
				return nil, err
			}

			prog.Constraints[e.Path.String()] = c
		}
	}

	return prog, nil
}

func legalizeTypeRef(ns *Namespace, schema string, tr ast.TypeRef) (TypeRef, error) {
	out := TypeRef{Kind: tr.Kind, Simple: tr.Simple, Bound1: tr.Bound1, Bound2: tr.Bound2, Unique: tr.Unique, EnumValues: tr.EnumValues}

	switch tr.Kind {
	case ast.KindNamed:
		path, err := ns.Resolve(schema, tr.Named)
		if err != nil {
			return TypeRef{}, err
		}

		out.Ref = path
	case ast.KindSet, ast.KindBag, ast.KindList, ast.KindArray:
		elem, err := legalizeTypeRef(ns, schema, *tr.Elem)
		if err != nil {
			return TypeRef{}, err
		}

		out.Elem = &elem
	case ast.KindSelect:
		for _, name := range tr.SelectOf {
			path, err := ns.Resolve(schema, name)
			if err != nil {
				return TypeRef{}, err
			}

			out.SelectOf = append(out.SelectOf, path)
		}
	}

	return out, nil
}

func legalizeTypeDecl(ns *Namespace, schema string, td *ast.TypeDecl) (*TypeDecl, error) {
	underlying, err := legalizeTypeRef(ns, schema, td.Underlying)
	if err != nil {
		return nil, err
	}

	path, err := ns.Resolve(schema, td.Name)
	if err != nil {
		return nil, err
	}

	return &TypeDecl{Path: path, Underlying: underlying, Where: td.Where}, nil
}

func legalizeEntity(ns *Namespace, schema string, e *ast.Entity) (*Entity, error) {
	path, err := ns.Resolve(schema, e.Name)
	if err != nil {
		return nil, err
	}

	le := &Entity{
		Path:                path,
		Abstract:            e.Abstract,
		Unique:              e.Unique,
		Where:               e.Where,
		SupertypeConstraint: e.Supertype,
	}

	for _, name := range e.SubtypeOf {
		sp, err := ns.Resolve(schema, name)
		if err != nil {
			return nil, err
		}

		le.SubtypeOf = append(le.SubtypeOf, sp)
	}

	for _, a := range e.Attributes {
		tr, err := legalizeTypeRef(ns, schema, a.Type)
		if err != nil {
			return nil, err
		}

		le.Attributes = append(le.Attributes, Attribute{Name: a.Name, Type: tr, Optional: a.Optional})
	}

	for _, d := range e.Derived {
		tr, err := legalizeTypeRef(ns, schema, d.Type)
		if err != nil {
			return nil, err
		}

		le.Derived = append(le.Derived, DerivedAttribute{Name: d.Name, Type: tr, Expr: d.Expr})
	}

	for _, inv := range e.Inverse {
		forPath, err := ns.Resolve(schema, inv.ForEntity)
		if err != nil {
			return nil, err
		}

		le.Inverse = append(le.Inverse, InverseAttribute{
			Name: inv.Name, ForEntity: forPath, ForAttr: inv.ForAttr,
			Bag: inv.Bag, Bound1: inv.Bound1, Bound2: inv.Bound2,
		})
	}

	return le, nil
}

// materializeInheritance computes, for every entity, the transitive
// supertype closure and the immediate-subtype back-edges, detecting
// cycles along the way.
func materializeInheritance(prog *Program) error {
	all := make(map[string]*Entity)

	for _, sc := range prog.Schemas {
		for _, e := range sc.Entities {
			all[e.Path.String()] = e
		}
	}

	for _, e := range all {
		for _, sp := range e.SubtypeOf {
			if parent, ok := all[sp.String()]; ok {
				parent.Subtypes = append(parent.Subtypes, e.Path)
			}
		}
	}

	for _, e := range all {
		visited := map[string]bool{}

		closure, err := supertypeClosure(all, e, visited)
		if err != nil {
			return err
		}

		e.Supertypes = closure
	}

	return nil
}

func supertypeClosure(all map[string]*Entity, e *Entity, visiting map[string]bool) ([]Path, error) {
	key := e.Path.String()
	if visiting[key] {
		return nil, diag.New(diag.KindCyclicInheritance, diag.Position{}, nil,
			"cyclic SUBTYPE OF inheritance involving %s", e.Path)
	}

	visiting[key] = true
	defer delete(visiting, key)

	seen := map[string]bool{}

	var out []Path

	for _, sp := range e.SubtypeOf {
		if !seen[sp.String()] {
			seen[sp.String()] = true

			out = append(out, sp)
		}

		parent, ok := all[sp.String()]
		if !ok {
			continue
		}

		ancestors, err := supertypeClosure(all, parent, visiting)
		if err != nil {
			return nil, err
		}

		for _, a := range ancestors {
			if !seen[a.String()] {
				seen[a.String()] = true

				out = append(out, a)
			}
		}
	}

	return out, nil
}
