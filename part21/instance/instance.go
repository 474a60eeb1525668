// Package instance builds and queries the instance table backing a
// parsed Part 21 exchange file: the id -> EntityInstance mapping that
// resolvers consult on demand. References are never eagerly followed;
// building the table only indexes what the parser already produced.
package instance

import (
	"strings"

	"github.com/stepkit/expresso/internal/diag"
	"github.com/stepkit/expresso/part21/ast"
)

// Table indexes every EntityInstance in an ExchangeFile by id and by
// keyword, and resolves Name references against that index on demand.
type Table struct {
	byID      map[uint64]*ast.EntityInstance
	byKeyword map[string][]*ast.EntityInstance
	consts    map[string]ast.Parameter
}

// Build indexes every DATA section instance in ef. It returns a
// diagnostic the first time two instances declare the same id.
func Build(ef *ast.ExchangeFile) (*Table, error) {
	t := &Table{
		byID:      make(map[uint64]*ast.EntityInstance),
		byKeyword: make(map[string][]*ast.EntityInstance),
	}

	for _, ds := range ef.Data {
		for _, inst := range ds.Instances {
			if _, dup := t.byID[inst.ID]; dup {
				return nil, diag.New(diag.KindDuplicateDecl,
					diag.Position{Line: inst.Pos.Line, Column: inst.Pos.Column, Offset: inst.Pos.Offset}, nil,
					"instance #%d is already declared", inst.ID)
			}

			t.byID[inst.ID] = inst

			for _, rec := range inst.Records {
				key := strings.ToUpper(rec.Keyword)
				t.byKeyword[key] = append(t.byKeyword[key], inst)
			}
		}
	}

	return t, nil
}

// WithConstants returns a copy of t that resolves ConstantEntity /
// ConstantValue names against consts instead of always reporting them
// missing.
func (t *Table) WithConstants(consts map[string]ast.Parameter) *Table {
	cp := *t
	cp.consts = consts

	return &cp
}

// Get returns the instance declared as #id, if any.
func (t *Table) Get(id uint64) (*ast.EntityInstance, bool) {
	inst, ok := t.byID[id]
	return inst, ok
}

// Len reports how many distinct instances the table holds.
func (t *Table) Len() int {
	return len(t.byID)
}

// ByKeyword returns every instance that declares a record under the
// given entity type keyword (case-insensitive), including complex
// instances where the keyword names one of several combined records.
func (t *Table) ByKeyword(keyword string) []*ast.EntityInstance {
	return t.byKeyword[strings.ToUpper(keyword)]
}

// Resolve dereferences a Name. Entity and Value names are looked up in
// the instance table; ConstantEntity and ConstantValue names are
// looked up in the caller-supplied constant table installed via
// WithConstants (schema CONSTANT declarations are never evaluated, so
// an empty table is the default). A missing reference is reported as
// *diag.Error with KindMissingReference, never a panic or nil result.
func (t *Table) Resolve(n ast.Name) (*ast.EntityInstance, ast.Parameter, error) {
	switch n.Kind {
	case ast.KindEntity, ast.KindValue:
		inst, ok := t.byID[n.ID]
		if !ok {
			return nil, ast.Parameter{}, diag.New(diag.KindMissingReference, diag.Position{}, nil,
				"no instance declared for %s", n)
		}

		return inst, ast.Parameter{}, nil

	case ast.KindConstantEntity, ast.KindConstantValue:
		if t.consts == nil {
			return nil, ast.Parameter{}, diag.New(diag.KindMissingReference, diag.Position{}, nil,
				"no constant table installed to resolve %s", n)
		}

		v, ok := t.consts[n.Const]
		if !ok {
			return nil, ast.Parameter{}, diag.New(diag.KindMissingReference, diag.Position{}, nil,
				"constant %s is not declared in the supplied constant table", n)
		}

		return nil, v, nil

	default:
		return nil, ast.Parameter{}, diag.New(diag.KindMissingReference, diag.Position{}, nil, "invalid name %s", n)
	}
}
