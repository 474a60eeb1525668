package ir

import (
	"sort"

	"github.com/stepkit/expresso/express/ast"
)

// Constraints is the expansion of one entity's SUPERTYPE OF boolean
// expression into its instantiable subtype bundles: each entry of
// Bundles is one set of subtype entities that a complex instance may
// combine simultaneously to satisfy the constraint.
//
// Expansion rules, applied to the ONEOF / AND / ANDOR tree:
//   - a bare entity name contributes the singleton bundle {name}.
//   - ONEOF(e1, e2, ...) contributes the union of each ei's bundles:
//     exactly one branch applies, never more than one at a time.
//   - AND(e1, e2, ...) contributes the cartesian combination of every
//     ei's bundles: all branches apply together, merged into one bundle.
//   - ANDOR(e1, e2, ...) contributes each ei's bundles individually
//     plus every combination of them: any non-empty subset may apply.
type Constraints struct {
	Entity  Path
	Bundles [][]Path
}

// NewConstraints expands e's SupertypeConstraint within schema. e must
// have SupertypeConstraint set; callers only invoke this for entities
// that declare SUPERTYPE OF.
func NewConstraints(ns *Namespace, schema string, e *Entity) (*Constraints, error) {
	leafBundles := expandSupertypeExpr(e.SupertypeConstraint)

	resolved := make([][]Path, 0, len(leafBundles))

	for _, bundle := range leafBundles {
		paths := make([]Path, 0, len(bundle))

		for _, name := range bundle {
			p, err := ns.Resolve(schema, name)
			if err != nil {
				return nil, err
			}

			paths = append(paths, p)
		}

		resolved = append(resolved, paths)
	}

	return &Constraints{Entity: e.Path, Bundles: resolved}, nil
}

// expandSupertypeExpr expands a SupertypeExpr into alternative leaf-name
// bundles, each bundle being the set of entity names that instantiate
// together under that alternative.
func expandSupertypeExpr(e *ast.SupertypeExpr) [][]string {
	switch {
	case e == nil:
		return nil
	case e.Leaf != "":
		return [][]string{{e.Leaf}}
	case e.Oneof != nil:
		var out [][]string
		for _, sub := range e.Oneof {
			out = append(out, expandSupertypeExpr(sub)...)
		}

		return dedupBundles(out)
	case e.Ands != nil:
		acc := expandSupertypeExpr(e.Ands[0])
		for _, sub := range e.Ands[1:] {
			acc = combineAnd(acc, expandSupertypeExpr(sub))
		}

		return dedupBundles(acc)
	case e.Andors != nil:
		acc := expandSupertypeExpr(e.Andors[0])
		for _, sub := range e.Andors[1:] {
			acc = combineAndor(acc, expandSupertypeExpr(sub))
		}

		return dedupBundles(acc)
	default:
		return nil
	}
}

// combineAnd cartesian-combines every bundle of a with every bundle of
// b, merging each pair into one deduplicated, sorted bundle.
func combineAnd(a, b [][]string) [][]string {
	out := make([][]string, 0, len(a)*len(b))

	for _, ab := range a {
		for _, bb := range b {
			out = append(out, mergeBundle(ab, bb))
		}
	}

	return out
}

// combineAndor unions a's bundles, b's bundles, and their pairwise AND
// combination: ANDOR means either side may apply alone or together.
func combineAndor(a, b [][]string) [][]string {
	out := make([][]string, 0, len(a)+len(b)+len(a)*len(b))

	out = append(out, a...)
	out = append(out, b...)
	out = append(out, combineAnd(a, b)...)

	return out
}

func mergeBundle(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))

	for _, n := range a {
		if !seen[n] {
			seen[n] = true

			out = append(out, n)
		}
	}

	for _, n := range b {
		if !seen[n] {
			seen[n] = true

			out = append(out, n)
		}
	}

	sort.Strings(out)

	return out
}

func dedupBundles(bundles [][]string) [][]string {
	sorted := make([][]string, len(bundles))
	for i, b := range bundles {
		cp := append([]string(nil), b...)
		sort.Strings(cp)
		sorted[i] = cp
	}

	seen := make(map[string]bool, len(sorted))

	out := make([][]string, 0, len(sorted))

	for _, b := range sorted {
		key := ""
		for _, n := range b {
			key += n + "\x00"
		}

		if !seen[key] {
			seen[key] = true

			out = append(out, b)
		}
	}

	return out
}
