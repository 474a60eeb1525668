package ir

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stepkit/expresso/express/ast"
)

func leaf(name string) *ast.SupertypeExpr {
	return &ast.SupertypeExpr{Leaf: name}
}

func sortedBundles(bundles [][]string) [][]string {
	out := append([][]string(nil), bundles...)
	sort.Slice(out, func(i, j int) bool {
		return joinBundle(out[i]) < joinBundle(out[j])
	})

	return out
}

func joinBundle(b []string) string {
	out := ""
	for _, n := range b {
		out += n + ","
	}

	return out
}

func TestConstraintOneof(t *testing.T) {
	expr := &ast.SupertypeExpr{Oneof: []*ast.SupertypeExpr{leaf("b"), leaf("c")}}

	got := expandSupertypeExpr(expr)

	assert.Equal(t, [][]string{{"b"}, {"c"}}, sortedBundles(got))
}

func TestConstraintAnd(t *testing.T) {
	expr := &ast.SupertypeExpr{Ands: []*ast.SupertypeExpr{leaf("b"), leaf("c")}}

	got := expandSupertypeExpr(expr)

	assert.Equal(t, [][]string{{"b", "c"}}, sortedBundles(got))
}

func TestConstraintAndor(t *testing.T) {
	expr := &ast.SupertypeExpr{Andors: []*ast.SupertypeExpr{leaf("b"), leaf("c")}}

	got := expandSupertypeExpr(expr)

	assert.Equal(t, [][]string{{"b"}, {"b", "c"}, {"c"}}, sortedBundles(got))
}

func TestConstraintNestedOneofOfAnd(t *testing.T) {
	// ONEOF(AND(b, c), d): either (b and c together) or d alone.
	expr := &ast.SupertypeExpr{Oneof: []*ast.SupertypeExpr{
		{Ands: []*ast.SupertypeExpr{leaf("b"), leaf("c")}},
		leaf("d"),
	}}

	got := expandSupertypeExpr(expr)

	assert.Equal(t, [][]string{{"b", "c"}, {"d"}}, sortedBundles(got))
}
