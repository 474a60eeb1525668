// Package ir builds the legalized intermediate representation from an
// express/ast.SyntaxTree: a Namespace resolving every declared name to
// a Path, and a legalized Schema graph with TypeRefs resolved against
// it and entity inheritance materialized.
package ir

import "strings"

// Kind discriminates what a Path segment names.
type Kind string

const (
	KindSchema    Kind = "schema"
	KindEntity    Kind = "entity"
	KindType      Kind = "type"
	KindFunction  Kind = "function"
	KindProcedure Kind = "procedure"
	KindRule      Kind = "rule"
)

// Segment is one (kind, name) pair in a Path.
type Segment struct {
	Kind Kind
	Name string
}

// Path is an ordered sequence of Segments uniquely identifying a
// declaration, outermost (schema) first.
type Path []Segment

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = string(s.Kind) + ":" + s.Name
	}

	return strings.Join(parts, "/")
}

// Append returns a new Path with the segment (kind, name) appended; Path values are never
// mutated in place so Namespace entries can share prefixes safely.
func (p Path) Append(kind Kind, name string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = Segment{Kind: kind, Name: name}

	return out
}

// Schema returns the leading schema-name segment's Name, or "" if p is
// empty or doesn't start with a schema segment.
func (p Path) Schema() string {
	if len(p) == 0 || p[0].Kind != KindSchema {
		return ""
	}

	return p[0].Name
}

// Name returns the final segment's Name, or "" if p is empty.
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1].Name
}
