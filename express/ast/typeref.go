package ast

// TypeRef is an unresolved reference to a type, as written in source.
// Exactly one of the concrete kinds below is populated; Kind says which.
type TypeRef struct {
	Kind TypeRefKind

	// Simple
	Simple SimpleKind

	// Named: a reference to a TYPE or ENTITY declared elsewhere,
	// resolved against a Namespace during legalization.
	Named string

	// Aggregate (Set/Bag/List/Array)
	Elem     *TypeRef
	Bound1   *int64
	Bound2   *int64 // nil means unbounded (?)
	Unique   bool   // SET/BAG have implicit uniqueness; LIST UNIQUE is explicit

	// Enumeration
	EnumValues []string

	// Select
	SelectOf []string // unresolved member type names
}

// TypeRefKind discriminates the TypeRef union.
type TypeRefKind int

const (
	KindSimple TypeRefKind = iota
	KindNamed
	KindSet
	KindBag
	KindList
	KindArray
	KindEnumeration
	KindSelect
)

// SimpleKind enumerates the EXPRESS built-in simple data types.
type SimpleKind int

const (
	SimpleInteger SimpleKind = iota
	SimpleReal
	SimpleNumber
	SimpleString
	SimpleBoolean
	SimpleLogical
	SimpleBinary
)

func (k SimpleKind) String() string {
	switch k {
	case SimpleInteger:
		return "INTEGER"
	case SimpleReal:
		return "REAL"
	case SimpleNumber:
		return "NUMBER"
	case SimpleString:
		return "STRING"
	case SimpleBoolean:
		return "BOOLEAN"
	case SimpleLogical:
		return "LOGICAL"
	case SimpleBinary:
		return "BINARY"
	default:
		return "UNKNOWN"
	}
}
