// Package ast defines the syntax tree produced by the Part 21 exchange
// file parser: the ISO-10303-21 HEADER/DATA/ANCHOR/REFERENCE/SIGNATURE
// structure, entity instance records, and typed parameter values.
package ast

import "fmt"

// Pos is a source location, independent of the token package so ast
// stays a leaf dependency.
type Pos struct {
	Line   int
	Column int
	Offset int
}

// NameKind discriminates the four reference forms a Name may take.
type NameKind int

const (
	KindEntity NameKind = iota
	KindValue
	KindConstantEntity
	KindConstantValue
)

// Name is a reference appearing inside a parameter position: #N, @N,
// #CONST_NAME, or @CONST_NAME.
type Name struct {
	Kind  NameKind
	ID    uint64 // populated for KindEntity / KindValue
	Const string // populated for KindConstantEntity / KindConstantValue
}

func (n Name) String() string {
	switch n.Kind {
	case KindEntity:
		return fmt.Sprintf("#%d", n.ID)
	case KindValue:
		return fmt.Sprintf("@%d", n.ID)
	case KindConstantEntity:
		return "#" + n.Const
	case KindConstantValue:
		return "@" + n.Const
	default:
		return "<invalid-name>"
	}
}

// ParamKind discriminates the Parameter union.
type ParamKind int

const (
	ParamInteger ParamKind = iota
	ParamReal
	ParamString
	ParamEnumeration
	ParamRef
	ParamTyped
	ParamList
	ParamOmitted     // '$'
	ParamNotProvided // '*', redeclared-attribute re-derivation marker
)

// Parameter is one actual parameter value inside a Record's parameter
// list. Exactly one field is meaningful, selected by Kind.
type Parameter struct {
	Kind    ParamKind
	Integer int64
	Real    float64
	Str     string
	Enum    string
	Ref     Name
	Typed   *TypedParameter
	List    []Parameter
	Pos     Pos
}

// TypedParameter is a keyword-tagged parameter value, used for
// SELECT-typed attribute values and defined-type wrapped values:
// KEYWORD(value).
type TypedParameter struct {
	Keyword string
	Param   Parameter
}

// Record is one `KEYWORD(params...)` production, either a full entity
// instance (top level of a simple instance) or one member of a complex
// instance's subtype record list.
type Record struct {
	Keyword string
	Params  []Parameter
	Pos     Pos
}

// EntityInstance is one `#id = ...;` DATA section statement. Records
// has length 1 for a simple instance and length >1 for a complex
// instance (`#id = (REC1(...) REC2(...) ...);`).
type EntityInstance struct {
	ID      uint64
	Records []Record
	Pos     Pos
}

// IsComplex reports whether this instance combines more than one
// subtype record.
func (e *EntityInstance) IsComplex() bool {
	return len(e.Records) > 1
}

// Header is the mandatory HEADER section: FILE_DESCRIPTION, FILE_NAME
// and FILE_SCHEMA are kept as generic Records rather than individually
// validated structs, since their parameter shapes vary across writers.
type Header struct {
	Description Record
	Name        Record
	Schema      Record
}

// DataSection is one `DATA ... ENDSEC;` block. Multiple DATA sections
// are legal in a single exchange file.
type DataSection struct {
	Instances []*EntityInstance
}

// ExchangeFile is the full result of parsing one Part 21 exchange file.
// Anchor, Reference and Signature are optional sections; Signature's
// payload is kept as raw, unparsed text (base64 decoding is out of
// scope).
type ExchangeFile struct {
	Header    Header
	Data      []DataSection
	Anchor    []Record
	Reference []Record
	Signature string
	HasAnchor bool
	HasRef    bool
	HasSig    bool
}
