// Package diag provides the shared position and diagnostic rendering used
// by both the EXPRESS and Part 21 front ends.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Position is a location in source text, shared by both tokenizers.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind identifies the error family an Error belongs to, per spec §7.
type Kind string

const (
	KindUnexpectedChar      Kind = "UnexpectedChar"
	KindUnterminatedString  Kind = "UnterminatedString"
	KindInvalidNumber       Kind = "InvalidNumber"
	KindExpectedKeyword     Kind = "ExpectedKeyword"
	KindExpectedToken       Kind = "ExpectedToken"
	KindMalformedExpression Kind = "MalformedExpression"
	KindDuplicateDecl       Kind = "DuplicateDeclaration"
	KindUnresolvedName      Kind = "UnresolvedName"
	KindCyclicInheritance   Kind = "CyclicInheritance"
	KindDuplicateAttribute  Kind = "DuplicateAttribute"
	KindInvalidBound        Kind = "InvalidBound"
	KindMalformedConstraint Kind = "MalformedConstraint"
	KindReferenceOverflow   Kind = "ReferenceOverflow"
	KindMissingSection      Kind = "MissingSection"
	KindMalformedRecord     Kind = "MalformedRecord"
	KindMissingReference    Kind = "MissingReference"
	KindTypeMismatch        Kind = "TypeMismatch"
)

// Error is the uniform diagnostic carried out of every pipeline stage:
// it names a Kind, a human message, the source Position it occurred at,
// and a short chain of enclosing-production context (outermost first).
type Error struct {
	Kind     Kind
	Message  string
	Pos      Position
	Context  []string
	Wrapped  error
}

func (e *Error) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s at %s: %s", e.Kind, e.Pos, e.Message)

	if len(e.Context) > 0 {
		fmt.Fprintf(&sb, " (in %s)", strings.Join(e.Context, " > "))
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New builds an Error, optionally wrapping a sentinel so errors.Is still
// works against the package-level sentinels declared by each front end.
func New(kind Kind, pos Position, wrapped error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Wrapped: wrapped,
	}
}

// WithContext returns a copy of e with frame prepended as the new
// outermost enclosing production, so callers compose context bottom-up
// as the error propagates and Context stays outermost first.
func (e *Error) WithContext(frame string) *Error {
	cp := *e
	cp.Context = append([]string{frame}, e.Context...)
	return &cp
}

// Render prints a one-line diagnostic followed by a caret-pointer source
// excerpt, colorizing the header and caret when the file descriptor
// isTerminalFd is a terminal. This is the
// CLI-facing presentation referenced by SPEC_FULL.md's AMBIENT STACK
// section; the core itself never calls this — only cmd/expresso does.
func Render(src string, e *Error, isTerminalFd uintptr) string {
	useColor := isatty.IsTerminal(isTerminalFd) || isatty.IsCygwinTerminal(isTerminalFd)

	lines := strings.Split(src, "\n")

	var line string
	if e.Pos.Line >= 1 && e.Pos.Line <= len(lines) {
		line = lines[e.Pos.Line-1]
	}

	caretCol := e.Pos.Column
	if caretCol < 1 {
		caretCol = 1
	}

	caret := strings.Repeat(" ", caretCol-1) + "^"

	header := e.Error()
	if useColor {
		header = color.New(color.FgRed, color.Bold).Sprint(e.Error())
		caret = color.New(color.FgYellow).Sprint(caret)
	}

	var sb strings.Builder
	fmt.Fprintln(&sb, header)

	if line != "" {
		fmt.Fprintln(&sb, line)
		fmt.Fprintln(&sb, caret)
	}

	return sb.String()
}
