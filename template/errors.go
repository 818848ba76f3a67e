package template

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. Every *Error unwraps to exactly one
// of these, so callers can branch with errors.Is without inspecting fields.
var (
	// ErrUnresolvedVariable is returned when a substitution references a
	// name absent from the variable map.
	ErrUnresolvedVariable = errors.New("unresolved variable")

	// ErrUnresolvedCondition is returned when a conditional block references
	// a condition absent from the condition map.
	ErrUnresolvedCondition = errors.New("unresolved condition")

	// ErrUnterminatedBlock is returned when input ends while a conditional
	// block is still open.
	ErrUnterminatedBlock = errors.New("unterminated block")

	// ErrMismatchedCloseTag is returned when a close tag names a different
	// condition than the innermost open block, or closes a block that was
	// never opened.
	ErrMismatchedCloseTag = errors.New("mismatched close tag")

	// ErrDuplicateElse is returned when a block contains more than one
	// {{#ELSE}} marker.
	ErrDuplicateElse = errors.New("duplicate else")

	// ErrDanglingElse is returned when {{#ELSE}} appears outside any open
	// conditional block.
	ErrDanglingElse = errors.New("else outside block")
)

// Kind identifies the category of a template error.
type Kind int

const (
	// UnresolvedVariable: {{NAME}} where NAME is not in the variable map.
	UnresolvedVariable Kind = iota + 1

	// UnresolvedCondition: {{#IF_X}} where X is not in the condition map.
	UnresolvedCondition

	// UnterminatedBlock: end of input with an open block. Line and Column
	// point at the open tag.
	UnterminatedBlock

	// MismatchedCloseTag: a close tag that does not match the innermost
	// open block.
	MismatchedCloseTag

	// DuplicateElse: a second {{#ELSE}} in the same block.
	DuplicateElse

	// DanglingElse: {{#ELSE}} with no enclosing block.
	DanglingElse
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case UnresolvedVariable:
		return "UnresolvedVariable"
	case UnresolvedCondition:
		return "UnresolvedCondition"
	case UnterminatedBlock:
		return "UnterminatedBlock"
	case MismatchedCloseTag:
		return "MismatchedCloseTag"
	case DuplicateElse:
		return "DuplicateElse"
	case DanglingElse:
		return "DanglingElse"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error describes a single failed directive. Line and Column are 1-based and
// locate the opening {{ of the directive the message refers to; for
// UnterminatedBlock that is the open tag left unclosed at end of input.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Name is the name involved in the failure: the variable name for
	// UnresolvedVariable, the bare condition name (the map key) for
	// UnresolvedCondition, and the tag as written in the template
	// ("IF_PYTHON") for the structural kinds.
	Name string

	// Expected is set for MismatchedCloseTag only: the tag of the innermost
	// open block that should have been closed. Empty when the close tag had
	// no open block at all.
	Expected string

	// Line is the 1-based line number of the directive.
	Line int

	// Column is the 1-based byte column of the directive's opening brace.
	Column int
}

// Error formats the failure with its position.
func (e *Error) Error() string {
	switch e.Kind {
	case UnresolvedVariable:
		return fmt.Sprintf("line %d:%d: unresolved variable {{%s}}", e.Line, e.Column, e.Name)
	case UnresolvedCondition:
		return fmt.Sprintf("line %d:%d: unresolved condition %q in {{#IF_%s}}", e.Line, e.Column, e.Name, e.Name)
	case UnterminatedBlock:
		return fmt.Sprintf("line %d:%d: unterminated block {{#%s}}: missing {{/%s}}", e.Line, e.Column, e.Name, e.Name)
	case MismatchedCloseTag:
		if e.Expected == "" {
			return fmt.Sprintf("line %d:%d: {{/%s}} closes a block that was never opened", e.Line, e.Column, e.Name)
		}
		return fmt.Sprintf("line %d:%d: {{/%s}} does not close the open block {{#%s}}", e.Line, e.Column, e.Name, e.Expected)
	case DuplicateElse:
		return fmt.Sprintf("line %d:%d: duplicate {{#ELSE}} in block {{#%s}}", e.Line, e.Column, e.Name)
	case DanglingElse:
		return fmt.Sprintf("line %d:%d: {{#ELSE}} outside any conditional block", e.Line, e.Column)
	}
	return fmt.Sprintf("line %d:%d: template error", e.Line, e.Column)
}

// Unwrap returns the sentinel matching the error's kind.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case UnresolvedVariable:
		return ErrUnresolvedVariable
	case UnresolvedCondition:
		return ErrUnresolvedCondition
	case UnterminatedBlock:
		return ErrUnterminatedBlock
	case MismatchedCloseTag:
		return ErrMismatchedCloseTag
	case DuplicateElse:
		return ErrDuplicateElse
	case DanglingElse:
		return ErrDanglingElse
	}
	return nil
}
