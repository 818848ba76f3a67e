package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderErr renders and requires failure, returning the structured error.
func renderErr(t *testing.T, source string, vars map[string]string, conds map[string]bool) *Error {
	t.Helper()
	_, err := Render(source, vars, conds)
	require.Error(t, err)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	return terr
}

func TestRender_UnresolvedVariable(t *testing.T) {
	terr := renderErr(t, "{{MISSING}}", nil, nil)
	assert.Equal(t, UnresolvedVariable, terr.Kind)
	assert.Equal(t, "MISSING", terr.Name)
	assert.Equal(t, 1, terr.Line)
	assert.Equal(t, 1, terr.Column)
	assert.ErrorIs(t, terr, ErrUnresolvedVariable)
}

func TestRender_UnresolvedVariable_LineNumbers(t *testing.T) {
	source := "line one\nline two {{A}}\n{{B}}\n"
	terr := renderErr(t, source, map[string]string{"A": "a"}, nil)
	assert.Equal(t, UnresolvedVariable, terr.Kind)
	assert.Equal(t, "B", terr.Name)
	assert.Equal(t, 3, terr.Line)
	assert.Equal(t, 1, terr.Column)

	terr = renderErr(t, source, nil, nil)
	assert.Equal(t, "A", terr.Name, "first error in the pass wins")
	assert.Equal(t, 2, terr.Line)
	assert.Equal(t, 10, terr.Column)
}

func TestRender_UnresolvedCondition(t *testing.T) {
	terr := renderErr(t, "{{#IF_X}}A{{/IF_X}}", nil, nil)
	assert.Equal(t, UnresolvedCondition, terr.Kind)
	assert.Equal(t, "X", terr.Name, "reports the condition map key, prefix stripped")
	assert.Equal(t, 1, terr.Line)
	assert.ErrorIs(t, terr, ErrUnresolvedCondition)
}

func TestRender_UnterminatedBlock(t *testing.T) {
	terr := renderErr(t, "{{#IF_X}}A", nil, map[string]bool{"X": true})
	assert.Equal(t, UnterminatedBlock, terr.Kind)
	assert.Equal(t, "IF_X", terr.Name)
	assert.Equal(t, 1, terr.Line, "reports the line of the open tag")
	assert.ErrorIs(t, terr, ErrUnterminatedBlock)

	// Open tag line is reported even when input ends much later.
	terr = renderErr(t, "a\nb\n{{#IF_LONG}}\nbody\nmore\n", nil, map[string]bool{"LONG": true})
	assert.Equal(t, "IF_LONG", terr.Name)
	assert.Equal(t, 3, terr.Line)
}

func TestRender_MismatchedCloseTag(t *testing.T) {
	terr := renderErr(t, "{{#IF_X}}A{{/IF_Y}}", nil, map[string]bool{"X": true, "Y": true})
	assert.Equal(t, MismatchedCloseTag, terr.Kind)
	assert.Equal(t, "IF_Y", terr.Name)
	assert.Equal(t, "IF_X", terr.Expected)
	assert.Equal(t, 1, terr.Line)
	assert.ErrorIs(t, terr, ErrMismatchedCloseTag)
}

func TestRender_MismatchedCloseTag_Nested(t *testing.T) {
	// The close tag must match the innermost open block, not an outer one.
	source := "{{#IF_A}}{{#IF_B}}x{{/IF_A}}{{/IF_B}}"
	terr := renderErr(t, source, nil, map[string]bool{"A": true, "B": true})
	assert.Equal(t, MismatchedCloseTag, terr.Kind)
	assert.Equal(t, "IF_A", terr.Name)
	assert.Equal(t, "IF_B", terr.Expected)
}

func TestRender_CloseWithoutOpen(t *testing.T) {
	terr := renderErr(t, "text {{/IF_X}}", nil, map[string]bool{"X": true})
	assert.Equal(t, MismatchedCloseTag, terr.Kind)
	assert.Equal(t, "IF_X", terr.Name)
	assert.Empty(t, terr.Expected)
}

func TestRender_DuplicateElse(t *testing.T) {
	source := "{{#IF_X}}a{{#ELSE}}b{{#ELSE}}c{{/IF_X}}"
	terr := renderErr(t, source, nil, map[string]bool{"X": true})
	assert.Equal(t, DuplicateElse, terr.Kind)
	assert.Equal(t, "IF_X", terr.Name)
	assert.ErrorIs(t, terr, ErrDuplicateElse)
}

func TestRender_DanglingElse(t *testing.T) {
	terr := renderErr(t, "a\n{{#ELSE}}\n", nil, nil)
	assert.Equal(t, DanglingElse, terr.Kind)
	assert.Equal(t, 2, terr.Line)
	assert.ErrorIs(t, terr, ErrDanglingElse)
}

// Structural errors are caught even inside a branch that evaluation would
// discard: brace matching runs over the whole input.
func TestParse_DiscardedBranchStillParsed(t *testing.T) {
	source := "{{#IF_X}}ok{{#ELSE}}{{#IF_Y}}never closed{{/IF_X}}"
	_, err := Render(source, nil, map[string]bool{"X": true, "Y": false})
	require.Error(t, err)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, MismatchedCloseTag, terr.Kind)
	assert.Equal(t, "IF_X", terr.Name)
	assert.Equal(t, "IF_Y", terr.Expected)
}

// Parse errors surface before resolution errors: the tree is built before
// any lookup happens.
func TestParse_StructuralErrorBeforeResolution(t *testing.T) {
	source := "{{MISSING}}\n{{#IF_X}}unterminated"
	_, err := Render(source, nil, nil)
	require.Error(t, err)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, UnterminatedBlock, terr.Kind)
	assert.Equal(t, "IF_X", terr.Name)
	assert.Equal(t, 2, terr.Line)
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "unresolved variable",
			err:  &Error{Kind: UnresolvedVariable, Name: "NAME", Line: 3, Column: 7},
			want: "line 3:7: unresolved variable {{NAME}}",
		},
		{
			name: "mismatched close",
			err:  &Error{Kind: MismatchedCloseTag, Name: "IF_Y", Expected: "IF_X", Line: 1, Column: 11},
			want: "line 1:11: {{/IF_Y}} does not close the open block {{#IF_X}}",
		},
		{
			name: "unterminated",
			err:  &Error{Kind: UnterminatedBlock, Name: "IF_X", Line: 2, Column: 1},
			want: "line 2:1: unterminated block {{#IF_X}}: missing {{/IF_X}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_UnwrapCoversAllKinds(t *testing.T) {
	kinds := []Kind{
		UnresolvedVariable, UnresolvedCondition, UnterminatedBlock,
		MismatchedCloseTag, DuplicateElse, DanglingElse,
	}
	for _, k := range kinds {
		err := &Error{Kind: k, Name: "IF_X", Line: 1, Column: 1}
		assert.NotNil(t, errors.Unwrap(err), "kind %v must unwrap to a sentinel", k)
		assert.NotEmpty(t, k.String())
	}
}
