package template

import "strings"

// Render parses source and renders it in one call. Use Parse followed by
// Template.Render to render the same template against several environments
// without re-parsing.
func Render(source string, vars map[string]string, conds map[string]bool) (string, error) {
	tmpl, err := Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(vars, conds)
}

// Render evaluates the template against the given variable and condition
// maps and returns the output text. The maps are read-only snapshots; the
// engine never mutates them and never consults anything else. On failure the
// returned error is a *Error and no partial output is produced.
//
// Values are inserted literally: a substituted value containing brace
// sequences is never re-scanned for directives.
func (t *Template) Render(vars map[string]string, conds map[string]bool) (string, error) {
	var b strings.Builder
	b.Grow(t.size)
	for _, n := range t.nodes {
		if err := n.render(&b, vars, conds); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (n *literalNode) render(b *strings.Builder, _ map[string]string, _ map[string]bool) error {
	b.WriteString(n.text)
	return nil
}

func (n *varNode) render(b *strings.Builder, vars map[string]string, _ map[string]bool) error {
	v, ok := vars[n.name]
	if !ok {
		return &Error{Kind: UnresolvedVariable, Name: n.name, Line: n.line, Column: n.col}
	}
	b.WriteString(v)
	return nil
}

func (n *condNode) render(b *strings.Builder, vars map[string]string, conds map[string]bool) error {
	v, ok := conds[n.name]
	if !ok {
		return &Error{Kind: UnresolvedCondition, Name: n.name, Line: n.line, Column: n.col}
	}
	branch := n.then
	if !v {
		branch = n.els
	}
	for _, c := range branch {
		if err := c.render(b, vars, conds); err != nil {
			return err
		}
	}
	return nil
}
