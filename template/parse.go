package template

import (
	"sort"
	"strings"
)

// condPrefix is the tag prefix that distinguishes conditional tags from
// variable names. The prefix is part of the tag ("IF_PYTHON") but not of the
// condition map key ("PYTHON").
const condPrefix = "IF_"

// node is one element of a parsed template.
type node interface {
	render(b *strings.Builder, vars map[string]string, conds map[string]bool) error
}

// literalNode is verbatim text copied straight to the output.
type literalNode struct {
	text string
}

// varNode is a {{NAME}} substitution.
type varNode struct {
	name string
	line int
	col  int
}

// condNode is a {{#IF_X}}...{{#ELSE}}...{{/IF_X}} block. The else branch is
// nil when the block has no {{#ELSE}}.
type condNode struct {
	name string // condition map key, prefix stripped
	tag  string // tag as written, e.g. "IF_PYTHON"
	line int
	col  int
	then []node
	els  []node
}

// Template is a parsed template, ready to render. A Template is immutable
// and safe for concurrent use.
type Template struct {
	size  int
	nodes []node
}

// Parse parses source into a Template. Structural problems (unterminated
// blocks, mismatched close tags, duplicate or dangling else markers) are
// reported as *Error; resolution of variables and conditions is deferred to
// Render.
func Parse(source string) (*Template, error) {
	p := &parser{src: source, lines: lineOffsets(source)}
	// With no enclosing block the only legal stop is end of input; close
	// and else tags at top level error out inside parseNodes.
	nodes, _, err := p.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	return &Template{size: len(source), nodes: nodes}, nil
}

// directive kinds produced by the scanner.
type dirKind int

const (
	dirVar dirKind = iota + 1
	dirOpen
	dirElse
	dirClose
)

// directive is one well-formed {{...}} token.
type directive struct {
	kind dirKind
	name string // variable name, or tag including the IF_ prefix
	end  int    // byte offset just past the closing }}
}

// blockFrame tracks one open conditional block during parsing.
type blockFrame struct {
	tag      string
	line     int
	col      int
	elseSeen bool
}

// parser scans source left to right, building the node tree by recursive
// descent over conditional blocks.
type parser struct {
	src   string
	pos   int
	lines []int
}

// parseNodes consumes nodes until end of input (enclosing == nil) or until
// an else or close tag belonging to the enclosing block. The stop kind tells
// the caller which tag ended the branch; the tag itself is consumed.
func (p *parser) parseNodes(enclosing *blockFrame) ([]node, dirKind, error) {
	var nodes []node
	for {
		rel := strings.Index(p.src[p.pos:], "{{")
		if rel < 0 {
			if p.pos < len(p.src) {
				nodes = append(nodes, &literalNode{text: p.src[p.pos:]})
				p.pos = len(p.src)
			}
			if enclosing != nil {
				return nil, 0, &Error{
					Kind:   UnterminatedBlock,
					Name:   enclosing.tag,
					Line:   enclosing.line,
					Column: enclosing.col,
				}
			}
			return nodes, 0, nil
		}
		if rel > 0 {
			nodes = append(nodes, &literalNode{text: p.src[p.pos : p.pos+rel]})
			p.pos += rel
		}

		d, ok := matchDirective(p.src, p.pos)
		if !ok {
			// Not a directive. Emit a single brace and rescan one byte
			// later so a valid directive starting at the second brace of
			// "{{{NAME}}}" is still found.
			nodes = append(nodes, &literalNode{text: p.src[p.pos : p.pos+1]})
			p.pos++
			continue
		}

		line, col := p.position(p.pos)
		switch d.kind {
		case dirVar:
			p.pos = d.end
			nodes = append(nodes, &varNode{name: d.name, line: line, col: col})

		case dirOpen:
			p.pos = d.end
			cn, err := p.parseCond(d.name, line, col)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, cn)

		case dirElse:
			if enclosing == nil {
				return nil, 0, &Error{Kind: DanglingElse, Line: line, Column: col}
			}
			if enclosing.elseSeen {
				return nil, 0, &Error{
					Kind:   DuplicateElse,
					Name:   enclosing.tag,
					Line:   line,
					Column: col,
				}
			}
			p.pos = d.end
			return nodes, dirElse, nil

		case dirClose:
			if enclosing == nil {
				return nil, 0, &Error{
					Kind:   MismatchedCloseTag,
					Name:   d.name,
					Line:   line,
					Column: col,
				}
			}
			if d.name != enclosing.tag {
				return nil, 0, &Error{
					Kind:     MismatchedCloseTag,
					Name:     d.name,
					Expected: enclosing.tag,
					Line:     line,
					Column:   col,
				}
			}
			p.pos = d.end
			return nodes, dirClose, nil
		}
	}
}

// parseCond parses the body of a conditional block whose open tag has just
// been consumed.
func (p *parser) parseCond(tag string, line, col int) (*condNode, error) {
	frame := &blockFrame{tag: tag, line: line, col: col}
	then, stop, err := p.parseNodes(frame)
	if err != nil {
		return nil, err
	}
	var els []node
	if stop == dirElse {
		frame.elseSeen = true
		els, _, err = p.parseNodes(frame)
		if err != nil {
			return nil, err
		}
	}
	return &condNode{
		name: strings.TrimPrefix(tag, condPrefix),
		tag:  tag,
		line: line,
		col:  col,
		then: then,
		els:  els,
	}, nil
}

// matchDirective examines src at pos, which must point at "{{", and reports
// whether a well-formed directive token starts there. Anything that does not
// match the grammar exactly is literal text, not an error.
func matchDirective(src string, pos int) (directive, bool) {
	i := pos + 2 // past "{{"
	if i >= len(src) {
		return directive{}, false
	}

	switch src[i] {
	case '#':
		i++
		if strings.HasPrefix(src[i:], "ELSE}}") {
			return directive{kind: dirElse, end: i + len("ELSE}}")}, true
		}
		name, end, ok := matchTag(src, i)
		if !ok {
			return directive{}, false
		}
		return directive{kind: dirOpen, name: name, end: end}, true

	case '/':
		i++
		name, end, ok := matchTag(src, i)
		if !ok {
			return directive{}, false
		}
		return directive{kind: dirClose, name: name, end: end}, true

	default:
		name, end, ok := matchIdent(src, i)
		if !ok {
			return directive{}, false
		}
		return directive{kind: dirVar, name: name, end: end}, true
	}
}

// matchTag matches a conditional tag, IF_ followed by at least one
// identifier character, terminated by "}}".
func matchTag(src string, i int) (string, int, bool) {
	if !strings.HasPrefix(src[i:], condPrefix) {
		return "", 0, false
	}
	j := i + len(condPrefix)
	k := j
	for k < len(src) && isIdentChar(src[k]) {
		k++
	}
	if k == j || !strings.HasPrefix(src[k:], "}}") {
		return "", 0, false
	}
	return src[i:k], k + 2, true
}

// matchIdent matches a variable name, an uppercase letter followed by
// identifier characters, terminated by "}}".
func matchIdent(src string, i int) (string, int, bool) {
	if i >= len(src) || src[i] < 'A' || src[i] > 'Z' {
		return "", 0, false
	}
	k := i + 1
	for k < len(src) && isIdentChar(src[k]) {
		k++
	}
	if !strings.HasPrefix(src[k:], "}}") {
		return "", 0, false
	}
	return src[i:k], k + 2, true
}

// isIdentChar reports whether c may appear in a directive name after the
// first character.
func isIdentChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

// lineOffsets returns the byte offset of the start of each line.
func lineOffsets(src string) []int {
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// position converts a byte offset into a 1-based line and column.
func (p *parser) position(offset int) (line, col int) {
	idx := sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > offset }) - 1
	return idx + 1, offset - p.lines[idx] + 1
}
