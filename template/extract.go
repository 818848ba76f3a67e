package template

// Variables returns the variable names the template references, in document
// order, deduplicated. Both branches of every conditional block are
// included: rendering may take either branch depending on the environment.
func (t *Template) Variables() []string {
	seen := make(map[string]bool)
	var out []string
	walkNodes(t.nodes, func(n node) {
		v, ok := n.(*varNode)
		if !ok || seen[v.name] {
			return
		}
		seen[v.name] = true
		out = append(out, v.name)
	})
	return out
}

// Conditions returns the bare condition names the template references, in
// document order, deduplicated.
func (t *Template) Conditions() []string {
	seen := make(map[string]bool)
	var out []string
	walkNodes(t.nodes, func(n node) {
		c, ok := n.(*condNode)
		if !ok || seen[c.name] {
			return
		}
		seen[c.name] = true
		out = append(out, c.name)
	})
	return out
}

// walkNodes visits every node depth-first in document order.
func walkNodes(nodes []node, visit func(node)) {
	for _, n := range nodes {
		visit(n)
		if c, ok := n.(*condNode); ok {
			walkNodes(c.then, visit)
			walkNodes(c.els, visit)
		}
	}
}
