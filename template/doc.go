// Package template renders project scaffolding templates with variable
// substitution and conditional blocks.
//
// The engine is deliberately small: one directive syntax, one pass, no
// filesystem access, no ambient state. Callers build the variable and
// condition maps up front (see the env package) and receive either the fully
// rendered text or an error naming the directive that failed and where.
//
// # Syntax
//
// Directives are delimited by double braces. Variable names are uppercase
// identifiers; condition tags carry an IF_ prefix:
//
//	{{PROJECT_NAME}}                          substitution
//	{{#IF_PYTHON}} ... {{/IF_PYTHON}}         conditional block
//	{{#IF_PYTHON}} ... {{#ELSE}} ... {{/IF_PYTHON}}
//
// Blocks nest to any depth. A close tag must name the same condition as the
// innermost open block, matched case-sensitively and byte for byte. At most
// one {{#ELSE}} may appear per block.
//
// Condition maps use bare names: {{#IF_PYTHON}} looks up "PYTHON". Error
// reporting for block structure uses the tag as written ("IF_PYTHON").
//
// Text between braces that does not form a well-formed directive is copied
// through untouched. That covers lowercase names, spaced braces like
// "{{ NAME }}", and GitHub Actions expressions ("${{ ... }}"), none of which
// match the identifier grammar.
//
// # Failure policy
//
// Missing variables and conditions are hard errors, not silent
// substitutions: a {{TYPO}} that slipped into a generated CI workflow is far
// worse than a refused render. Structural problems (unterminated blocks,
// mismatched close tags, duplicate or dangling {{#ELSE}}) are parse errors
// and are detected inside discarded branches too. Every error carries the
// kind, the name involved, and the 1-based line and column of the
// directive's opening braces. See Error.
//
// # Example
//
//	tmpl, err := template.Parse("Hello {{NAME}}{{#IF_LOUD}}!{{/IF_LOUD}}")
//	if err != nil {
//		// structural problem in the template
//	}
//	out, err := tmpl.Render(
//		map[string]string{"NAME": "World"},
//		map[string]bool{"LOUD": true},
//	)
//	// out: "Hello World!"
//
// The one-shot Render function combines both steps. A substituted value is
// inserted literally and never re-scanned, so rendering is a single pass and
// the output of a successful render contains no directives.
package template
