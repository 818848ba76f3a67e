// Package scaffoldkit provides tooling for bootstrapping development
// environments from templates.
//
// Each subpackage can be used independently:
//
//   - template: the rendering engine, {{VAR}} substitution and
//     {{#IF_X}}/{{#ELSE}}/{{/IF_X}} conditional blocks
//   - env: variable and condition environments resolved from declarations
//     and environment variables
//   - scaffold: manifest-driven file generation with per-file failure
//     isolation and a watch mode
//   - session: markdown session checkpoints with YAML frontmatter
//
// The scaffold binary under cmd/scaffold ties them together.
//
// # Quick Start
//
// Render one template:
//
//	import (
//		"os"
//
//		"github.com/forgeworks/scaffoldkit/env"
//		"github.com/forgeworks/scaffoldkit/template"
//	)
//
//	environ := env.Resolve(env.Default(), os.LookupEnv)
//	out, err := template.Render(src, environ.Vars, environ.Conds)
//
// Generate a whole project:
//
//	manifest, _ := scaffold.LoadManifest("scaffold.yaml")
//	runner := &scaffold.Runner{Env: environ, TemplateDir: ".template", OutputDir: "."}
//	results := runner.Run(manifest)
//
// # Design Philosophy
//
//   - The engine is pure: all inputs are explicit snapshots, never ambient
//     process state
//   - Missing variables and conditions fail loudly; generated config files
//     are no place for silent fallbacks
//   - Generation is all-or-nothing per file and failures are isolated
//     across files
package scaffoldkit
