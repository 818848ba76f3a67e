// Package env builds the variable and condition environments that template
// rendering consumes.
//
// The engine itself never reads process state. This package is the boundary
// where stringly-typed environment variables become a typed, immutable
// snapshot: a name→string map for substitutions and a name→bool map for
// conditional blocks. The snapshot is built once per run from a Registry of
// declarations and an injected lookup function, so tests and callers control
// exactly what is visible.
//
//	environ := env.Resolve(env.Default(), os.LookupEnv)
//	out, err := template.Render(src, environ.Vars, environ.Conds)
//
// Default returns the built-in registry (project metadata, language
// versions, infrastructure settings and their INCLUDE_* switches). Extra
// declarations can be loaded from a TOML file with LoadRegistry and merged
// with Registry.Merge; later declarations win by name.
package env
