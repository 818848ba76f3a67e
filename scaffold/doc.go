// Package scaffold generates project files from a directory of templates.
//
// It is the file-level caller around the template engine: reading template
// sources, rendering them against an env.Environment, and writing outputs.
// Generation is all-or-nothing per file. A template is rendered completely
// in memory before its target is touched, so a failed render never leaves a
// partial or corrupt file behind.
//
// A Manifest (scaffold.yaml) lists the template→target mappings for a
// project, optionally gated on conditions and with inline variable
// overrides. Runner.Run processes a manifest with per-file failure
// isolation: one broken template is reported and skipped while the rest
// still generate. Runner.Check dry-runs the same work, verifying that every
// referenced variable and condition resolves without writing anything.
//
// Runner.Watch re-renders mapped templates as they change on disk, for
// iterating on a template set.
package scaffold
