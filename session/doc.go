// Package session manages AI-assisted development session checkpoints.
//
// A checkpoint is a markdown file with YAML frontmatter recording one
// working session: what was attempted, where it stands, and what comes
// next. Checkpoints live under a root directory following the convention
//
//	sessions/{developer}/{date}/session-{n}.md
//
// with dates formatted YYYY-MM-DD and n counting up from 1 within a day.
// NextNumber picks the next free slot so concurrent tooling never needs to
// coordinate beyond the filesystem.
package session
