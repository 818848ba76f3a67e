package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forgeworks/scaffoldkit/env"
	"github.com/forgeworks/scaffoldkit/template"
)

// Runner renders templates from TemplateDir into OutputDir against a
// resolved environment.
type Runner struct {
	Env         env.Environment
	TemplateDir string
	OutputDir   string

	// WatchDebounce is how long Watch waits after the last write event
	// before re-rendering. Zero means DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// Result records the outcome of one manifest entry.
type Result struct {
	Mapping Mapping

	// Skipped is true when the mapping's condition gated it off.
	Skipped bool

	// Err is the failure for this entry, nil on success.
	Err error
}

// RenderFile renders a single template to its target. The template is read
// and rendered completely before the target's parent directory is created
// and the file written, so failures produce no output at all. The rendered
// text is normalized to end in exactly one newline.
func (r *Runner) RenderFile(source, target string) error {
	out, err := r.render(source)
	if err != nil {
		return err
	}
	dst := filepath.Join(r.OutputDir, target)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

// Render renders a single template and returns the normalized text without
// writing it anywhere.
func (r *Runner) Render(source string) (string, error) {
	return r.render(source)
}

func (r *Runner) render(source string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.TemplateDir, source))
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	out, err := template.Render(string(data), r.Env.Vars, r.Env.Conds)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}
	return normalizeTrailing(out), nil
}

// Run processes every mapping in the manifest. Failures are isolated per
// file: a broken entry is recorded in its Result and the remaining entries
// still run. The returned slice is in manifest order, one Result per entry.
func (r *Runner) Run(m *Manifest) []Result {
	runner := r.withOverrides(m.Vars)
	results := make([]Result, 0, len(m.Templates))
	for _, mapping := range m.Templates {
		res := Result{Mapping: mapping}
		switch on, err := runner.gate(mapping); {
		case err != nil:
			res.Err = err
		case !on:
			res.Skipped = true
		default:
			res.Err = runner.RenderFile(mapping.Source, mapping.Target)
		}
		results = append(results, res)
	}
	return results
}

// Check dry-runs the manifest: every non-skipped template is parsed and
// every variable and condition it references is verified against the
// environment. Nothing is written.
func (r *Runner) Check(m *Manifest) []Result {
	runner := r.withOverrides(m.Vars)
	results := make([]Result, 0, len(m.Templates))
	for _, mapping := range m.Templates {
		res := Result{Mapping: mapping}
		switch on, err := runner.gate(mapping); {
		case err != nil:
			res.Err = err
		case !on:
			res.Skipped = true
		default:
			res.Err = runner.check(mapping.Source)
		}
		results = append(results, res)
	}
	return results
}

// check parses one template and verifies all referenced names resolve.
func (r *Runner) check(source string) error {
	data, err := os.ReadFile(filepath.Join(r.TemplateDir, source))
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	tmpl, err := template.Parse(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	var missing []string
	for _, name := range tmpl.Variables() {
		if _, ok := r.Env.Vars[name]; !ok {
			missing = append(missing, "variable "+name)
		}
	}
	for _, name := range tmpl.Conditions() {
		if _, ok := r.Env.Conds[name]; !ok {
			missing = append(missing, "condition "+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: unresolved: %s", source, strings.Join(missing, ", "))
	}
	return nil
}

// gate evaluates a mapping's condition. An If naming an unknown condition is
// an error, consistent with the engine's policy on unresolved conditions.
func (r *Runner) gate(m Mapping) (bool, error) {
	if m.If == "" {
		return true, nil
	}
	on, ok := r.Env.Conds[m.If]
	if !ok {
		return false, fmt.Errorf("%s: unknown condition %q in manifest", m.Source, m.If)
	}
	return on, nil
}

// withOverrides returns a runner whose variable map has the manifest's
// overrides applied. The receiver's environment is not mutated.
func (r *Runner) withOverrides(overrides map[string]string) *Runner {
	if len(overrides) == 0 {
		return r
	}
	vars := make(map[string]string, len(r.Env.Vars)+len(overrides))
	for k, v := range r.Env.Vars {
		vars[k] = v
	}
	for k, v := range overrides {
		vars[k] = v
	}
	return &Runner{
		Env:           env.Environment{Vars: vars, Conds: r.Env.Conds},
		TemplateDir:   r.TemplateDir,
		OutputDir:     r.OutputDir,
		WatchDebounce: r.WatchDebounce,
	}
}

// normalizeTrailing trims trailing whitespace and appends a single newline,
// keeping generated files friendly to end-of-file hooks.
func normalizeTrailing(s string) string {
	return strings.TrimRight(s, " \t\r\n") + "\n"
}
