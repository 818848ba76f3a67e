package env

import (
	"strconv"
	"strings"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it;
// tests pass a map-backed closure.
type LookupFunc func(key string) (string, bool)

// Environment is the immutable snapshot handed to template rendering.
// Neither map is consulted by this package after Resolve returns; callers
// own them.
type Environment struct {
	Vars  map[string]string
	Conds map[string]bool
}

// Resolve builds an Environment from a registry and a lookup function.
// Variables fall back to their declared defaults; conditions default to
// false. Derived values are computed after all declared values, so they see
// the final base variables.
func Resolve(reg Registry, lookup LookupFunc) Environment {
	vars := make(map[string]string, len(reg.Vars)+3)
	for _, v := range reg.Vars {
		if val, ok := lookup(v.Env); ok {
			vars[v.Name] = val
		} else {
			vars[v.Name] = v.Default
		}
	}
	deriveVars(vars)

	conds := make(map[string]bool, len(reg.Conds)+2)
	for _, c := range reg.Conds {
		val, _ := lookup(c.Env)
		conds[c.Name] = isTrue(val)
	}
	deriveConds(vars, conds)

	return Environment{Vars: vars, Conds: conds}
}

// isTrue converts a stringly-typed switch to a boolean.
func isTrue(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}

// deriveVars computes variables that are functions of other variables.
func deriveVars(vars map[string]string) {
	// 3.12 -> 312, for ruff/pyproject target-version
	if py, ok := vars["PYTHON_VERSION"]; ok {
		vars["PYTHON_VERSION_NODOT"] = strings.ReplaceAll(py, ".", "")
	}

	// 1.22.0 -> 1.22, go.mod only accepts major.minor
	if gov, ok := vars["GO_VERSION"]; ok {
		parts := strings.Split(gov, ".")
		short := gov
		if len(parts) >= 2 {
			short = parts[0] + "." + parts[1]
		}
		vars["GO_VERSION_SHORT"] = short
	}

	// stable/nightly/beta -> concrete MSRV
	if rust, ok := vars["RUST_VERSION"]; ok {
		switch rust {
		case "stable", "nightly", "beta":
			vars["RUST_MSRV"] = "1.75"
		default:
			vars["RUST_MSRV"] = rust
		}
	}
}

// deriveConds computes conditions that are functions of other values.
func deriveConds(vars map[string]string, conds map[string]bool) {
	conds["HAS_SERVICES"] = conds["POSTGRES"] || conds["REDIS"]

	enabled := false
	if raw, ok := vars["COVERAGE_THRESHOLD"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			enabled = true
		}
	}
	conds["COVERAGE_ENABLED"] = enabled
}
