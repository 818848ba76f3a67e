package env

// Var declares one template variable and where its value comes from.
type Var struct {
	// Name is the template-side name, referenced as {{Name}}.
	Name string

	// Env is the environment variable supplying the value.
	Env string

	// Default is used when the environment variable is unset.
	Default string
}

// Cond declares one template condition and the switch that drives it.
type Cond struct {
	// Name is the bare condition name; templates reference it as
	// {{#IF_Name}}.
	Name string

	// Env is the environment variable read as a boolean: "true" (any case)
	// and "1" are true, everything else including unset is false.
	Env string
}

// Registry is the declared set of variables and conditions for a project.
type Registry struct {
	Vars  []Var
	Conds []Cond
}

// Default returns the built-in registry.
func Default() Registry {
	return Registry{
		Vars: []Var{
			// Project metadata
			{Name: "PROJECT_NAME", Env: "PROJECT_NAME", Default: "my-project"},
			{Name: "PROJECT_NAME_SNAKE", Env: "PROJECT_NAME_SNAKE", Default: "my_project"},
			{Name: "PROJECT_NAME_KEBAB", Env: "PROJECT_NAME_KEBAB", Default: "my-project"},
			{Name: "PROJECT_DESCRIPTION", Env: "PROJECT_DESCRIPTION", Default: "A new project"},
			{Name: "GITHUB_ORG", Env: "GITHUB_ORG", Default: "myorg"},

			// Language versions
			{Name: "PYTHON_VERSION", Env: "PYTHON_VERSION", Default: "3.12"},
			{Name: "GO_VERSION", Env: "GO_VERSION", Default: "1.22.0"},
			{Name: "NODE_VERSION", Env: "NODE_VERSION", Default: "20"},
			{Name: "RUST_VERSION", Env: "RUST_VERSION", Default: "stable"},

			// Infrastructure
			{Name: "POSTGRES_VERSION", Env: "POSTGRES_VERSION", Default: "16"},
			{Name: "REDIS_VERSION", Env: "REDIS_VERSION", Default: "7"},
			{Name: "DB_NAME", Env: "DB_NAME", Default: "app_dev"},
			{Name: "DB_USER", Env: "DB_USER", Default: "app_user"},
			{Name: "DB_PASSWORD", Env: "DB_PASSWORD", Default: "dev_password"},

			// Quality settings
			{Name: "COVERAGE_THRESHOLD", Env: "COVERAGE_THRESHOLD", Default: "80"},
		},
		Conds: []Cond{
			// Languages
			{Name: "PYTHON", Env: "INCLUDE_PYTHON"},
			{Name: "GO", Env: "INCLUDE_GO"},
			{Name: "NODE", Env: "INCLUDE_NODE"},
			{Name: "RUST", Env: "INCLUDE_RUST"},

			// Infrastructure
			{Name: "POSTGRES", Env: "INCLUDE_POSTGRES"},
			{Name: "REDIS", Env: "INCLUDE_REDIS"},

			// AI workflows
			{Name: "AI_SESSIONS", Env: "INCLUDE_AI_SESSIONS"},
			{Name: "AI_PROMPTS", Env: "INCLUDE_AI_PROMPTS"},

			// Quality and tooling
			{Name: "QUALITY_CHECKS", Env: "INCLUDE_QUALITY_CHECKS"},
			{Name: "PRECOMMIT", Env: "INCLUDE_PRECOMMIT"},
			{Name: "PULUMI", Env: "INCLUDE_PULUMI"},
			{Name: "GH_CLI", Env: "INCLUDE_GH_CLI"},
			{Name: "CLAUDE_CODE", Env: "INCLUDE_CLAUDE_CODE"},
			{Name: "INFISICAL", Env: "INCLUDE_INFISICAL"},
			{Name: "GCLOUD", Env: "INCLUDE_GCLOUD"},
		},
	}
}

// Merge returns a registry combining r with other. Declarations in other
// replace declarations in r with the same name; new names are appended in
// order.
func (r Registry) Merge(other Registry) Registry {
	merged := Registry{
		Vars:  make([]Var, len(r.Vars)),
		Conds: make([]Cond, len(r.Conds)),
	}
	copy(merged.Vars, r.Vars)
	copy(merged.Conds, r.Conds)

	varIdx := make(map[string]int, len(merged.Vars))
	for i, v := range merged.Vars {
		varIdx[v.Name] = i
	}
	for _, v := range other.Vars {
		if i, ok := varIdx[v.Name]; ok {
			merged.Vars[i] = v
			continue
		}
		varIdx[v.Name] = len(merged.Vars)
		merged.Vars = append(merged.Vars, v)
	}

	condIdx := make(map[string]int, len(merged.Conds))
	for i, c := range merged.Conds {
		condIdx[c.Name] = i
	}
	for _, c := range other.Conds {
		if i, ok := condIdx[c.Name]; ok {
			merged.Conds[i] = c
			continue
		}
		condIdx[c.Name] = len(merged.Conds)
		merged.Conds = append(merged.Conds, c)
	}

	return merged
}
