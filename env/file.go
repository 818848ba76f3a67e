package env

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// registryFile is the on-disk TOML shape of a registry:
//
//	[variables.APP_PORT]
//	env = "APP_PORT"
//	default = "8080"
//
//	[conditions.DOCKER]
//	env = "INCLUDE_DOCKER"
type registryFile struct {
	Variables  map[string]varDecl  `toml:"variables"`
	Conditions map[string]condDecl `toml:"conditions"`
}

type varDecl struct {
	Env     string `toml:"env"`
	Default string `toml:"default"`
}

type condDecl struct {
	Env string `toml:"env"`
}

// LoadRegistry reads a registry definition from a TOML file. The result is
// typically merged onto Default. Entries are ordered by name so repeated
// loads produce identical registries.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("read registry: %w", err)
	}
	return parseRegistry(data)
}

func parseRegistry(data []byte) (Registry, error) {
	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Registry{}, fmt.Errorf("parse registry: %w", err)
	}

	var reg Registry
	for _, name := range sortedKeys(file.Variables) {
		decl := file.Variables[name]
		envName := decl.Env
		if envName == "" {
			envName = name
		}
		reg.Vars = append(reg.Vars, Var{Name: name, Env: envName, Default: decl.Default})
	}
	for _, name := range sortedKeys(file.Conditions) {
		decl := file.Conditions[name]
		if decl.Env == "" {
			return Registry{}, fmt.Errorf("parse registry: condition %q has no env key", name)
		}
		reg.Conds = append(reg.Conds, Cond{Name: name, Env: decl.Env})
	}
	return reg, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
