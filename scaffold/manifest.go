package scaffold

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Mapping describes one template file and the output it generates. Paths are
// slash-separated and relative: Source to the runner's TemplateDir, Target
// to its OutputDir.
type Mapping struct {
	Source string `yaml:"source" json:"source" jsonschema:"description=Template path relative to the template directory"`
	Target string `yaml:"target" json:"target" jsonschema:"description=Output path relative to the output directory"`

	// If names a condition gating this mapping: when the condition is
	// false the file is skipped entirely. Bare name, no IF_ prefix.
	If string `yaml:"if,omitempty" json:"if,omitempty" jsonschema:"description=Condition name that must be true for the file to be generated"`
}

// Manifest is the scaffold.yaml file: the set of files a project generates,
// plus variable overrides applied on top of the resolved environment.
type Manifest struct {
	// Vars overrides resolved variables for this manifest (last-wins).
	Vars map[string]string `yaml:"vars,omitempty" json:"vars,omitempty" jsonschema:"description=Variable overrides applied on top of the environment"`

	Templates []Mapping `yaml:"templates" json:"templates" jsonschema:"description=Template to output mappings"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the manifest for structural problems: empty entries,
// duplicate targets, and paths that escape their root.
func (m *Manifest) Validate() error {
	if len(m.Templates) == 0 {
		return fmt.Errorf("no templates declared")
	}
	targets := make(map[string]bool, len(m.Templates))
	for i, t := range m.Templates {
		if t.Source == "" {
			return fmt.Errorf("templates[%d]: source is required", i)
		}
		if t.Target == "" {
			return fmt.Errorf("templates[%d]: target is required", i)
		}
		for _, p := range []string{t.Source, t.Target} {
			cleaned := filepath.ToSlash(filepath.Clean(p))
			if filepath.IsAbs(p) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
				return fmt.Errorf("templates[%d]: path %q escapes its root", i, p)
			}
		}
		if targets[t.Target] {
			return fmt.Errorf("templates[%d]: duplicate target %q", i, t.Target)
		}
		targets[t.Target] = true
	}
	return nil
}

// ManifestSchema returns the JSON Schema for manifest files, for editor
// validation of scaffold.yaml.
func ManifestSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Manifest{})
	schema.Title = "scaffoldkit manifest"
	schema.Description = "Template to output mappings for project generation"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
