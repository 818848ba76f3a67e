package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaffold.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vars:
  PROJECT_NAME: widget
templates:
  - source: Dockerfile.tmpl
    target: Dockerfile
  - source: ci.yml.tmpl
    target: .github/workflows/ci.yml
    if: QUALITY_CHECKS
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"PROJECT_NAME": "widget"}, m.Vars)
	require.Len(t, m.Templates, 2)
	assert.Equal(t, Mapping{Source: "Dockerfile.tmpl", Target: "Dockerfile"}, m.Templates[0])
	assert.Equal(t, "QUALITY_CHECKS", m.Templates[1].If)
}

func TestManifest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		wantErr  string
	}{
		{
			name:     "empty",
			manifest: Manifest{},
			wantErr:  "no templates",
		},
		{
			name: "missing source",
			manifest: Manifest{Templates: []Mapping{
				{Target: "out"},
			}},
			wantErr: "source is required",
		},
		{
			name: "missing target",
			manifest: Manifest{Templates: []Mapping{
				{Source: "in"},
			}},
			wantErr: "target is required",
		},
		{
			name: "duplicate target",
			manifest: Manifest{Templates: []Mapping{
				{Source: "a", Target: "out"},
				{Source: "b", Target: "out"},
			}},
			wantErr: "duplicate target",
		},
		{
			name: "absolute path",
			manifest: Manifest{Templates: []Mapping{
				{Source: "/etc/passwd", Target: "out"},
			}},
			wantErr: "escapes its root",
		},
		{
			name: "parent escape",
			manifest: Manifest{Templates: []Mapping{
				{Source: "a", Target: "../outside"},
			}},
			wantErr: "escapes its root",
		},
		{
			name: "valid",
			manifest: Manifest{Templates: []Mapping{
				{Source: "a", Target: "x"},
				{Source: "a", Target: "y"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestManifestSchema(t *testing.T) {
	data, err := ManifestSchema()
	require.NoError(t, err)

	schema := string(data)
	assert.Contains(t, schema, `"templates"`)
	assert.Contains(t, schema, `"source"`)
	assert.Contains(t, schema, `"target"`)
	assert.Contains(t, schema, "scaffoldkit manifest")
}
