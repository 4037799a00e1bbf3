package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/minidoc/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.GroupByKind)
	assert.Equal(t, model.DefaultKinds, cfg.Kinds)
	assert.True(t, cfg.IncludeRe().MatchString("src/a.ts"))
	assert.False(t, cfg.IncludeRe().MatchString("src/a.py"))
	assert.True(t, cfg.ExcludeRe().MatchString("node_modules/x/a.js"))
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `title: My Lib
output: api/README.md
group_by_kind: false
kinds: [MethodDefinition, FunctionDeclaration]
jsdoc_only: true
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "My Lib", cfg.Title)
	assert.Equal(t, "api/README.md", cfg.Output)
	assert.False(t, cfg.GroupByKind)
	assert.True(t, cfg.JsdocOnly)
	assert.Equal(t, []model.Kind{model.MethodDefinition, model.FunctionDeclaration}, cfg.Kinds)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultInclude, cfg.Include)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"bad include", "include: '('\n"},
		{"bad exclude", "exclude: '['\n"},
		{"unknown kind", "kinds: [Interface]\n"},
		{"empty output", "output: ''\n"},
		{"negative workers", "workers: -1\n"},
		{"negative size", "max_file_size: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.content), true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "title: [unterminated\n"), true)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, filepath.Join("/repo", "docs", "index.md"), cfg.OutputPath("/repo"))

	cfg.Output = "/abs/out.md"
	assert.Equal(t, "/abs/out.md", cfg.OutputPath("/repo"))

	assert.Empty(t, cfg.CachePath("/repo"))
	cfg.Cache = ".minidoc-cache"
	assert.Equal(t, filepath.Join("/repo", ".minidoc-cache"), cfg.CachePath("/repo"))
}

func TestToYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := Default().ToYAML("# header")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# header\n\n")

	path := writeConfig(t, string(data))
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
