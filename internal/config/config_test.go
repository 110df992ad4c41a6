package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utilify.dev/utilify/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Len(t, cfg.Breakpoints, 5)
	assert.Equal(t, 0.05, cfg.BreakpointTolerance)
	assert.Equal(t, 0.20, cfg.SpacingTolerance)
	assert.True(t, cfg.Backup)
	assert.NotEmpty(t, cfg.Include)
}

// TestLoadJSONC: JSON configs may carry comments and trailing commas.
func TestLoadJSONC(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "utilify.config.jsonc", `{
		// only scan stylesheets
		"include": ["src/**/*.css"],
		"spacingTolerance": 0.1,
		"backup": false,
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*.css"}, cfg.Include)
	assert.Equal(t, 0.1, cfg.SpacingTolerance)
	assert.False(t, cfg.Backup)
	assert.Len(t, cfg.Breakpoints, 5, "unset fields keep their defaults")
	assert.Equal(t, 0.05, cfg.BreakpointTolerance)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".utilify.yaml", `
breakpoints:
  - name: tablet
    minWidthPx: 700
tokensFiles:
  - path: tokens.json
    prefix: app
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Breakpoints, 1)
	assert.Equal(t, "tablet", cfg.Breakpoints[0].Name)
	assert.Equal(t, float64(700), cfg.Breakpoints[0].MinWidthPx)
	require.Len(t, cfg.TokensFiles, 1)
	assert.Equal(t, "tokens.json", cfg.TokensFiles[0].Path)
	assert.Equal(t, "app", cfg.TokensFiles[0].Prefix)

	table := cfg.BreakpointTable()
	name, err := table.Resolve(700)
	require.NoError(t, err)
	assert.Equal(t, "tablet", name)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "utilify.config.json", "{not json")
	_, err = config.Load(bad)
	assert.Error(t, err)

	txt := writeFile(t, dir, "config.txt", "whatever")
	_, err = config.Load(txt)
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	_, found := config.Discover(dir)
	assert.False(t, found)

	writeFile(t, dir, ".utilify.yml", "backup: false\n")
	path, found := config.Discover(dir)
	require.True(t, found)
	assert.Equal(t, filepath.Join(dir, ".utilify.yml"), path)
}

func TestBreakpointTableDefaultWhenEmpty(t *testing.T) {
	cfg := config.Config{}
	table := cfg.BreakpointTable()
	assert.True(t, table.IsBreakpoint("md"))
}
