package workspace_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utilify.dev/utilify/internal/config"
	"utilify.dev/utilify/internal/workspace"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

func newRunner(root string) (*workspace.Runner, *bytes.Buffer) {
	runner := workspace.New(root, config.Default())
	var out bytes.Buffer
	runner.Out = &out
	return runner, &out
}

func TestRunConvertsCSS(t *testing.T) {
	root := t.TempDir()
	write(t, root, "styles.css", `.card {
  padding: 16px;
  box-shadow: 0 1px 2px black;
}
`)

	runner, _ := newRunner(root)
	summary, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	assert.Equal(t, 1, summary.FilesChanged)
	assert.Equal(t, 1, summary.RulesPartial)

	after := read(t, root, "styles.css")
	assert.NotContains(t, after, "padding")
	assert.Contains(t, after, "box-shadow")

	backup := read(t, root, "styles.css.bak")
	assert.Contains(t, backup, "padding: 16px")
}

// TestRunCrossFileVariables: a definition in one file resolves a reference
// in another, regardless of scan order.
func TestRunCrossFileVariables(t *testing.T) {
	root := t.TempDir()
	write(t, root, "z-theme.css", ":root { --brand: #3b82f6; }\n")
	write(t, root, "a-page.css", ".cta { background-color: var(--brand); }\n")

	runner, _ := newRunner(root)
	summary, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.RulesConverted)
	assert.Contains(t, summary.EmptyFiles, "a-page.css")
	assert.NotContains(t, read(t, root, "z-theme.css"), "cta")
}

func TestRunConvertsHTML(t *testing.T) {
	root := t.TempDir()
	write(t, root, "index.html", `<html><head><style>
.card { padding: 16px; }
</style></head><body><div class="card">x</div></body></html>`)

	runner, _ := newRunner(root)
	summary, err := runner.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesChanged)

	after := read(t, root, "index.html")
	assert.Contains(t, after, `class="card p-4"`)
	assert.NotContains(t, after, "padding: 16px")
}

func TestRunReportsJS(t *testing.T) {
	root := t.TempDir()
	source := "const styles = css`.badge { display: flex; }`;\n"
	write(t, root, "app.js", source)

	runner, out := newRunner(root)
	_, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, source, read(t, root, "app.js"), "JS sources are never modified")
	assert.Contains(t, out.String(), "flex")
}

func TestRunPreviewWritesNothing(t *testing.T) {
	root := t.TempDir()
	source := ".card { padding: 16px; }\n"
	write(t, root, "styles.css", source)

	runner, out := newRunner(root)
	runner.Preview = true
	summary, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesChanged)
	assert.Equal(t, source, read(t, root, "styles.css"))
	assert.Contains(t, out.String(), "-.card { padding: 16px; }")
	_, err = os.Stat(filepath.Join(root, "styles.css.bak"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunHonorsExcludes(t *testing.T) {
	root := t.TempDir()
	write(t, root, "node_modules/lib/styles.css", ".x { display: flex; }\n")
	write(t, root, "vendored.min.css", ".x{display:flex}\n")

	runner, _ := newRunner(root)
	summary, err := runner.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.FilesScanned)
}

func TestRunNoBackup(t *testing.T) {
	root := t.TempDir()
	write(t, root, "styles.css", ".card { display: flex; }\n")

	cfg := config.Default()
	cfg.Backup = false
	runner := workspace.New(root, cfg)
	var out bytes.Buffer
	runner.Out = &out

	_, err := runner.Run()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "styles.css.bak"))
	assert.True(t, os.IsNotExist(err))
}

func TestReport(t *testing.T) {
	runner, out := newRunner(t.TempDir())
	runner.Report(&workspace.Summary{
		FilesScanned:   3,
		FilesChanged:   2,
		RulesConverted: 5,
		Warnings:       []string{"styles.css: something"},
	})
	text := out.String()
	assert.Contains(t, text, "3 files scanned, 2 changed")
	assert.Contains(t, text, "5 converted")
	assert.Contains(t, text, "warning: styles.css: something")
}
