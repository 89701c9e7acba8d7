package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdtree/pkg/api"
)

func writeConfigTOML(t *testing.T, dir, backend string) string {
	t.Helper()
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"
[cache]
backend = "` + backend + `"
`
	if err := os.WriteFile(cfg, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfg
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderStdin(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir(), "mem")
	out, err := run(t, "# Hello\n\n- a\n- b", "--config", cfg, "render")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<div><h1>Hello</h1><ul>"), out)
	assert.Equal(t, 2, strings.Count(out, "<li>"))
	assert.True(t, strings.HasSuffix(out, "</ul></div>\n"), out)
}

func TestRenderFileToOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfigTOML(t, dir, "sqlite")
	src := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(src, []byte("<b>x</b> **y**"), 0o600))
	dst := filepath.Join(dir, "doc.html")

	out, err := run(t, "", "--config", cfg, "render", src, "-o", dst, "--sanitize")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+dst)
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<strong>y</strong>")
	assert.FileExists(t, filepath.Join(dir, "mdtree.db"))
}

func TestRenderMissingFile(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir(), "off")
	_, err := run(t, "", "--config", cfg, "render", "/no/such/file.md")
	assert.Error(t, err)
}

func TestTreeFormats(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir(), "off")

	out, err := run(t, "*a*", "--config", cfg, "tree", "--format", "json")
	require.NoError(t, err)
	var root api.Node
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "Document", root.Type)
	assert.Equal(t, "Emphasis", root.Children[0].Children[0].Type)

	out, err = run(t, "*a*", "--config", cfg, "tree", "-f", "ndjson")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)

	out, err = run(t, "*a*", "--config", cfg, "tree")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "type"))
	assert.Contains(t, out, "    Emphasis")

	out, err = run(t, "*a*", "--config", cfg, "tree", "--syntax")
	require.NoError(t, err)
	assert.Contains(t, out, "EmphasisMark [0,1)")
	assert.NotContains(t, out, "Text")

	_, err = run(t, "*a*", "--config", cfg, "tree", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestTreeExtensionsFlag(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir(), "off")
	out, err := run(t, "~~x~~", "--config", cfg, "--extensions", "table", "tree", "-f", "ndjson")
	require.NoError(t, err)
	assert.NotContains(t, out, "Strikethrough")

	out, err = run(t, "~~x~~", "--config", cfg, "tree", "-f", "ndjson")
	require.NoError(t, err)
	assert.Contains(t, out, "Strikethrough")
}

func TestPreview(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir(), "off")
	out, err := run(t, "# Title\n\nsome body", "--config", cfg, "preview", "--style", "notty", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "some body")
}

func TestInvalidConfigFails(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir(), "redis")
	_, err := run(t, "x", "--config", cfg, "render")
	assert.ErrorContains(t, err, "cache.backend")
}

func TestConfigGenerateAndCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdtree", "config.toml")

	out, err := run(t, "", "config", "generate", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run(t, "", "config", "generate", "-o", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, "", "config", "generate", "-o", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")

	out, err = run(t, "", "config", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config OK")

	out, err = run(t, "", "config", "generate", "-o", path, "--overwrite")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup: "+path+".bak")
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := run(t, "", "completion", shell)
		require.NoError(t, err, shell)
		assert.Contains(t, out, "mdtree", shell)
	}
	_, err := run(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
