package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_CleanCorpus(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.md": "---\ndatabase_id: pseudo-a\ntitle: A\n---\n# A\n",
		"b.md": "---\ndatabase_id: pseudo-b\ntitle: B\n---\n# B\n",
	})

	out, err := runCommand(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 articles OK")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"good.md":     "---\ndatabase_id: pseudo-g\ntitle: G\n---\n# G\n",
		"no-title.md": "---\ndatabase_id: pseudo-n\n---\nbody\n",
		"no-fm.md":    "# bare\n",
	})

	out, err := runCommand(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Both problems reported, not just the first.
	assert.Contains(t, out, "no-title.md")
	assert.Contains(t, out, "no-fm.md")
}

func TestValidate_EmptyDirIsCommandError(t *testing.T) {
	_, err := runCommand(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_JSONOutput(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.md": "---\ndatabase_id: pseudo-a\ntitle: A\n---\n# A\n",
	})

	out, err := runCommand(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_ConfigSuppliesDir(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.md": "---\ndatabase_id: pseudo-a\ntitle: A\n---\n# A\n",
	})
	cfgPath := filepath.Join(t.TempDir(), "kbsync.cue")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
contentDir:  "`+dir+`"
owner:       "acme"
repo:        "help"
category:    "Troubleshooting"
siteBaseURL: "https://help.acme.dev"
`), 0o644))

	out, err := runCommand(t, "validate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 articles OK")
}
