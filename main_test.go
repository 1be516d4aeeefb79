package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { configPath, devMode = "", false })

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenerateCommandDevMode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "story.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"palette": {"name": "Test", "items": [{"hex": "#112233"}, {"hex": "#D8D2C4"}]},
		"room": "kitchen",
		"style": "modern"
	}`), 0o644))

	out, err := runRoot(t, "--dev", "--config", filepath.Join(dir, "missing.yaml"),
		"generate", "--input", input, "--as", "user-1")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{24}\n$`), out)
}

func TestGenerateCommandRejectsBadPalette(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "story.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"palette": {"items": []}}`), 0o644))

	_, err := runRoot(t, "--dev", "--config", "", "generate", "--input", input, "--as", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paletteName")
}

func TestGenerateCommandRequiresFlags(t *testing.T) {
	_, err := runRoot(t, "--dev", "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestVersionCommand(t *testing.T) {
	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
