package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	code, err := run(&out, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "krakenw")
}

func TestRunEnvStatusSmoke(t *testing.T) {
	projectDir := t.TempDir()
	script := "// ::requirements pkg-a==1.0\npackage main\n\nfunc Build(targets []string) error { return nil }\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".kraken.go"), []byte(script), 0644))

	var out bytes.Buffer
	code, err := run(&out, []string{"-p", projectDir, "env", "status"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "requirements hash:")
}

func TestRunMissingBuildScript(t *testing.T) {
	var out bytes.Buffer
	code, err := run(&out, []string{"-p", t.TempDir(), "env", "status"})
	require.Error(t, err)
	assert.Equal(t, 1, code)
}
