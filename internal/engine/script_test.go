package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".kraken.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScriptEngineRunsBuild(t *testing.T) {
	script := writeScript(t, `package main

import "fmt"

func Build(targets []string) error {
	fmt.Println("building", len(targets), "targets")
	return nil
}
`)
	var out bytes.Buffer
	e := &ScriptEngine{Stdout: &out, Stderr: &out}
	code, err := e.Execute(context.Background(), script, nil, []string{"lint", "test"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "building 2 targets")
}

func TestScriptEngineBuildError(t *testing.T) {
	script := writeScript(t, `package main

import "errors"

func Build(targets []string) error {
	return errors.New("task failed")
}
`)
	e := &ScriptEngine{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	code, err := e.Execute(context.Background(), script, nil, nil)
	assert.Equal(t, 1, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task failed")
}

func TestScriptEngineMissingBuildFunc(t *testing.T) {
	script := writeScript(t, `package main

func NotBuild() {}
`)
	e := &ScriptEngine{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	code, err := e.Execute(context.Background(), script, nil, nil)
	assert.Equal(t, 1, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Build")
}

func TestScriptEngineLinksSearchPaths(t *testing.T) {
	projectDir := t.TempDir()
	script := filepath.Join(projectDir, ".kraken.go")
	require.NoError(t, os.WriteFile(script, []byte("package main\n\nfunc Build(targets []string) error { return nil }\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(projectDir, "build-support"), 0755))

	gopath := t.TempDir()
	e := &ScriptEngine{GoPath: gopath, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	code, err := e.Execute(context.Background(), script, []string{"build-support"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	link, err := os.Readlink(filepath.Join(gopath, "src", "build-support"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(projectDir, "build-support"), link)
}
