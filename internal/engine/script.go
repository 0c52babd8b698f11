package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/kraken-build/krakenw/internal/ctxlog"
)

// buildFuncName is the entrypoint every build script must define:
//
//	func Build(targets []string) error
const buildFuncName = "Build"

// ScriptEngine interprets the build script in-process. Search-path
// directories from the requirement spec are linked into the interpreter's
// GoPath here, in the process that finally executes the script.
type ScriptEngine struct {
	// GoPath is the environment's package directory the interpreter
	// resolves imports from.
	GoPath string

	Stdout io.Writer
	Stderr io.Writer
}

func (e *ScriptEngine) Execute(ctx context.Context, scriptPath string, searchPaths []string, targets []string) (int, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("executing build script", "script", scriptPath, "targets", targets)

	if err := e.linkSearchPaths(filepath.Dir(scriptPath), searchPaths); err != nil {
		return 1, err
	}

	stdout, stderr := e.Stdout, e.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	i := interp.New(interp.Options{GoPath: e.GoPath, Stdout: stdout, Stderr: stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		return 1, fmt.Errorf("engine: load stdlib symbols: %w", err)
	}
	if _, err := i.EvalPath(scriptPath); err != nil {
		return 1, fmt.Errorf("engine: interpret %s: %w", scriptPath, err)
	}

	fn, err := i.Eval(buildFuncName)
	if err != nil {
		return 1, fmt.Errorf("engine: %s must define %s(targets []string) error: %w", scriptPath, buildFuncName, err)
	}
	if err := invokeBuild(fn, targets); err != nil {
		return 1, fmt.Errorf("build failed: %w", err)
	}
	return 0, nil
}

// linkSearchPaths makes the extra search-path directories resolvable by the
// interpreter by linking them into GoPath/src.
func (e *ScriptEngine) linkSearchPaths(projectDir string, searchPaths []string) error {
	if e.GoPath == "" || len(searchPaths) == 0 {
		return nil
	}
	srcDir := filepath.Join(e.GoPath, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return fmt.Errorf("engine: prepare search paths: %w", err)
	}
	for _, path := range searchPaths {
		target := path
		if !filepath.IsAbs(target) {
			target = filepath.Join(projectDir, target)
		}
		link := filepath.Join(srcDir, filepath.Base(path))
		if err := os.Symlink(target, link); err != nil && !os.IsExist(err) {
			return fmt.Errorf("engine: link search path %s: %w", path, err)
		}
	}
	return nil
}

// invokeBuild calls the script's Build function with the selected targets.
func invokeBuild(value reflect.Value, targets []string) error {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return fmt.Errorf("%s is not a function", buildFuncName)
	}
	t := value.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 {
		return fmt.Errorf("%s must have signature func(targets []string) error", buildFuncName)
	}
	results := value.Call([]reflect.Value{reflect.ValueOf(targets)})
	if results[0].IsNil() {
		return nil
	}
	if err, ok := results[0].Interface().(error); ok {
		return err
	}
	return fmt.Errorf("%s returned a non-error value", buildFuncName)
}
