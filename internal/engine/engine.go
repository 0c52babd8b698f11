// Package engine is the boundary to the build-graph engine that loads and
// executes the build script once the environment is prepared. The default
// implementation interprets the script with yaegi; tests swap in a fake.
package engine

import (
	"context"
)

// Engine runs the build graph for an already-prepared environment and
// returns the build's exit status.
type Engine interface {
	Execute(ctx context.Context, scriptPath string, searchPaths []string, targets []string) (int, error)
}
