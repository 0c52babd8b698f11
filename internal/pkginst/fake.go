package pkginst

import (
	"context"
	"strings"
	"sync"
)

// InstallCall records a single Install invocation on a Fake.
type InstallCall struct {
	TargetDir string
	Tokens    []string
	Flags     IndexFlags
}

// Fake is a recording in-memory Installer for tests. Versions are derived
// from "name==version" tokens; any other constraint resolves to 0.0.0 and
// local "name@path" references resolve to 0.0.0+local.
type Fake struct {
	mu sync.Mutex

	// Err, when set, is returned by Install to simulate collaborator failure.
	Err error

	// Frozen, when set, is returned by Freeze instead of the last install
	// result.
	Frozen Resolved

	Installs []InstallCall

	lastResolved Resolved
}

func (f *Fake) Install(ctx context.Context, targetDir string, tokens []string, flags IndexFlags) (Resolved, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Installs = append(f.Installs, InstallCall{TargetDir: targetDir, Tokens: append([]string(nil), tokens...), Flags: flags})
	if f.Err != nil {
		return nil, f.Err
	}
	resolved := Resolved{}
	for _, token := range tokens {
		resolved[PackageName(token)] = fakeVersion(token)
	}
	f.lastResolved = resolved
	return resolved, nil
}

func (f *Fake) Freeze(ctx context.Context, targetDir string) (Resolved, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Frozen != nil {
		return f.Frozen, nil
	}
	if f.lastResolved != nil {
		return f.lastResolved, nil
	}
	return Resolved{}, nil
}

// InstallCount returns how many times Install ran.
func (f *Fake) InstallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Installs)
}

func fakeVersion(token string) string {
	if _, version, ok := strings.Cut(token, "=="); ok {
		return version
	}
	if strings.Contains(token, "@") {
		return "0.0.0+local"
	}
	return "0.0.0"
}
