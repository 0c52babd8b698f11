package engine

import "context"

// ExecuteCall records one Execute invocation on a Fake.
type ExecuteCall struct {
	ScriptPath  string
	SearchPaths []string
	Targets     []string
}

// Fake is a recording Engine for tests.
type Fake struct {
	// Code is returned as the exit status of every Execute call.
	Code int
	// Err, when set, is returned alongside Code.
	Err error

	Calls []ExecuteCall
}

func (f *Fake) Execute(ctx context.Context, scriptPath string, searchPaths []string, targets []string) (int, error) {
	f.Calls = append(f.Calls, ExecuteCall{
		ScriptPath:  scriptPath,
		SearchPaths: append([]string(nil), searchPaths...),
		Targets:     append([]string(nil), targets...),
	})
	return f.Code, f.Err
}
