package probe

import (
	"context"
	"os/exec"
	"slices"
)

// fakeRunner implements port.Runner for testing. Outputs and errors are
// matched by tool name, or per call via runFn when set; unknown tools
// report as missing from PATH.
type fakeRunner struct {
	outputs map[string][]byte
	errs    map[string]error
	missing map[string]bool
	runFn   func(name string, args ...string) ([]byte, error)
	calls   [][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string][]byte{},
		errs:    map[string]error{},
		missing: map[string]bool{},
	}
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.runFn != nil {
		return f.runFn(name, args...)
	}
	return f.outputs[name], f.errs[name]
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

func (f *fakeRunner) calledWith(name string) []string {
	for _, call := range f.calls {
		if call[0] == name {
			return call
		}
	}
	return nil
}

func (f *fakeRunner) called(name string) bool {
	return f.calledWith(name) != nil
}

func hasArg(call []string, arg string) bool {
	return slices.Contains(call, arg)
}
