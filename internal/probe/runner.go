package probe

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/duskscan/dusk/internal/port"
)

// ExecRunner runs measurement tools as child processes.
type ExecRunner struct{}

// Ensure ExecRunner implements port.Runner
var _ port.Runner = (*ExecRunner)(nil)

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the tool and returns its stdout. On context expiry the
// process is killed and the partial output is returned with the error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	err := cmd.Run()
	return stdout.Bytes(), err
}

// LookPath resolves a tool on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
