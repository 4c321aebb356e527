package port

import "context"

// Runner executes an external measurement tool and returns its stdout.
type Runner interface {
	// Run executes name with args under ctx. When ctx expires the
	// process is killed; whatever stdout was produced so far is returned
	// alongside the error so callers can salvage partial results.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath resolves a tool on PATH.
	LookPath(name string) (string, error)
}
