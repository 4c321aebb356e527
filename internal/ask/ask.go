// Package ask hands a stored disk usage report to a conversational AI
// CLI (claude or codex) together with a free-form question.
package ask

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/duskscan/dusk/internal/docker"
	"github.com/duskscan/dusk/internal/domain"
)

// Tool selects which AI CLI answers the question.
type Tool string

const (
	ToolClaude Tool = "claude"
	ToolCodex  Tool = "codex"
)

// Run builds the prompt and execs the chosen tool with inherited stdio
// so its output streams straight to the terminal.
func Run(ctx context.Context, scan *domain.ScanResult, dockerReport *docker.Report, tool Tool, question string) error {
	bin, err := exec.LookPath(string(tool))
	if err != nil {
		return fmt.Errorf("%s CLI not found, install it first: %w", tool, err)
	}

	var dockerText string
	if dockerReport != nil {
		dockerText = FormatDockerText(dockerReport)
	}
	prompt := BuildPrompt(scan, dockerText, question)

	var args []string
	if tool == ToolClaude {
		args = []string{
			"--allowedTools", "WebSearch", "WebFetch",
			"--tools", "WebSearch,WebFetch",
			"-p", prompt,
		}
	} else {
		args = []string{"-p", prompt}
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
