package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

// commandResult captures one execution of the root command.
type commandResult struct {
	stdout string
	stderr string
	err    error
}

// runCommand executes a fresh root command with args, capturing its output.
func runCommand(t *testing.T, args ...string) commandResult {
	t.Helper()
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	err := execute(root, args)

	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
