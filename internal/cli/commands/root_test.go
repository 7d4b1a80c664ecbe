package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePkg = "../../codegen/testdata/buildfile"

// execute runs the root command with colors disabled and captures both streams
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-color"))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "nodeview", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"version", "generate", "inspect", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "nodeview version: 1.0.0-test")
	assert.Contains(t, stdout, "abc123")
	assert.Contains(t, stdout, "go1.23")
}

func TestVersionCommand_IgnoresBrokenConfig(t *testing.T) {
	_, _, err := execute(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yml"))
	assert.NoError(t, err)
}

func TestRootCommand_ConfigError(t *testing.T) {
	_, stderr, err := execute(t, "inspect", "--config", filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)

	var reported *reportedError
	assert.ErrorAs(t, err, &reported)
	assert.Contains(t, stderr, "CONFIGURATION ERROR")
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nodeview")

	_, _, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestCompletionCommand_IgnoresBrokenConfig(t *testing.T) {
	stdout, stderr, err := execute(t, "completion", "zsh", "--config", filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "nodeview")
	assert.NotContains(t, stderr, "CONFIGURATION ERROR")
}
