package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/CodeMonkeyCybersecurity/intarr/pkg/intarr"
	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

func TestRootCommand_Success(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "original order",
			args:     []string{"5; 2; 5; 5; 6; 6; 10", "o"},
			expected: "Input: 5; 2; 5; 5; 6; 6; 10\nOutput: 2; 5; 6; 5; 2; 6; 10\n",
		},
		{
			name:     "ascending order",
			args:     []string{"5; 2; 5; 5; 6; 6; 10", "a"},
			expected: "Input: 5; 2; 5; 5; 6; 6; 10\nOutput: 2; 5; 6; 2; 5; 6; 10\n",
		},
		{
			name:     "descending order",
			args:     []string{"5; 2; 5; 5; 6; 6; 10", "d"},
			expected: "Input: 5; 2; 5; 5; 6; 6; 10\nOutput: 2; 5; 6; 10; 6; 5; 2\n",
		},
		{
			name:     "order flag defaults to original",
			args:     []string{" 3 ; 3; -1"},
			expected: "Input:  3 ; 3; -1\nOutput: 1; 3; 3; 3; -1\n",
		},
		{
			name:     "empty input",
			args:     []string{"", "a"},
			expected: "Input: \nOutput: 0; 0; 0\n",
		},
		{
			name:     "leading negative number",
			args:     []string{"-3; 7; -3", "o"},
			expected: "Input: -3; 7; -3\nOutput: 1; -3; -3; -3; 7\n",
		},
		{
			name:     "single negative number",
			args:     []string{"-5"},
			expected: "Input: -5\nOutput: 0; 0; 0; -5\n",
		},
		{
			name:     "leading negative with flags around it",
			args:     []string{"--log-level", "error", "-1; 2; -1", "a", "--no-color"},
			expected: "Input: -1; 2; -1\nOutput: 1; -1; -1; -1; 2\n",
		},
		{
			name:     "leading negative after double dash",
			args:     []string{"--", "-1; 2; -1", "a"},
			expected: "Input: -1; 2; -1\nOutput: 1; -1; -1; -1; 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCommand(t, tt.args...)

			require.NoError(t, res.err)
			assert.Equal(t, tt.expected, res.stdout)
			assert.Empty(t, res.stderr)
		})
	}
}

func TestRootCommand_MissingInput(t *testing.T) {
	res := runCommand(t)

	require.Error(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, `Usage: intarr "input_string" [o|a|d]`)
	assert.Contains(t, res.stderr, "  o - Original order")

	var usageErr *intarr.UsageError
	assert.True(t, errors.As(res.err, &usageErr))
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	res := runCommand(t, "1; 2", "o", "extra")

	require.Error(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "accepts at most 2 arg(s), received 3")

	var usageErr *intarr.UsageError
	assert.True(t, errors.As(res.err, &usageErr))
}

func TestRootCommand_InvalidOrderFlag(t *testing.T) {
	for _, flag := range []string{"x", "", "A", "asc"} {
		t.Run(strconv.Quote(flag), func(t *testing.T) {
			res := runCommand(t, "1; 2; 2", flag)

			require.Error(t, res.err)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, "invalid order type, use 'o', 'a', or 'd'")
			assert.True(t, errors.Is(res.err, types.ErrInvalidOrderMode))
		})
	}
}

func TestRootCommand_ParseError(t *testing.T) {
	res := runCommand(t, "5; abc; 2", "o")

	require.Error(t, res.err)
	assert.Empty(t, res.stdout, "no partial output on parse failure")
	assert.Contains(t, res.stderr, `Error processing input: invalid integer "abc" at field 2`)

	var parseErr *intarr.ParseError
	require.True(t, errors.As(res.err, &parseErr))
	assert.Equal(t, "abc", parseErr.Token)
}

func TestRootCommand_WordInputIsParsed(t *testing.T) {
	for _, input := range []string{"version", "help"} {
		t.Run(input, func(t *testing.T) {
			res := runCommand(t, input)

			require.Error(t, res.err)
			assert.Empty(t, res.stdout)

			var parseErr *intarr.ParseError
			require.True(t, errors.As(res.err, &parseErr))
			assert.Equal(t, input, parseErr.Token)
		})
	}
}

func TestRootCommand_JSONOutput(t *testing.T) {
	res := runCommand(t, "--output", "json", "5; 2; 5; 5; 6; 6; 10", "a")
	require.NoError(t, res.err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &summary))
	assert.Equal(t, "ascending", summary["mode"])
	assert.Equal(t, "2; 5; 6; 2; 5; 6; 10", summary["output"])
	assert.Equal(t, []interface{}{float64(5), float64(6)}, summary["duplicates"])
}

func TestRootCommand_YAMLOutputFromEnv(t *testing.T) {
	t.Setenv("INTARR_OUTPUT", "yaml")

	res := runCommand(t, "4; 4; 1", "d")
	require.NoError(t, res.err)

	var summary map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &summary))
	assert.Equal(t, "descending", summary["mode"])
	assert.Equal(t, "1; 4; 4; 4; 1", summary["output"])
}

func TestRootCommand_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"output format", []string{"--output", "csv", "1"}, "invalid output format"},
		{"log format", []string{"--log-format", "xml", "1"}, "invalid log format"},
		{"log level", []string{"--log-level", "loud", "1"}, "failed to initialize logger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCommand(t, tt.args...)

			require.Error(t, res.err)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, tt.message)
		})
	}
}

func TestRootCommand_UnknownFlag(t *testing.T) {
	res := runCommand(t, "--bogus", "1; 2")

	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "unknown flag: --bogus")
}

func TestRootCommand_VersionFlag(t *testing.T) {
	res := runCommand(t, "--version")

	require.NoError(t, res.err)
	assert.Equal(t, "intarr dev\n", res.stdout)
}

func TestSeparatePositionals(t *testing.T) {
	flags := newRootCmd(io.Discard, io.Discard).PersistentFlags()

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "non-negative input is untouched",
			args:     []string{"--output", "json", "1; 2", "a"},
			expected: []string{"--output", "json", "1; 2", "a"},
		},
		{
			name:     "negative input moves behind terminator",
			args:     []string{"-1; 2", "a"},
			expected: []string{"--", "-1; 2", "a"},
		},
		{
			name:     "flag values stay with their flags",
			args:     []string{"-1; 2", "--output", "yaml", "d", "--telemetry"},
			expected: []string{"--output", "yaml", "--telemetry", "--", "-1; 2", "d"},
		},
		{
			name:     "inline flag value",
			args:     []string{"--output=json", "- 4; 4"},
			expected: []string{"--output=json", "--", "- 4; 4"},
		},
		{
			name:     "existing terminator is kept once",
			args:     []string{"--no-color", "--", "-2", "o"},
			expected: []string{"--no-color", "--", "-2", "o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, separatePositionals(flags, tt.args))
		})
	}
}
