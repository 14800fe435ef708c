package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"-query", "deps(//lib:gen)"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "deps(//lib:gen)", cfg.Query)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.OutputFile)
	assert.NotEmpty(t, cfg.WorkDir)
}

func TestParse_AllFlags(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{
		"-q", "//lib:gen",
		"-output_file", "result.txt",
		"-save_analysis", "analysis.snap",
		"-workers", "8",
		"-log-format", "json",
		"-log-level", "debug",
		"/workspace",
	}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "//lib:gen", cfg.Query)
	assert.Equal(t, "/workspace", cfg.Root)
	assert.Equal(t, "result.txt", cfg.OutputFile)
	assert.Equal(t, "analysis.snap", cfg.SaveAnalysis)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_RootFlagBeatsPositional(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, _, err := Parse([]string{"-query", "//a:b", "-root", "/explicit", "/positional"}, out)
	require.NoError(t, err)
	assert.Equal(t, "/explicit", cfg.Root)
}

func TestParse_MissingQueryPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		msg  string
	}{
		{
			name: "bad log format",
			args: []string{"-query", "//a:b", "-log-format", "xml"},
			msg:  "invalid log-format",
		},
		{
			name: "bad log level",
			args: []string{"-query", "//a:b", "-log-level", "loud"},
			msg:  "invalid log-level",
		},
		{
			name: "bad workers",
			args: []string{"-query", "//a:b", "-workers", "0"},
			msg:  "invalid workers",
		},
		{
			name: "load and save together",
			args: []string{"-query", "//a:b", "-load_analysis", "a", "-save_analysis", "b"},
			msg:  "mutually exclusive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.msg)
		})
	}
}
