package cli_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "duic", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	tests := []struct {
		arg  string
		want string
	}{
		{arg: "compile", want: "compile"},
		{arg: "check", want: "compile"},
		{arg: "dump", want: "dump"},
		{arg: "init", want: "init"},
		{arg: "version", want: "version"},
	}

	for _, tt := range tests {
		sub, _, err := cmd.Find([]string{tt.arg})
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, sub.Name())
	}
}

func TestCompileCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	for _, name := range []string{
		"format", "jobs", "ignore", "define", "include-dir", "dui-ext", "pp-ext",
		"strict", "out", "debug-parsing", "validate-trees", "no-detect",
		"no-context", "compact", "verbose",
	} {
		assert.NotNil(t, compileCmd.Flags().Lookup(name), "flag %q", name)
	}

	assert.Equal(t, "D", compileCmd.Flags().Lookup("define").Shorthand)
	assert.Equal(t, "I", compileCmd.Flags().Lookup("include-dir").Shorthand)
	assert.Contains(t, compileCmd.Annotations, "exitcodes")

	require.NoError(t, compileCmd.Args(compileCmd, []string{"a.dui", "include/", "views"}))
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "config", "color", "nologo"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "duic")
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "issues", err: &cli.ExitError{Code: cli.ExitDiagnostics, Err: cli.ErrIssuesFound}, want: cli.ExitDiagnostics},
		{name: "wrapped exit error", err: errors.Join(errors.New("outer"), &cli.ExitError{Code: cli.ExitConfigError, Err: errors.New("bad")}), want: cli.ExitConfigError},
		{name: "plain error", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "root", args: []string{"--help"}, want: []string{"Usage:", "Commands:", "compile", "--nologo", "Environment:", "DUIC_INCLUDE_DIRS"}},
		{name: "compile", args: []string{"compile", "--help"}, want: []string{"Aliases:", "check", "--include-dir", "Global Flags:", "Exit Codes:", "74  file I/O error"}},
		{name: "dump", args: []string{"dump", "--help"}, want: []string{"dump tokens|tree FILE", "--xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
			assert.NotContains(t, out.String(), "\x1b[", "help to a buffer is uncolored")
		})
	}
}
