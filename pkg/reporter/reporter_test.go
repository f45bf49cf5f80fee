package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/pkg/compiler"
	"github.com/yaklabco/duic/pkg/reporter"
	"github.com/yaklabco/duic/pkg/runner"
)

// compileTree writes files under a temp dir, runs the compiler over it, and
// returns the dir and result.
func compileTree(t *testing.T, files map[string]string) (string, *runner.Result) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	r := runner.New(compiler.NewEngine(compiler.DefaultOptions()))
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	return dir, result
}

// mixedTree has one markup error and one header warning.
func mixedTree() map[string]string {
	return map[string]string{
		"main.dui": "#import \"x\"\n<Root/>\n",
		"defs.h":   "#ifndef DEFS_H\n#define DEFS_H\n#import \"x\"\n#include <sys.h>\n#endif\n",
		"ok.uix":   "<Panel/>\n",
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "case insensitive", input: "SARIF", want: reporter.FormatSARIF},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}

	assert.False(t, reporter.Format("table").IsValid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "sarif reporter", format: reporter.FormatSARIF},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to compile")
}

func TestTextReporter_Diagnostics(t *testing.T) {
	t.Parallel()

	dir, result := compileTree(t, mixedTree())

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		WorkingDir:  dir,
	})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "defs.h (1 issue)")
	assert.Contains(t, out, "main.dui (1 issue)")
	assert.Contains(t, out, "main.dui:1:2  error")
	assert.Contains(t, out, "(DUI0307/unsupported-directive)")
	assert.Contains(t, out, "        #import \"x\"\n         ^\n")
	assert.Contains(t, out, "warning")
	assert.NotContains(t, out, "ok.uix")
	assert.NotContains(t, out, dir, "paths are relative to the working dir")
	assert.True(t, strings.HasSuffix(out, "2 issues (1 error, 1 warning) in 2 files\n"), out)
}

func TestTextReporter_FlatWithoutContext(t *testing.T) {
	t.Parallel()

	_, result := compileTree(t, mixedTree())

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.NotContains(t, out, "issue)")
	assert.NotContains(t, out, "^")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestTextReporter_VerboseListsSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "once.h"), []byte("#pragma once\n"), 0o644))
	if err := os.Symlink(filepath.Join(dir, "once.h"), filepath.Join(dir, "twice.h")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	r := runner.New(compiler.NewEngine(compiler.DefaultOptions()))
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		Verbose:     true,
		WorkingDir:  dir,
	})

	_, err = rep.Report(context.Background(), result)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "twice.h skipped: include-guarded file")
	assert.Contains(t, out, "Files skipped:")
	assert.Contains(t, out, "Compilation succeeded")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	dir, result := compileTree(t, mixedTree())

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: dir, ToolVersion: "1.2.3"})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.2.3", output.Tool)
	require.Len(t, output.Files, 3)

	defs := output.Files[0]
	assert.Equal(t, "defs.h", defs.Path)
	assert.Equal(t, "macro", defs.Guard)
	assert.Equal(t, "DEFS_H", defs.GuardMacro)
	require.Len(t, defs.Includes, 1)
	assert.Equal(t, reporter.JSONInclude{Path: "sys.h", System: true, Line: 4}, defs.Includes[0])
	require.Len(t, defs.Diagnostics, 1)
	assert.Equal(t, "warning", defs.Diagnostics[0].Severity)
	assert.Equal(t, "directive", defs.Diagnostics[0].Category)

	main := output.Files[1]
	assert.Equal(t, "main.dui", main.Path)
	require.Len(t, main.Diagnostics, 1)
	assert.Equal(t, "DUI0307", main.Diagnostics[0].Code)
	assert.Equal(t, 1, main.Diagnostics[0].Line)
	assert.Equal(t, 2, main.Diagnostics[0].Column)

	assert.Empty(t, output.Files[2].Diagnostics)
	assert.Positive(t, output.Files[2].Tokens)

	assert.Equal(t, 3, output.Summary.FilesCompiled)
	assert.Equal(t, 1, output.Summary.FilesFailed)
	assert.Equal(t, 2, output.Summary.TotalIssues)
	assert.Equal(t, map[string]int{"error": 1, "warning": 1}, output.Summary.BySeverity)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"files":[]`)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	dir, result := compileTree(t, mixedTree())

	var buf bytes.Buffer
	rep := reporter.NewSARIFReporter(reporter.Options{Writer: &buf, WorkingDir: dir, ToolVersion: "1.2.3"})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "2.1.0", output.Version)
	require.Len(t, output.Runs, 1)
	run := output.Runs[0]
	assert.Equal(t, "duic", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Tool.Driver.Rules, 1, "one rule per code")
	require.Len(t, run.Results, 2)

	warning := run.Results[0]
	assert.Equal(t, "warning", warning.Level)
	assert.Equal(t, "DUI0307", warning.RuleID)
	assert.Equal(t, 0, warning.RuleIndex)
	assert.Equal(t, "defs.h", warning.Locations[0].PhysicalLocation.ArtifactLocation.URI)

	failure := run.Results[1]
	assert.Equal(t, "error", failure.Level)
	assert.Equal(t, "DUI0307", failure.RuleID)
	assert.Equal(t, 0, failure.RuleIndex)
	assert.Equal(t, "DUI0307", run.Tool.Driver.Rules[failure.RuleIndex].ID)
	require.NotNil(t, failure.Locations[0].PhysicalLocation.Region)
	assert.Equal(t, 1, failure.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, 2, failure.Locations[0].PhysicalLocation.Region.StartColumn)
}

func TestSARIFReporter_RuleIndexPerCode(t *testing.T) {
	t.Parallel()

	dir, result := compileTree(t, map[string]string{
		"a.dui": "#import \"x\"\n<Root/>\n",
		"b.dui": "#bogus\n<Root/>\n",
		"c.dui": "#using \"y\"\n<Root/>\n",
	})

	var buf bytes.Buffer
	rep := reporter.NewSARIFReporter(reporter.Options{Writer: &buf, WorkingDir: dir})
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	run := output.Runs[0]

	require.Len(t, run.Tool.Driver.Rules, 2)
	assert.Equal(t, "DUI0307", run.Tool.Driver.Rules[0].ID)
	assert.Equal(t, "DUI0309", run.Tool.Driver.Rules[1].ID)

	require.Len(t, run.Results, 3)
	assert.Equal(t, []int{0, 1, 0}, []int{
		run.Results[0].RuleIndex, run.Results[1].RuleIndex, run.Results[2].RuleIndex,
	})
}
