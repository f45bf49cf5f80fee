package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/yaklabco/duic/pkg/preprocessor"
	"github.com/yaklabco/duic/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Tool    string           `json:"tool"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	FileType    string           `json:"fileType,omitempty"`
	Detected    bool             `json:"detected,omitempty"`
	Guard       string           `json:"guard,omitempty"`
	GuardMacro  string           `json:"guardMacro,omitempty"`
	Tokens      int              `json:"tokens"`
	Directives  int              `json:"directives"`
	Includes    []JSONInclude    `json:"includes,omitempty"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Skipped     bool             `json:"skipped,omitempty"`
	SkipReason  string           `json:"skipReason,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONInclude represents one #include directive.
type JSONInclude struct {
	Path     string `json:"path"`
	System   bool   `json:"system"`
	Line     int    `json:"line"`
	Resolved string `json:"resolved,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Lexeme   string `json:"lexeme,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int            `json:"filesDiscovered"`
	FilesCompiled   int            `json:"filesCompiled"`
	FilesSkipped    int            `json:"filesSkipped"`
	FilesFailed     int            `json:"filesFailed"`
	FilesErrored    int            `json:"filesErrored"`
	FilesWithIssues int            `json:"filesWithIssues"`
	TotalIssues     int            `json:"totalIssues"`
	Tokens          int            `json:"tokens"`
	Directives      int            `json:"directives"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Tool:    r.opts.ToolVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesCompiled:   stats.FilesProcessed,
		FilesSkipped:    stats.FilesSkipped,
		FilesFailed:     stats.FilesFailed,
		FilesErrored:    stats.FilesErrored,
		FilesWithIssues: stats.FilesWithIssues,
		TotalIssues:     stats.DiagnosticsTotal,
		Tokens:          stats.TokensTotal,
		Directives:      stats.DirectivesTotal,
		BySeverity:      make(map[string]int, len(stats.DiagnosticsBySeverity)),
	}
	maps.Copy(output.Summary.BySeverity, stats.DiagnosticsBySeverity)

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for i := range result.Files {
		output.Files = append(output.Files, r.buildFile(&result.Files[i]))
	}

	return output
}

func (r *JSONReporter) buildFile(outcome *runner.FileOutcome) JSONFileResult {
	file := JSONFileResult{
		Path:        displayPath(outcome.Path, r.opts.WorkingDir),
		Diagnostics: make([]JSONDiagnostic, 0),
		Skipped:     outcome.Skipped,
		SkipReason:  outcome.SkipReason,
	}

	if outcome.Error != nil {
		file.Error = outcome.Error.Error()
	}

	if unit := outcome.Unit; unit != nil {
		if f := unit.File(); f != nil {
			file.FileType = f.Type.String()
		}
		file.Detected = unit.Classification.Detected
		file.Tokens = len(unit.Tokens)
		file.Directives = unit.Directives
		if unit.Guarded() {
			file.Guard = unit.Guard.Kind.String()
			file.GuardMacro = unit.Guard.Macro
		}
		for _, inc := range unit.Includes {
			file.Includes = append(file.Includes, JSONInclude{
				Path:     inc.Path,
				System:   inc.Style == preprocessor.IncludeSystem,
				Line:     inc.Node.Origin().Line(),
				Resolved: displayPath(inc.Resolved, r.opts.WorkingDir),
			})
		}
	}

	// A read error is already reported in the Error field.
	if outcome.Error != nil {
		return file
	}

	for _, d := range outcome.Diagnostics() {
		file.Diagnostics = append(file.Diagnostics, JSONDiagnostic{
			Code:     d.Code,
			Name:     d.Name,
			Severity: string(d.Severity),
			Category: d.Category.String(),
			Message:  d.Message,
			Line:     d.Line,
			Column:   d.Column,
			Lexeme:   d.Lexeme,
		})
	}

	return file
}
