package runner

import (
	"github.com/yaklabco/duic/pkg/compiler"
	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/preprocessor"
)

// FileOutcome is the result of processing one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Identity is the symlink-resolved absolute path; empty if the file
	// could not be resolved.
	Identity string

	// Unit is the compilation result; nil if the file was skipped or
	// could not be read.
	Unit *compiler.Unit

	// Skipped is true if an include-guarded file with the same identity
	// was already compiled.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// Error is set if the file could not be read or classified.
	Error error
}

// Diagnostics returns the outcome's reportable records. A read error is
// reported as a single diagnostic against the path.
func (o *FileOutcome) Diagnostics() []diag.Diagnostic {
	if o.Error != nil {
		return []diag.Diagnostic{diag.FromError(o.Error, o.Path)}
	}
	if o.Unit == nil {
		return nil
	}
	return o.Unit.Diagnostics()
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files compiled, with or without errors.
	FilesProcessed int

	// FilesSkipped is the number of include-guarded duplicates skipped.
	FilesSkipped int

	// FilesErrored is the number of files that could not be read.
	FilesErrored int

	// FilesFailed is the number of compiled files with a fatal error.
	FilesFailed int

	// FilesGuarded is the number of compiled files with an include guard.
	FilesGuarded int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[string]int

	// FilesWithIssues is the number of files with at least one diagnostic.
	FilesWithIssues int

	// TokensTotal is the number of tokens produced across all files.
	TokensTotal int

	// DirectivesTotal is the number of directives parsed across all files.
	DirectivesTotal int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each discovered file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error

	// Guards records the include-guarded files of this run by identity.
	Guards *preprocessor.IncludeCache
}

// HasFailures reports whether any diagnostics with error severity occurred.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[string(diag.SeverityError)] > 0
}

// HasWarnings reports whether any warning diagnostics occurred.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[string(diag.SeverityWarning)] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// Diagnostics returns every diagnostic in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []diag.Diagnostic
	for i := range r.Files {
		out = append(out, r.Files[i].Diagnostics()...)
	}
	return out
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	diags := outcome.Diagnostics()
	r.Stats.DiagnosticsTotal += len(diags)
	if len(diags) > 0 {
		r.Stats.FilesWithIssues++
	}
	for _, d := range diags {
		severity := string(d.Severity)
		if severity == "" {
			severity = string(diag.SeverityError)
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Skipped:
		r.Stats.FilesSkipped++
	case outcome.Unit != nil:
		r.Stats.FilesProcessed++
		r.Stats.TokensTotal += len(outcome.Unit.Tokens)
		r.Stats.DirectivesTotal += outcome.Unit.Directives
		if outcome.Unit.Failed() {
			r.Stats.FilesFailed++
		}
		if outcome.Unit.Guarded() {
			r.Stats.FilesGuarded++
		}
	}
}
