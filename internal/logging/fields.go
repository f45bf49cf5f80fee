// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig  = "config"
	FieldFormat  = "format"
	FieldJobs    = "jobs"
	FieldDefines = "defines"

	// Compilation fields.
	FieldFileType   = "file_type"
	FieldLanguage   = "language"
	FieldDetected   = "detected"
	FieldTokens     = "tokens"
	FieldDirectives = "directives"
	FieldWarnings   = "warnings"
	FieldGuard      = "guard"
	FieldIdentity   = "identity"
	FieldEncoding   = "encoding"
	FieldDuration   = "duration"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesSkipped     = "files_skipped"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
