package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/runner"
)

// Exit codes for duic, following sysexits where one applies.
const (
	// ExitSuccess indicates successful execution with no errors.
	ExitSuccess = 0

	// ExitDiagnostics indicates compilation completed but reported errors.
	ExitDiagnostics = 1

	// ExitWarnings indicates compilation reported warnings in strict mode.
	ExitWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrIssuesFound is returned when compilation reports diagnostics that
// fail the run. It is a signal for the exit code and is not logged.
var ErrIssuesFound = errors.New("compilation reported issues")

// ExitError carries a process exit code alongside the error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withCode wraps err with an exit code; nil stays nil.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// usageErrorf builds an ExitInvalidUsage error.
func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitInvalidUsage, Err: fmt.Errorf(format, args...)}
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	errCount := result.Stats.DiagnosticsBySeverity[string(diag.SeverityError)]
	warnings := result.Stats.DiagnosticsBySeverity[string(diag.SeverityWarning)]

	if errCount > 0 {
		return ExitDiagnostics
	}

	if strict && warnings > 0 {
		return ExitWarnings
	}

	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
