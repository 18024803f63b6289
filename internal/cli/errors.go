package cli

import (
	"errors"

	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/ops"
)

// Exit codes returned by the todo binary.
const (
	// ExitSuccess indicates successful completion.
	ExitSuccess = 0

	// ExitUserError indicates a user error (bad args, empty text, unknown id).
	ExitUserError = 1

	// ExitPersistenceError indicates the task list could not be loaded or saved.
	ExitPersistenceError = 3
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var perr *ops.PersistenceError
	if errors.As(err, &perr) {
		return ExitPersistenceError
	}
	return ExitUserError
}

// IsUserError reports whether err was caused by the user's input rather than
// by the environment.
func IsUserError(err error) bool {
	var verr *ops.ValidationError
	var nferr *ops.NotFoundError
	return errors.As(err, &verr) || errors.As(err, &nferr) || errors.Is(err, model.ErrInvalidID)
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}
