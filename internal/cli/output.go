package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/vihar/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected operation or failed scenarios
	ExitCommandError = 2 // Command error (bad config, store unreachable, invalid paths)
)

// Error codes reported in CLIError.Code.
const (
	CodeValidation        = "E_VALIDATION"
	CodeNotFound          = "E_NOT_FOUND"
	CodeInvalidCredential = "E_INVALID_CREDENTIAL"
	CodeAdminRequired     = "E_ADMIN_REQUIRED"
	CodeLoginRequired     = "E_LOGIN_REQUIRED"
	CodeConfig            = "E_CONFIG"
	CodeStore             = "E_STORE"
	CodeTestFailed        = "E_TEST_FAILED"
	CodeInternal          = "E_INTERNAL"
)

var (
	errAdminRequired = errors.New("this command requires an admin session (vihar login --role admin)")
	errLoginRequired = errors.New("this command requires a session (vihar login)")
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set once the error has been written through an
	// OutputFormatter, so main does not print it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsReported reports whether err was already written to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // E_VALIDATION, E_NOT_FOUND, ...
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// textRenderer is implemented by payloads with a human-readable form.
type textRenderer interface {
	renderText(w io.Writer)
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	if r, ok := data.(textRenderer); ok {
		r.renderText(f.Writer)
		return nil
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail writes err in the configured format and returns an ExitError that
// carries the matching exit code and is marked as reported.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)
	var details interface{}
	var ve *model.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		details = map[string]string{"field": ve.Field}
	}
	if werr := f.Error(code, err.Error(), details); werr != nil {
		return werr
	}
	return &ExitError{Code: exit, Message: code, Err: err, Reported: true}
}

// classify maps an error onto a response code and an exit code.
func classify(err error) (string, int) {
	var exitErr *ExitError
	switch {
	case model.IsValidation(err):
		return CodeValidation, ExitFailure
	case errors.Is(err, model.ErrNotFound):
		return CodeNotFound, ExitFailure
	case errors.Is(err, model.ErrInvalidCredential):
		return CodeInvalidCredential, ExitFailure
	case errors.Is(err, errAdminRequired):
		return CodeAdminRequired, ExitFailure
	case errors.Is(err, errLoginRequired):
		return CodeLoginRequired, ExitFailure
	case errors.Is(err, errConfig):
		return CodeConfig, ExitCommandError
	case errors.Is(err, errStore):
		return CodeStore, ExitCommandError
	case errors.As(err, &exitErr):
		return CodeInternal, exitErr.Code
	default:
		return CodeInternal, ExitFailure
	}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
