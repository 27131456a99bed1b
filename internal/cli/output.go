package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/widget"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The remote action failed (server error, not found, unauthorized)
	ExitCommandError = 2 // Bad input or local setup (invalid flags, config, journal)
)

// Error codes reported in the output envelope.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Config file or environment problem
	ErrCodeInvalidInput = "E003" // Client-side validation failed
	ErrCodeRequest      = "E004" // Server or transport failure
	ErrCodeNotFound     = "E005" // Server answered 404
	ErrCodeUnauthorized = "E006" // Server answered 401
	ErrCodeJournal      = "E007" // Journal could not be opened or read
	ErrCodeProfile      = "E008" // Load profile invalid
	ErrCodeBusy         = "E009" // Widget already has a request in flight
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

// reported marks e as already written to the user.
func (e *ExitError) reported() *ExitError {
	e.Reported = true
	return e
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
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

// OutputFormatter handles text, JSON and YAML output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool

	// RequestID returns the X-Request-ID of the command's API call, if any.
	RequestID func() string
}

// CLIResponse is the standard structured response format for CLI output.
type CLIResponse struct {
	Status    string      `json:"status" yaml:"status"`                             // "ok" or "error"
	Data      interface{} `json:"data,omitempty" yaml:"data,omitempty"`             // success payload
	Error     *CLIError   `json:"error,omitempty" yaml:"error,omitempty"`           // error details
	RequestID string      `json:"request_id,omitempty" yaml:"request_id,omitempty"` // optional correlation id
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code" yaml:"code"`                           // "E001", "E002", etc.
	Message string      `json:"message" yaml:"message"`                     // human-readable message
	Details interface{} `json:"details,omitempty" yaml:"details,omitempty"` // additional context
}

// Structured reports whether output is machine-readable (json or yaml).
func (f *OutputFormatter) Structured() bool {
	return f.Format == "json" || f.Format == "yaml"
}

// Success outputs a successful result in the configured format.
// Text output prints data with fmt; commands with a richer text view render
// it themselves and only call Success for structured formats.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Structured() {
		return f.encode(CLIResponse{Status: "ok", Data: data, RequestID: f.requestID()})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Structured() {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			RequestID: f.requestID(),
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) requestID() string {
	if f.RequestID == nil {
		return ""
	}
	return f.RequestID()
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	if f.Format == "yaml" {
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	}
	return json.NewEncoder(f.Writer).Encode(resp)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
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

// Fail writes err through the formatter and returns the matching ExitError,
// marked as reported. Validation failures exit with ExitCommandError; server
// and transport failures with ExitFailure.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)
	details := errorDetails(err)
	_ = f.Error(code, errorMessage(err), details)
	return WrapExitError(exit, errorMessage(err), err).reported()
}

// Report writes a local failure under an explicit error code and returns a
// reported ExitError. The user sees err when present, otherwise message.
func (f *OutputFormatter) Report(code string, exit int, message string, err error, details interface{}) error {
	if err == nil {
		_ = f.Error(code, message, details)
		return NewExitError(exit, message).reported()
	}
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, message, err).reported()
}

func classify(err error) (string, int) {
	var apiErr *api.Error
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return ErrCodeGeneric, exitErr.Code
	case widget.IsValidation(err):
		return ErrCodeInvalidInput, ExitCommandError
	case errors.Is(err, widget.ErrBusy):
		return ErrCodeBusy, ExitFailure
	case api.IsNotFound(err):
		return ErrCodeNotFound, ExitFailure
	case api.IsUnauthorized(err):
		return ErrCodeUnauthorized, ExitFailure
	case errors.As(err, &apiErr):
		return ErrCodeRequest, ExitFailure
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// errorMessage is what the user sees: the server or validation message
// without transport detail.
func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func errorDetails(err error) interface{} {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return nil
	}
	details := map[string]interface{}{"operation": string(apiErr.Op)}
	if apiErr.StatusCode != 0 {
		details["status_code"] = apiErr.StatusCode
	}
	if apiErr.Err != nil {
		details["cause"] = apiErr.Err.Error()
	}
	return details
}
