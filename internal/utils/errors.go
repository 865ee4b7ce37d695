package utils

import (
	"errors"
	"fmt"

	"github.com/ccarocean/copernicus-sync/internal/types"
)

// Exit codes
const (
	ExitSuccess = 0
	// Remote session errors (10-19)
	ExitAuthFailed   = 10
	ExitNetworkError = 11
	// Listing/index errors (20-29)
	ExitMalformedFilename = 20
	ExitDuplicateDate     = 21
	// Transfer errors (30-39)
	ExitTransferFailed = 30
	// Local filesystem errors (40-49)
	ExitFilesystemError = 40
	// Validation errors (50-59)
	ExitInvalidArgument = 50
	ExitUnknownDataset  = 51
	// Unknown
	ExitUnknown = 99
)

// Error codes (tool-owned, stable)
const (
	ErrCodeAuthFailed        = "AUTH_FAILED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeMalformedFilename = "MALFORMED_FILENAME"
	ErrCodeDuplicateDate     = "DUPLICATE_DATE"
	ErrCodeTransferFailed    = "TRANSFER_FAILED"
	ErrCodeFilesystemError   = "FILESYSTEM_ERROR"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeUnknownDataset    = "UNKNOWN_DATASET"
	ErrCodeCredentialStore   = "CREDENTIAL_STORE"
	ErrCodeJournalError      = "JOURNAL_ERROR"
	ErrCodeUnknown           = "UNKNOWN"
)

// CLIErrorBuilder helps construct CLIError instances
type CLIErrorBuilder struct {
	err types.CLIError
}

// NewCLIError creates a new error builder
func NewCLIError(code, message string) *CLIErrorBuilder {
	return &CLIErrorBuilder{
		err: types.CLIError{
			Code:    code,
			Message: message,
		},
	}
}

func (b *CLIErrorBuilder) WithContext(key string, value interface{}) *CLIErrorBuilder {
	if b.err.Context == nil {
		b.err.Context = make(map[string]interface{})
	}
	b.err.Context[key] = value
	return b
}

func (b *CLIErrorBuilder) Build() types.CLIError {
	return b.err
}

// GetExitCode returns the exit code for an error code
func GetExitCode(errorCode string) int {
	mapping := map[string]int{
		ErrCodeAuthFailed:        ExitAuthFailed,
		ErrCodeNetworkError:      ExitNetworkError,
		ErrCodeMalformedFilename: ExitMalformedFilename,
		ErrCodeDuplicateDate:     ExitDuplicateDate,
		ErrCodeTransferFailed:    ExitTransferFailed,
		ErrCodeFilesystemError:   ExitFilesystemError,
		ErrCodeInvalidArgument:   ExitInvalidArgument,
		ErrCodeUnknownDataset:    ExitUnknownDataset,
		ErrCodeCredentialStore:   ExitUnknown,
		ErrCodeJournalError:      ExitUnknown,
	}
	if code, ok := mapping[errorCode]; ok {
		return code
	}
	return ExitUnknown
}

// AppError is a custom error type that carries CLI error info
type AppError struct {
	CLIError types.CLIError
	Cause    error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.CLIError.Code, e.CLIError.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.CLIError.Code, e.CLIError.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an AppError from a CLIError
func NewAppError(cliErr types.CLIError) *AppError {
	return &AppError{CLIError: cliErr}
}

// WrapError creates an AppError with a code and an underlying cause
func WrapError(code, message string, cause error) *AppError {
	return &AppError{
		CLIError: types.CLIError{Code: code, Message: message},
		Cause:    cause,
	}
}

// ErrorCode extracts the stable error code from err, or ErrCodeUnknown
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.CLIError.Code
	}
	return ErrCodeUnknown
}
