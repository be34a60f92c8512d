package usecase

import (
	"errors"
	"fmt"
)

// ErrorCode is the closed set of failure categories the progress engine
// can surface. Callers branch on codes via IsCode, never on error strings.
type ErrorCode string

const (
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeRemoteUnavailable ErrorCode = "remote_unavailable"
	CodeDocumentMissing   ErrorCode = "document_missing"
	CodePermissionDenied  ErrorCode = "permission_denied"
)

type AppError struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// E wraps err with an operation name and a taxonomy code.
func E(code ErrorCode, op string, err error) *AppError {
	return &AppError{Code: code, Op: op, Err: err}
}

// Errorf builds a coded error from a format string.
func Errorf(code ErrorCode, op string, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Op: op, Err: fmt.Errorf(format, args...)}
}

// IsCode reports whether any error in err's chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
