package common

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeUnknown          ErrorCode = "UNKNOWN"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeInternal         ErrorCode = "INTERNAL"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, message string) error {
	return &AppError{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func ErrInvalidOperation(msg string) error {
	return NewError(CodeInvalidOperation, msg)
}

func ErrConflict(msg string) error {
	return NewError(CodeConflict, msg)
}

func ErrNotFound(msg string) error {
	return NewError(CodeNotFound, msg)
}

func ErrUnauthorized(msg string) error {
	return NewError(CodeUnauthorized, msg)
}

func ErrInternal(msg string, cause error) error {
	return WrapError(CodeInternal, msg, cause)
}

// CodeOf extracts the taxonomy code so transports can map errors uniformly.
// Unrecognized errors collapse to CodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
