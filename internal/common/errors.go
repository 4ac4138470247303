package common

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors. Message is safe to show to callers.
type AppError struct {
	Code    string
	Message string
	Status  codes.Code
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// GRPCStatus lets status.FromError classify an AppError.
func (e *AppError) GRPCStatus() *status.Status {
	return status.New(e.Status, e.Message)
}

// HTTPStatus maps the error onto an HTTP status code.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeUnsupportedType:
		return http.StatusUnsupportedMediaType
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return HTTPStatusFromCode(e.Status)
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrNoText       = errors.New("no text extracted")
)

// Error codes surfaced by the summarize pipeline.
const (
	CodeNoFile          = "NO_FILE"
	CodeUnsupportedType = "UNSUPPORTED_TYPE"
	CodeInvalidMode     = "INVALID_MODE"
	CodeInvalidLength   = "INVALID_LENGTH"
	CodeNoText          = "NO_TEXT_EXTRACTED"
	CodeAIGeneration    = "AI_GENERATION_FAILED"
	CodeInternal        = "INTERNAL"
	CodeTooLarge        = "FILE_TOO_LARGE"
	CodeBadRequest      = "BAD_REQUEST"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  codes.InvalidArgument,
		Cause:   cause,
	}
}

func NoFileError() *AppError {
	return NewAppError(CodeNoFile, "No file uploaded.", ErrInvalidInput)
}

func UnsupportedTypeError(filename string) *AppError {
	return NewAppError(CodeUnsupportedType, "Unsupported file type.", fmt.Errorf("%w: %q", ErrInvalidInput, filename))
}

func InvalidModeError(mode string) *AppError {
	return NewAppError(CodeInvalidMode, "Invalid mode. Must be 'ai' or 'traditional'.", fmt.Errorf("%w: mode %q", ErrInvalidInput, mode))
}

func InvalidLengthError(length string) *AppError {
	return NewAppError(CodeInvalidLength, "Invalid length. Must be 'short', 'medium', or 'long'.", fmt.Errorf("%w: length %q", ErrInvalidInput, length))
}

func TooLargeError(maxMB int, cause error) *AppError {
	return NewAppError(CodeTooLarge, fmt.Sprintf("File too large. Maximum size is %d MB.", maxMB), cause)
}

func NoTextError() *AppError {
	e := NewAppError(CodeNoText, "Could not extract text from file.", ErrNoText)
	e.Status = codes.FailedPrecondition
	return e
}

// AIGenerationError reports a failed call to the text-generation service; the
// underlying message is included for the caller.
func AIGenerationError(cause error) *AppError {
	return &AppError{
		Code:    CodeAIGeneration,
		Message: "An internal server error occurred: " + cause.Error(),
		Status:  codes.Internal,
		Cause:   cause,
	}
}

func InternalAppError(cause error) *AppError {
	if cause == nil {
		cause = ErrInternal
	}
	return &AppError{
		Code:    CodeInternal,
		Message: "An internal server error occurred: " + cause.Error(),
		Status:  codes.Internal,
		Cause:   cause,
	}
}

// AsAppError unwraps err into an *AppError, wrapping unknown errors as INTERNAL.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return InternalAppError(err)
}

// IsClientFault reports whether err was caused by the caller's input or document.
func IsClientFault(err error) bool {
	var ae *AppError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.Status {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.NotFound:
		return true
	default:
		return false
	}
}

// HTTPStatusFromCode converts a gRPC code into the matching HTTP status.
func HTTPStatusFromCode(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
