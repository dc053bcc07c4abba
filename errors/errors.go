package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsValidation reports whether err describes rejected input.
func IsValidation(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return IsValidationCode(appErr.Code)
	}
	return false
}

// IsRetryable reports whether err is an AppError flagged retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// IsTransient reports whether err is a transient transcription capability
// failure that the driver recovers from by moving to the next attempt.
func IsTransient(err error) bool {
	return IsCode(err, ErrCodeCapabilityTransient)
}

// --- Audio input ---

// UnreadableAudio creates an error for a file without a decodable audio stream.
func UnreadableAudio(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnreadableAudio, Message: "The file does not contain a readable audio stream.",
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// AudioTooShort creates an error for audio below the accepted duration.
func AudioTooShort(duration, minimum time.Duration) *AppError {
	return &AppError{
		Code:       ErrCodeAudioTooShort,
		Message:    fmt.Sprintf("Audio too short (%.1fs). Recordings must be at least %s.", duration.Seconds(), minimum),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"duration_seconds": duration.Seconds(), "min_seconds": minimum.Seconds()},
	}
}

// AudioTooLong creates an error for audio above the accepted duration.
func AudioTooLong(duration, maximum time.Duration) *AppError {
	return &AppError{
		Code:       ErrCodeAudioTooLong,
		Message:    fmt.Sprintf("Audio too long (%s). Please split recordings longer than %s.", duration.Round(time.Second), maximum),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"duration_seconds": duration.Seconds(), "max_seconds": maximum.Seconds()},
	}
}

// ConditioningFailed wraps a preprocessing failure. It is logged and
// recorded as a warning, never returned to pipeline callers.
func ConditioningFailed(step string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConditioningFailed, Message: fmt.Sprintf("Audio conditioning failed during %s.", step),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"step": step}, Cause: cause,
	}
}

// --- Transcription capability ---

// TransientCapability creates a retryable error from the transcription provider.
func TransientCapability(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCapabilityTransient, Message: fmt.Sprintf("The %s transcription service is temporarily unavailable.", provider),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// FatalCapability creates a non-retryable error from the transcription provider.
func FatalCapability(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCapabilityFatal, Message: fmt.Sprintf("The %s transcription service rejected the request.", provider),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// AllAttemptsFailed reports a total transcription failure with diagnostics.
func AllAttemptsFailed(attempts int, warnings []string) *AppError {
	return &AppError{
		Code:       ErrCodeAllAttemptsFailed,
		Message:    fmt.Sprintf("All %d transcription attempts failed.", attempts),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"attempts": attempts, "warnings": warnings},
	}
}

// --- Persistence ---

// DuplicateRecord creates an error for a lost uniqueness race.
func DuplicateRecord(resource, key string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateRecord, Message: fmt.Sprintf("A %s for %s already exists.", resource, key),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource, "key": key}, Cause: cause,
	}
}

// ContractViolation creates an error for a broken caller precondition.
func ContractViolation(reason string) *AppError {
	return &AppError{
		Code: ErrCodeContractViolation, Message: reason,
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// --- Common ---

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// DatabaseError creates a new AppError for a database error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}

// ExternalServiceError creates a new AppError for an error from an external service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}
