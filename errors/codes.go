package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/availability errors (retryable)
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Resource errors
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Validation errors
const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Audio input errors. All of them reject the input before any
// transcription call is made.
const (
	// ErrCodeUnreadableAudio indicates the file has no decodable audio stream.
	ErrCodeUnreadableAudio ErrorCode = "UNREADABLE_AUDIO"
	// ErrCodeAudioTooShort indicates the audio is below the minimum duration.
	ErrCodeAudioTooShort ErrorCode = "AUDIO_TOO_SHORT"
	// ErrCodeAudioTooLong indicates the audio exceeds the maximum duration.
	ErrCodeAudioTooLong ErrorCode = "AUDIO_TOO_LONG"
	// ErrCodeConditioningFailed indicates preprocessing failed. Never crosses
	// the pipeline boundary; the original file is used instead.
	ErrCodeConditioningFailed ErrorCode = "CONDITIONING_FAILED"
)

// Transcription capability errors
const (
	// ErrCodeCapabilityTransient is a rate limit, timeout or transient network
	// fault. The driver moves on to the next attempt.
	ErrCodeCapabilityTransient ErrorCode = "CAPABILITY_TRANSIENT"
	// ErrCodeCapabilityFatal is an auth, configuration or malformed request
	// failure. The pipeline aborts.
	ErrCodeCapabilityFatal ErrorCode = "CAPABILITY_FATAL"
	// ErrCodeAllAttemptsFailed means no attempt produced a usable transcript.
	ErrCodeAllAttemptsFailed ErrorCode = "ALL_ATTEMPTS_FAILED"
)

// Persistence errors
const (
	// ErrCodeDuplicateRecord is a lost race on the recording uniqueness
	// constraint. Resolved by re-reading the winning record.
	ErrCodeDuplicateRecord ErrorCode = "DUPLICATE_RECORD"
	// ErrCodeContractViolation means a caller broke a precondition, such as
	// persisting a failed transcription result.
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"
)

// Internal errors
const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable:  true,
	ErrCodeTimeout:             true,
	ErrCodeRateLimited:         true,
	ErrCodeDatabaseError:       true,
	ErrCodeExternalService:     true,
	ErrCodeCapabilityTransient: true,
	ErrCodeAllAttemptsFailed:   true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

var validationCodes = map[ErrorCode]bool{
	ErrCodeInvalidInput:    true,
	ErrCodeMissingField:    true,
	ErrCodeUnreadableAudio: true,
	ErrCodeAudioTooShort:   true,
	ErrCodeAudioTooLong:    true,
}

// IsValidationCode reports whether the code describes bad input rather than
// a service failure.
func IsValidationCode(code ErrorCode) bool {
	return validationCodes[code]
}
