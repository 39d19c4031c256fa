package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Exam lifecycle errors
	ErrCodeExamCreationFailed = "exam_creation_failed"
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeStartFailed        = "start_failed"
	ErrCodeSubmitFailed       = "submit_failed"
	ErrCodeAdvanceFailed      = "advance_failed"
	ErrCodeInvalidExamID      = "invalid_exam_id"
	ErrCodeInvalidState       = "invalid_state"
	ErrCodeAlreadyAnswered    = "already_answered"
	ErrCodeStaleQuestion      = "stale_or_future_question"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
