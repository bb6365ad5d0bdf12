package dto

// ErrorCode identifies a failure category across the API boundary.
type ErrorCode string

// Validation codes. These reject the request before any mutation; the
// caller may retry after fixing its input.
const (
	ErrorCodeRoleExclusivity         ErrorCode = "ROLE_EXCLUSIVITY_VIOLATION"
	ErrorCodeChairDegree             ErrorCode = "CHAIR_DEGREE_VIOLATION"
	ErrorCodeIncompleteRequiredRoles ErrorCode = "INCOMPLETE_REQUIRED_ROLES"
	ErrorCodeSessionCapacityExceeded ErrorCode = "SESSION_CAPACITY_EXCEEDED"
	ErrorCodeDailyCapacityExceeded   ErrorCode = "DAILY_CAPACITY_EXCEEDED"
	ErrorCodeQuotaExceeded           ErrorCode = "QUOTA_EXCEEDED"
	ErrorCodeTopicAlreadyAssigned    ErrorCode = "TOPIC_ALREADY_ASSIGNED"
	ErrorCodeTopicNotEligible        ErrorCode = "TOPIC_NOT_ELIGIBLE"
	ErrorCodeCommitteeFinalized      ErrorCode = "COMMITTEE_FINALIZED"
	ErrorCodeInvalidTransition       ErrorCode = "INVALID_TRANSITION"
	ErrorCodeInvalidRequest          ErrorCode = "INVALID_REQUEST"
	ErrorCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
)

// Consistency, not-found, auth and server codes.
const (
	ErrorCodeStaleVersion     ErrorCode = "STALE_VERSION"
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeUnauthorized     ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken     ErrorCode = "AUTH_002"
	ErrorCodeExpiredToken     ErrorCode = "AUTH_003"
	ErrorCodeForbidden        ErrorCode = "AUTH_004"
	ErrorCodeInternalServer   ErrorCode = "SRV_001"
	ErrorCodeStoreUnavailable ErrorCode = "SRV_002"
)

// ErrorDetail carries one concrete failure inside the response envelope.
type ErrorDetail struct {
	Code    ErrorCode   `json:"code" example:"CHAIR_DEGREE_VIOLATION"`
	Message string      `json:"message" example:"chair must hold a doctorate degree or higher"`
	Field   string      `json:"field,omitempty" example:"members[0].lecturerCode"`
	Details interface{} `json:"details,omitempty"`
}

// NewErrorDetail creates an error detail.
func NewErrorDetail(code ErrorCode, message string) ErrorDetail {
	return ErrorDetail{Code: code, Message: message}
}

// WithField attaches the offending field name.
func (e ErrorDetail) WithField(field string) ErrorDetail {
	e.Field = field
	return e
}

// WithDetails attaches structured context.
func (e ErrorDetail) WithDetails(details interface{}) ErrorDetail {
	e.Details = details
	return e
}
