package apperrors

import "errors"

// Validation errors: rejected before any mutation, safe to retry after the
// caller adjusts its input.
var (
	ErrRoleExclusivity         = errors.New("lecturer already occupies another role in this committee")
	ErrChairDegree             = errors.New("chair must hold a doctorate degree or higher")
	ErrIncompleteRequiredRoles = errors.New("chair, secretary, reviewer and first member are required")
	ErrSessionCapacityExceeded = errors.New("session has fewer free slots than requested topics")
	ErrDailyCapacityExceeded   = errors.New("committee daily topic ceiling exceeded")
	ErrQuotaExceeded           = errors.New("lecturer defense quota exceeded")
	ErrTopicAlreadyAssigned    = errors.New("topic already has an active assignment")
	ErrTopicNotEligible        = errors.New("topic is not approved for defense")
	ErrCommitteeFinalized      = errors.New("committee is finalized and cannot be modified")
	ErrInvalidTransition       = errors.New("invalid committee state transition")
	ErrInvalidRequest          = errors.New("invalid request")
)

// Consistency errors: recoverable by re-reading current state and retrying.
var (
	ErrStaleVersion = errors.New("committee was modified concurrently")
)

// Not-found errors: terminal for the request that raised them.
var (
	ErrCommitteeNotFound  = errors.New("committee not found")
	ErrLecturerNotFound   = errors.New("lecturer not found")
	ErrTopicNotFound      = errors.New("topic not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// Transport errors: retried once automatically, then surfaced.
var (
	ErrStoreUnavailable = errors.New("backing store unreachable")
)

// Authentication errors raised by the token-verifying middleware. Token
// issuance itself lives in the external identity service.
var (
	ErrTokenInvalid     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrPermissionDenied = errors.New("permission denied")
)

// CustomError attaches a human-readable message to a sentinel error so
// callers can still match with errors.Is while the boundary reports detail.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes the sentinel for errors.Is / errors.As.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel error with a message.
func New(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails attaches structured context to the error.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// IsValidation reports whether err belongs to the validation family.
func IsValidation(err error) bool {
	return matchesAny(err,
		ErrRoleExclusivity,
		ErrChairDegree,
		ErrIncompleteRequiredRoles,
		ErrSessionCapacityExceeded,
		ErrDailyCapacityExceeded,
		ErrQuotaExceeded,
		ErrTopicAlreadyAssigned,
		ErrTopicNotEligible,
		ErrCommitteeFinalized,
		ErrInvalidTransition,
		ErrInvalidRequest,
	)
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	return matchesAny(err,
		ErrCommitteeNotFound,
		ErrLecturerNotFound,
		ErrTopicNotFound,
		ErrAssignmentNotFound,
	)
}

func matchesAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
