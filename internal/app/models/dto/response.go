package dto

import "time"

// APIResponse is the uniform envelope every endpoint returns, so callers
// can tell a validation rejection from a transport failure by code alone.
type APIResponse struct {
	Success   bool          `json:"success" example:"true"`
	Code      ErrorCode     `json:"code,omitempty" example:"CHAIR_DEGREE_VIOLATION"`
	Message   string        `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{}   `json:"data,omitempty"`
	Errors    []ErrorDetail `json:"errors,omitempty"`
	Timestamp time.Time     `json:"timestamp" example:"2025-05-12T09:30:00Z"`
}

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse wraps one error detail in a failure envelope.
func NewErrorResponse(detail ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Code:      detail.Code,
		Message:   detail.Message,
		Errors:    []ErrorDetail{detail},
		Timestamp: time.Now(),
	}
}

// NewValidationErrorResponse wraps field-level validation errors. With a
// single detail the envelope adopts its code so callers can switch on it.
func NewValidationErrorResponse(details []ErrorDetail) APIResponse {
	resp := APIResponse{
		Success:   false,
		Code:      ErrorCodeValidationFailed,
		Message:   "Validation failed",
		Errors:    details,
		Timestamp: time.Now(),
	}
	if len(details) == 1 {
		resp.Code = details[0].Code
		resp.Message = details[0].Message
	}
	return resp
}
