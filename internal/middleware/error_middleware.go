package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvu/thesisdesk/internal/app/models/dto"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
	"github.com/tvu/thesisdesk/internal/pkg/logger"
)

// errorMapping binds one sentinel error to its boundary representation.
type errorMapping struct {
	sentinel error
	status   int
	code     dto.ErrorCode
}

var errorMappings = []errorMapping{
	// Validation: rejected before mutation, caller fixes input and retries.
	{apperrors.ErrRoleExclusivity, http.StatusUnprocessableEntity, dto.ErrorCodeRoleExclusivity},
	{apperrors.ErrChairDegree, http.StatusUnprocessableEntity, dto.ErrorCodeChairDegree},
	{apperrors.ErrIncompleteRequiredRoles, http.StatusUnprocessableEntity, dto.ErrorCodeIncompleteRequiredRoles},
	{apperrors.ErrSessionCapacityExceeded, http.StatusUnprocessableEntity, dto.ErrorCodeSessionCapacityExceeded},
	{apperrors.ErrDailyCapacityExceeded, http.StatusUnprocessableEntity, dto.ErrorCodeDailyCapacityExceeded},
	{apperrors.ErrQuotaExceeded, http.StatusUnprocessableEntity, dto.ErrorCodeQuotaExceeded},
	{apperrors.ErrTopicAlreadyAssigned, http.StatusConflict, dto.ErrorCodeTopicAlreadyAssigned},
	{apperrors.ErrTopicNotEligible, http.StatusUnprocessableEntity, dto.ErrorCodeTopicNotEligible},
	{apperrors.ErrCommitteeFinalized, http.StatusConflict, dto.ErrorCodeCommitteeFinalized},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition},
	{apperrors.ErrInvalidRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest},

	// Consistency: caller re-reads and retries the diff.
	{apperrors.ErrStaleVersion, http.StatusConflict, dto.ErrorCodeStaleVersion},

	// Not found: terminal for this request.
	{apperrors.ErrCommitteeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrLecturerNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrTopicNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrAssignmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},

	// Auth.
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},

	// Transport: retried once in the services, then surfaced.
	{apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeStoreUnavailable},
}

// HandleAPIError maps a service error onto the uniform response envelope.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			c.JSON(m.status, dto.NewErrorResponse(errorDetail(m.code, err)))
			return
		}
	}

	// Validation sentinels missing from the table still answer as a
	// validation failure, not a server error.
	if apperrors.IsValidation(err) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(
			errorDetail(dto.ErrorCodeValidationFailed, err)))
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}

// errorDetail builds the envelope detail, carrying over any structured
// context the service attached to the error.
func errorDetail(code dto.ErrorCode, err error) dto.ErrorDetail {
	detail := dto.NewErrorDetail(code, err.Error())
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		detail = detail.WithDetails(custom.Details)
	}
	return detail
}
