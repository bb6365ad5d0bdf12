package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tvu/thesisdesk/internal/app/models/dto"
	"github.com/tvu/thesisdesk/internal/pkg/validation"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("lecturercode", func(fl validator.FieldLevel) bool {
			return validation.IsLecturerCode(fl.Field().String())
		})
		v.RegisterValidation("topiccode", func(fl validator.FieldLevel) bool {
			return validation.IsTopicCode(fl.Field().String())
		})
	}
}

// BindAndValidate binds the JSON body into obj and reports every failed
// field through the validation envelope. Returns false when the request
// was rejected.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]dto.ErrorDetail, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, dto.NewErrorDetail(
					dto.ErrorCodeValidationFailed, validationMessage(fe)).WithField(fe.Field()))
			}
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(details))
			return false
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is below the allowed minimum"
	case "max":
		return "Value is above the allowed maximum"
	case "lecturercode":
		return "Must be a lecturer code like GV001"
	case "topiccode":
		return "Must be a topic code like DT042"
	default:
		return "Invalid value"
	}
}
