package util

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"parlour-attendance/models"
)

var Validate *validator.Validate

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

func init() {
	Validate = validator.New()

	Validate.RegisterValidation("objectid", validateObjectID)
}

func validateObjectID(fl validator.FieldLevel) bool {
	return objectIDPattern.MatchString(fl.Field().String())
}

// ValidateStruct returns nil when s passes its validate tags.
func ValidateStruct(s interface{}) []models.ValidationIssue {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []models.ValidationIssue{{Message: err.Error()}}
	}

	issues := make([]models.ValidationIssue, 0, len(validationErrors))
	for _, fe := range validationErrors {
		issue := models.ValidationIssue{
			Field: fe.Field(),
			Tag:   fe.Tag(),
		}

		switch fe.Tag() {
		case "required":
			issue.Message = fmt.Sprintf("Field '%s' is required.", issue.Field)
		case "min":
			issue.Message = fmt.Sprintf("Field '%s' must be at least %s.", issue.Field, fe.Param())
		case "max":
			issue.Message = fmt.Sprintf("Field '%s' must be at most %s.", issue.Field, fe.Param())
		case "email":
			issue.Message = "Invalid email format."
		case "url":
			issue.Message = fmt.Sprintf("Field '%s' must be a valid URL.", issue.Field)
		case "oneof":
			issue.Message = fmt.Sprintf("Field '%s' must be one of: %s.", issue.Field, fe.Param())
		case "objectid":
			issue.Message = fmt.Sprintf("Field '%s' must be a 24 character hex id.", issue.Field)
		default:
			issue.Message = fmt.Sprintf("Field '%s' failed the '%s' check.", issue.Field, issue.Tag)
		}
		issues = append(issues, issue)
	}
	return issues
}
