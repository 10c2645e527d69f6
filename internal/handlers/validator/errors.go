package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Message turns a validation error into a short human readable sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "job_type":
		return fmt.Sprintf("invalid job type %q", fe.Value())
	case "job_status":
		return fmt.Sprintf("invalid job status %q", fe.Value())
	case "pipeline_status":
		return fmt.Sprintf("invalid pipeline status %q", fe.Value())
	case "pipeline_name":
		return "pipeline name must not be blank"
	default:
		return fmt.Sprintf("%s failed on the %q rule", field, fe.Tag())
	}
}
