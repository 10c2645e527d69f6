package validator

import (
	"strings"
	"unicode"

	"github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/go-playground/validator/v10"
)

// pipelineNameValidator rejects blank names and names holding control characters.
func pipelineNameValidator(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if strings.TrimSpace(val) == "" {
		return false
	}
	return strings.IndexFunc(val, unicode.IsControl) == -1
}

func jobTypeValidator(fl validator.FieldLevel) bool {
	return v1alpha1.JobType(fl.Field().String()).Valid()
}

func jobStatusValidator(fl validator.FieldLevel) bool {
	return v1alpha1.JobStatus(fl.Field().String()).Valid()
}

func pipelineStatusValidator(fl validator.FieldLevel) bool {
	return v1alpha1.PipelineStatus(fl.Field().String()).Valid()
}
