package service

import (
	"fmt"
	"strings"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

func NewErrPipelineNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "pipeline")
}

type ErrInvalidArgs struct {
	error
}

func NewErrInvalidArgs(format string, args ...any) *ErrInvalidArgs {
	return &ErrInvalidArgs{fmt.Errorf("invalid args: "+format, args...)}
}

// ErrUnknownPipeline is returned when a job references a pipeline that does not exist.
type ErrUnknownPipeline struct {
	error
}

func NewErrUnknownPipeline(id string) *ErrUnknownPipeline {
	return &ErrUnknownPipeline{fmt.Errorf("pipeline %s does not exist", id)}
}

type ErrTriggerNotFound struct {
	error
}

func NewErrTriggerNotFound(ids []string) *ErrTriggerNotFound {
	return &ErrTriggerNotFound{fmt.Errorf("trigger jobs not found: %s", strings.Join(ids, ", "))}
}

type ErrJobNotRetryable struct {
	error
}

func NewErrJobNotRetryable(id string, status string) *ErrJobNotRetryable {
	return &ErrJobNotRetryable{fmt.Errorf("job %s cannot be retried from status %s", id, status)}
}

type ErrInvalidFilter struct {
	error
}

func NewErrInvalidFilter(name, value string) *ErrInvalidFilter {
	return &ErrInvalidFilter{fmt.Errorf("invalid value %q for filter %s", value, name)}
}
