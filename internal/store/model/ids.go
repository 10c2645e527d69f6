package model

import (
	"strings"

	"github.com/google/uuid"
)

const (
	jobIDPrefix      = "job_"
	pipelineIDPrefix = "pipeline_"
	idSuffixLen      = 10
)

func NewJobID() string {
	return jobIDPrefix + shortID()
}

func NewPipelineID() string {
	return pipelineIDPrefix + shortID()
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
}
