package mappers

import (
	"time"

	"github.com/forecast-ops/job-tracker/internal/events"
	"github.com/forecast-ops/job-tracker/internal/store/model"
)

func JobEventFromModel(job model.Job, previousStatus string) events.JobEvent {
	return events.JobEvent{
		JobID:          job.ID,
		PipelineID:     job.PipelineID,
		Type:           job.Type,
		Status:         job.Status,
		PreviousStatus: previousStatus,
		ErrorMessage:   job.ErrorMessage,
		Timestamp:      time.Now().UTC(),
	}
}

func PipelineEventFromModel(pipeline model.Pipeline) events.PipelineEvent {
	return events.PipelineEvent{
		PipelineID: pipeline.ID,
		Name:       pipeline.Name,
		Status:     pipeline.Status,
		Timestamp:  time.Now().UTC(),
	}
}
