package events

import "time"

// JobEvent is the payload of every job lifecycle event.
type JobEvent struct {
	JobID          string    `json:"job_id"`
	PipelineID     string    `json:"pipeline_id"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	TriggerIDs     []string  `json:"trigger_ids,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type PipelineEvent struct {
	PipelineID string    `json:"pipeline_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}
