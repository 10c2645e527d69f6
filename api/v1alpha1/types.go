package v1alpha1

import (
	"encoding/json"
	"time"
)

// Defines values for JobType.
const (
	JobTypeFetchTerrain    JobType = "fetchTerrain"
	JobTypeWeatherForecast JobType = "weatherForecast"
	JobTypeTideForecast    JobType = "tideForecast"
	JobTypeWaveForecast    JobType = "waveForecast"
)

// Defines values for JobStatus.
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Defines values for PipelineStatus.
const (
	PipelineStatusActive    PipelineStatus = "active"
	PipelineStatusArchived  PipelineStatus = "archived"
	PipelineStatusCompleted PipelineStatus = "completed"
)

// JobType is the kind of forecast work a job performs.
type JobType string

// JobStatus is the lifecycle state of a job.
type JobStatus string

// PipelineStatus is the state of a pipeline.
type PipelineStatus string

// WaveForecastEntry defines model for WaveForecastEntry.
type WaveForecastEntry struct {
	Time      string  `json:"time"`
	Height    float64 `json:"height"`
	Direction string  `json:"direction"`
	Period    float64 `json:"period"`
}

// WaveForecastData defines model for WaveForecastData.
type WaveForecastData struct {
	Data     []WaveForecastEntry `json:"data"`
	Location *string             `json:"location,omitempty"`
	Unit     *string             `json:"unit,omitempty"`
}

// Pipeline defines model for Pipeline.
type Pipeline struct {
	Id          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description,omitempty"`
	Status      PipelineStatus         `json:"status"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	// JobCounts is only set when reading a single pipeline.
	JobCounts *map[string]int `json:"job_counts,omitempty"`
}

// PipelineList defines model for PipelineList.
type PipelineList []Pipeline

// PipelineCreate defines model for PipelineCreate.
type PipelineCreate struct {
	Name        string                  `json:"name" validate:"required,pipeline_name,max=100"`
	Description *string                 `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status      *PipelineStatus         `json:"status,omitempty" validate:"omitempty,pipeline_status"`
	Metadata    *map[string]interface{} `json:"metadata,omitempty"`
}

// PipelineUpdate defines model for PipelineUpdate.
type PipelineUpdate struct {
	Description *string                 `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status      *PipelineStatus         `json:"status,omitempty" validate:"omitempty,pipeline_status"`
	Metadata    *map[string]interface{} `json:"metadata,omitempty"`
}

// Job defines model for Job.
type Job struct {
	Id               string                 `json:"id"`
	PipelineId       string                 `json:"pipeline_id"`
	Type             JobType                `json:"type"`
	Status           JobStatus              `json:"status"`
	ErrorMessage     *string                `json:"error_message"`
	Args             map[string]interface{} `json:"args"`
	WaveForecastData *WaveForecastData      `json:"wave_forecast_data,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`

	// Triggers are the jobs whose completion spawned this job.
	Triggers *[]Job    `json:"triggers,omitempty"`
	Pipeline *Pipeline `json:"pipeline,omitempty"`
}

// JobList defines model for JobList.
type JobList []Job

// JobCreate defines model for JobCreate.
//
// Args is kept raw so it can be validated as a JSON object, or as a string holding one.
type JobCreate struct {
	PipelineId string          `json:"pipeline_id" validate:"required,max=64"`
	Type       JobType         `json:"type" validate:"required,job_type"`
	Args       json.RawMessage `json:"args"`
	TriggerIds *[]string       `json:"trigger_ids,omitempty" validate:"omitempty,dive,required,max=64"`
}

// JobUpdate defines model for JobUpdate.
type JobUpdate struct {
	Status           *JobStatus        `json:"status,omitempty" validate:"omitempty,job_status"`
	ErrorMessage     *string           `json:"error_message,omitempty" validate:"omitempty,max=2000"`
	Args             json.RawMessage   `json:"args,omitempty"`
	WaveForecastData *WaveForecastData `json:"wave_forecast_data,omitempty"`
}

// Status is returned by operations that have no resource to return.
type Status struct {
	Message string `json:"message"`
}

// Error defines model for Error.
type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"request_id,omitempty"`
}
