package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	ID           string            `gorm:"primaryKey;column:id;type:VARCHAR(64);"`
	PipelineID   string            `gorm:"not null;type:VARCHAR(64);index:jobs_pipeline_id_idx"`
	Pipeline     *Pipeline         `gorm:"foreignKey:PipelineID;references:ID;constraint:OnDelete:CASCADE;"`
	Type         string            `gorm:"not null;type:VARCHAR(50);index:jobs_type_idx"`
	Status       string            `gorm:"not null;type:VARCHAR(20);index:jobs_status_idx"`
	ErrorMessage *string           `gorm:"type:TEXT"`
	Args         datatypes.JSONMap `gorm:"not null"`
	// WaveForecastData holds the serialized WaveForecastData result, nil when absent.
	WaveForecastData *datatypes.JSON
	CreatedAt        time.Time `gorm:"not null;index:jobs_created_at_idx"`
	UpdatedAt        time.Time `gorm:"not null"`

	// Triggers is loaded from job_triggers by the store.
	Triggers []Job `gorm:"-"`
}

// JobTrigger records that job JobID was spawned by the completion of job TriggerID.
type JobTrigger struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	JobID     string `gorm:"not null;type:VARCHAR(64);index:job_triggers_job_id_idx"`
	TriggerID string `gorm:"not null;type:VARCHAR(64);index:job_triggers_trigger_id_idx"`
}

type WaveForecastEntry struct {
	Time      string  `json:"time"`
	Height    float64 `json:"height"`
	Direction string  `json:"direction"`
	Period    float64 `json:"period"`
}

type WaveForecastData struct {
	Data     []WaveForecastEntry `json:"data"`
	Location *string             `json:"location,omitempty"`
	Unit     *string             `json:"unit,omitempty"`
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// SetWaveForecastData serializes data into the job. A nil data clears it.
func (j *Job) SetWaveForecastData(data *WaveForecastData) error {
	if data == nil {
		j.WaveForecastData = nil
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	d := datatypes.JSON(raw)
	j.WaveForecastData = &d
	return nil
}

// GetWaveForecastData returns nil when the job carries no wave forecast result.
func (j Job) GetWaveForecastData() (*WaveForecastData, error) {
	if j.WaveForecastData == nil || len(*j.WaveForecastData) == 0 {
		return nil, nil
	}
	var data WaveForecastData
	if err := json.Unmarshal(*j.WaveForecastData, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// StatusCount is a row of a GROUP BY status query.
type StatusCount struct {
	Status string
	Count  int
}
