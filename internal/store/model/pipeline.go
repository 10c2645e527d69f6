package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Pipeline struct {
	ID          string            `gorm:"primaryKey;column:id;type:VARCHAR(64);"`
	Name        string            `gorm:"not null;type:VARCHAR(100)"`
	Description *string           `gorm:"type:TEXT"`
	Status      string            `gorm:"not null;type:VARCHAR(20);index:pipelines_status_idx"`
	Metadata    datatypes.JSONMap `gorm:"not null"`
	CreatedAt   time.Time         `gorm:"not null;index:pipelines_created_at_idx"`
	UpdatedAt   time.Time         `gorm:"not null"`
}

type PipelineList []Pipeline

func (p Pipeline) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
