package mappers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/forecast-ops/job-tracker/internal/store/model"
)

var (
	ErrArgsMissing   = errors.New("args is required")
	ErrArgsNotObject = errors.New("args must be a JSON object")
)

type JobCreateForm struct {
	PipelineID string
	Type       string
	Args       map[string]any
	TriggerIDs []string
}

func (f JobCreateForm) ToModel() model.Job {
	return model.Job{
		PipelineID: f.PipelineID,
		Type:       f.Type,
		Status:     "pending",
		Args:       f.Args,
	}
}

// UniqueTriggerIDs returns the trigger ids without duplicates, in request order.
func (f JobCreateForm) UniqueTriggerIDs() []string {
	seen := make(map[string]struct{}, len(f.TriggerIDs))
	ids := make([]string, 0, len(f.TriggerIDs))
	for _, id := range f.TriggerIDs {
		if _, found := seen[id]; found {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// JobUpdateForm carries the fields of a job update. Nil fields are left untouched.
type JobUpdateForm struct {
	Status           *string
	ErrorMessage     *string
	Args             map[string]any
	WaveForecastData *model.WaveForecastData
}

type PipelineCreateForm struct {
	Name        string
	Description *string
	Status      string
	Metadata    map[string]any
}

func (f PipelineCreateForm) ToModel() model.Pipeline {
	status := f.Status
	if status == "" {
		status = "active"
	}
	metadata := f.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return model.Pipeline{
		Name:        f.Name,
		Description: f.Description,
		Status:      status,
		Metadata:    metadata,
	}
}

type PipelineUpdateForm struct {
	Description *string
	Status      *string
	Metadata    *map[string]any
}

// ParseArgs decodes job args. It accepts a JSON object, or a JSON string whose
// content is a JSON object.
func ParseArgs(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrArgsMissing
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, ErrArgsNotObject
		}
		raw = bytes.TrimSpace([]byte(inner))
	}

	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrArgsNotObject
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, ErrArgsNotObject
	}
	return args, nil
}
