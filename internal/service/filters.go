package service

import (
	"time"

	"github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/store"
)

const dateLayout = "2006-01-02"

type JobFilter struct {
	Type       string
	Status     string
	PipelineID string
	From       *time.Time
	To         *time.Time
}

func NewJobFilter() *JobFilter {
	return &JobFilter{}
}

func (f *JobFilter) WithType(jobType string) *JobFilter {
	f.Type = jobType
	return f
}

func (f *JobFilter) WithStatus(status string) *JobFilter {
	f.Status = status
	return f
}

func (f *JobFilter) WithPipelineID(pipelineID string) *JobFilter {
	f.PipelineID = pipelineID
	return f
}

func (f *JobFilter) WithDateRange(from, to *time.Time) *JobFilter {
	f.From = from
	f.To = to
	return f
}

// validate rejects values that can never match a job.
func (f *JobFilter) validate() error {
	if f.Type != "" && !v1alpha1.JobType(f.Type).Valid() {
		return NewErrInvalidFilter("type", f.Type)
	}
	if f.Status != "" && !v1alpha1.JobStatus(f.Status).Valid() {
		return NewErrInvalidFilter("status", f.Status)
	}
	return nil
}

func (f *JobFilter) toStoreFilter() *store.JobQueryFilter {
	sf := store.NewJobQueryFilter()
	if f.Type != "" {
		sf = sf.ByType(f.Type)
	}
	if f.Status != "" {
		sf = sf.ByStatus(f.Status)
	}
	if f.PipelineID != "" {
		sf = sf.ByPipelineID(f.PipelineID)
	}
	if f.From != nil {
		sf = sf.CreatedAfter(*f.From)
	}
	if f.To != nil {
		sf = sf.CreatedBefore(*f.To)
	}
	return sf
}

// ParseDateBound parses an RFC3339 timestamp or a YYYY-MM-DD date. A date used
// as an upper bound covers the whole day.
func ParseDateBound(name, value string, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, NewErrInvalidFilter(name, value)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
