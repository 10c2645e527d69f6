package cli

import (
	"fmt"
	"sort"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/thoas/go-funk"
)

const (
	SortByCreated = "created"
	SortByUpdated = "updated"
	SortByType    = "type"
	SortByStatus  = "status"
)

var legalSortKeys = []string{SortByCreated, SortByUpdated, SortByType, SortByStatus}

// JobFilter selects jobs client side. Empty fields match everything.
type JobFilter struct {
	Type       string
	Status     string
	PipelineID string
}

func (f JobFilter) Apply(jobs []api.Job) []api.Job {
	return funk.Filter(jobs, func(j api.Job) bool {
		if f.Type != "" && string(j.Type) != f.Type {
			return false
		}
		if f.Status != "" && string(j.Status) != f.Status {
			return false
		}
		if f.PipelineID != "" && j.PipelineId != f.PipelineID {
			return false
		}
		return true
	}).([]api.Job)
}

func FilterPipelines(pipelines []api.Pipeline, status string) []api.Pipeline {
	if status == "" {
		return pipelines
	}
	return funk.Filter(pipelines, func(p api.Pipeline) bool {
		return string(p.Status) == status
	}).([]api.Pipeline)
}

// SortJobs sorts in place. An empty key keeps the server order.
func SortJobs(jobs []api.Job, key string, desc bool) error {
	var less func(a, b api.Job) bool
	switch key {
	case "":
		return nil
	case SortByCreated:
		less = func(a, b api.Job) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByUpdated:
		less = func(a, b api.Job) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortByType:
		less = func(a, b api.Job) bool { return a.Type < b.Type }
	case SortByStatus:
		less = func(a, b api.Job) bool { return a.Status < b.Status }
	default:
		return fmt.Errorf("unknown sort key %q", key)
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		if desc {
			return less(jobs[j], jobs[i])
		}
		return less(jobs[i], jobs[j])
	})
	return nil
}

// SortPipelines accepts the job sort keys except type.
func SortPipelines(pipelines []api.Pipeline, key string, desc bool) error {
	var less func(a, b api.Pipeline) bool
	switch key {
	case "":
		return nil
	case SortByCreated:
		less = func(a, b api.Pipeline) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByUpdated:
		less = func(a, b api.Pipeline) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortByStatus:
		less = func(a, b api.Pipeline) bool { return a.Status < b.Status }
	default:
		return fmt.Errorf("unknown sort key %q for pipelines", key)
	}

	sort.SliceStable(pipelines, func(i, j int) bool {
		if desc {
			return less(pipelines[j], pipelines[i])
		}
		return less(pipelines[i], pipelines[j])
	})
	return nil
}
