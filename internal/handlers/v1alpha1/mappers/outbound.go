package mappers

import (
	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/store/model"
)

func PipelineToApi(p model.Pipeline) api.Pipeline {
	metadata := map[string]interface{}(p.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return api.Pipeline{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      api.PipelineStatus(p.Status),
		Metadata:    metadata,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func PipelineListToApi(pipelines model.PipelineList) api.PipelineList {
	list := make(api.PipelineList, 0, len(pipelines))
	for _, p := range pipelines {
		list = append(list, PipelineToApi(p))
	}
	return list
}

// PipelineWithCountsToApi is used when a single pipeline is read.
func PipelineWithCountsToApi(p model.Pipeline, counts map[string]int) api.Pipeline {
	pipeline := PipelineToApi(p)
	pipeline.JobCounts = &counts
	return pipeline
}

// JobToApi converts a job. Triggers and the owning pipeline are only set when
// the store loaded them.
func JobToApi(j model.Job) api.Job {
	args := map[string]interface{}(j.Args)
	if args == nil {
		args = map[string]interface{}{}
	}

	job := api.Job{
		Id:           j.ID,
		PipelineId:   j.PipelineID,
		Type:         api.JobType(j.Type),
		Status:       api.JobStatus(j.Status),
		ErrorMessage: j.ErrorMessage,
		Args:         args,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}

	// a corrupted result column is not worth failing the whole read
	if data, err := j.GetWaveForecastData(); err == nil && data != nil {
		job.WaveForecastData = WaveForecastDataToApi(*data)
	}

	if j.Triggers != nil {
		triggers := make([]api.Job, 0, len(j.Triggers))
		for _, t := range j.Triggers {
			triggers = append(triggers, JobToApi(t))
		}
		job.Triggers = &triggers
	}

	if j.Pipeline != nil {
		pipeline := PipelineToApi(*j.Pipeline)
		job.Pipeline = &pipeline
	}

	return job
}

func JobListToApi(jobs model.JobList) api.JobList {
	list := make(api.JobList, 0, len(jobs))
	for _, j := range jobs {
		list = append(list, JobToApi(j))
	}
	return list
}

func WaveForecastDataToApi(data model.WaveForecastData) *api.WaveForecastData {
	entries := make([]api.WaveForecastEntry, 0, len(data.Data))
	for _, e := range data.Data {
		entries = append(entries, api.WaveForecastEntry{
			Time:      e.Time,
			Height:    e.Height,
			Direction: e.Direction,
			Period:    e.Period,
		})
	}
	return &api.WaveForecastData{
		Data:     entries,
		Location: data.Location,
		Unit:     data.Unit,
	}
}
