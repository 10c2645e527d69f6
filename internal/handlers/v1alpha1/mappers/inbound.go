package mappers

import (
	"bytes"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/service/mappers"
	"github.com/forecast-ops/job-tracker/internal/store/model"
)

func JobCreateFormApi(resource api.JobCreate) (mappers.JobCreateForm, error) {
	args, err := mappers.ParseArgs(resource.Args)
	if err != nil {
		return mappers.JobCreateForm{}, err
	}

	form := mappers.JobCreateForm{
		PipelineID: resource.PipelineId,
		Type:       string(resource.Type),
		Args:       args,
	}
	if resource.TriggerIds != nil {
		form.TriggerIDs = *resource.TriggerIds
	}
	return form, nil
}

func JobUpdateFormApi(resource api.JobUpdate) (mappers.JobUpdateForm, error) {
	form := mappers.JobUpdateForm{
		ErrorMessage: resource.ErrorMessage,
	}

	if resource.Status != nil {
		status := string(*resource.Status)
		form.Status = &status
	}

	// absent or null args leave the stored ones untouched
	if raw := bytes.TrimSpace(resource.Args); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		args, err := mappers.ParseArgs(raw)
		if err != nil {
			return mappers.JobUpdateForm{}, err
		}
		form.Args = args
	}

	if resource.WaveForecastData != nil {
		form.WaveForecastData = WaveForecastDataFromApi(*resource.WaveForecastData)
	}

	return form, nil
}

func WaveForecastDataFromApi(data api.WaveForecastData) *model.WaveForecastData {
	entries := make([]model.WaveForecastEntry, 0, len(data.Data))
	for _, e := range data.Data {
		entries = append(entries, model.WaveForecastEntry{
			Time:      e.Time,
			Height:    e.Height,
			Direction: e.Direction,
			Period:    e.Period,
		})
	}
	return &model.WaveForecastData{
		Data:     entries,
		Location: data.Location,
		Unit:     data.Unit,
	}
}

func PipelineCreateFormApi(resource api.PipelineCreate) mappers.PipelineCreateForm {
	form := mappers.PipelineCreateForm{
		Name:        resource.Name,
		Description: resource.Description,
	}
	if resource.Status != nil {
		form.Status = string(*resource.Status)
	}
	if resource.Metadata != nil {
		form.Metadata = *resource.Metadata
	}
	return form
}

func PipelineUpdateFormApi(resource api.PipelineUpdate) mappers.PipelineUpdateForm {
	form := mappers.PipelineUpdateForm{
		Description: resource.Description,
		Metadata:    resource.Metadata,
	}
	if resource.Status != nil {
		status := string(*resource.Status)
		form.Status = &status
	}
	return form
}
