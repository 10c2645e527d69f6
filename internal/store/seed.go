package store

import (
	"context"
	"time"

	"github.com/forecast-ops/job-tracker/internal/store/model"
)

const samplePipelineName = "Bay Area Forecast Pipeline"

// Seed inserts a sample pipeline with one job in each status. It does nothing
// when the sample pipeline is already present.
func (s *DataStore) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Pipeline{}).Where("name = ?", samplePipelineName).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	ctx, err := s.NewTransactionContext(ctx)
	if err != nil {
		return err
	}

	if err := s.seed(ctx); err != nil {
		_, _ = Rollback(ctx)
		return err
	}

	_, err = Commit(ctx)
	return err
}

func (s *DataStore) seed(ctx context.Context) error {
	now := time.Now().UTC()
	description := "Pipeline for San Francisco Bay area forecasts and terrain data"

	pipeline, err := s.Pipeline().Create(ctx, model.Pipeline{
		Name:        samplePipelineName,
		Description: &description,
		Status:      "active",
		Metadata:    map[string]any{"region": "West Coast", "priority": "high"},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}

	terrain, err := s.Job().Create(ctx, model.Job{
		PipelineID: pipeline.ID,
		Type:       "fetchTerrain",
		Status:     "pending",
		Args:       map[string]any{"location": "San Francisco Bay", "resolution": "high", "format": "GeoJSON"},
		CreatedAt:  now.Add(-7 * 24 * time.Hour),
		UpdatedAt:  now.Add(-7 * 24 * time.Hour),
	})
	if err != nil {
		return err
	}

	if _, err := s.Job().Create(ctx, model.Job{
		PipelineID: pipeline.ID,
		Type:       "weatherForecast",
		Status:     "processing",
		Args:       map[string]any{"location": "San Francisco Bay", "days": 5, "include_hourly": true},
		CreatedAt:  now.Add(-84 * time.Hour),
		UpdatedAt:  now.Add(-2 * time.Hour),
	}); err != nil {
		return err
	}

	location, unit := "San Francisco Bay", "metric"
	wave := model.Job{
		PipelineID: pipeline.ID,
		Type:       "waveForecast",
		Status:     "completed",
		Args:       map[string]any{"location": "San Francisco Bay", "days": 2, "include_direction": true},
		CreatedAt:  now.Add(-30 * time.Hour),
		UpdatedAt:  now.Add(-5 * time.Hour),
	}
	if err := wave.SetWaveForecastData(&model.WaveForecastData{
		Data: []model.WaveForecastEntry{
			{Time: "2023-09-25 15:00", Height: 1.5, Direction: "SW", Period: 8.2},
			{Time: "2023-09-25 16:00", Height: 1.7, Direction: "SW", Period: 8.4},
			{Time: "2023-09-25 17:00", Height: 1.8, Direction: "WSW", Period: 8.5},
		},
		Location: &location,
		Unit:     &unit,
	}); err != nil {
		return err
	}
	if _, err := s.Job().Create(ctx, wave, terrain.ID); err != nil {
		return err
	}

	errorMessage := "API connection timed out after 30 seconds"
	_, err = s.Job().Create(ctx, model.Job{
		PipelineID:   pipeline.ID,
		Type:         "tideForecast",
		Status:       "failed",
		ErrorMessage: &errorMessage,
		Args:         map[string]any{"location": "San Francisco Bay", "days": 3},
		CreatedAt:    now.Add(-time.Hour),
		UpdatedAt:    now.Add(-30 * time.Minute),
	})
	return err
}
