package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/events"
	"github.com/forecast-ops/job-tracker/internal/service/mappers"
	"github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/internal/store/model"
	"github.com/forecast-ops/job-tracker/pkg/log"
)

type PipelineService struct {
	store       store.Store
	eventWriter EventWriter
	logger      *log.StructuredLogger
}

func NewPipelineService(store store.Store, ew EventWriter) *PipelineService {
	return &PipelineService{
		store:       store,
		eventWriter: ew,
		logger:      log.NewDebugLogger("pipeline_service"),
	}
}

func (ps *PipelineService) ListPipelines(ctx context.Context, status string) (model.PipelineList, error) {
	logger := ps.logger.WithContext(ctx)
	tracer := logger.Operation("list_pipelines").
		WithString("status", status).
		Build()

	filter := store.NewPipelineQueryFilter()
	if status != "" {
		if !v1alpha1.PipelineStatus(status).Valid() {
			return nil, NewErrInvalidFilter("status", status)
		}
		filter = filter.ByStatus(status)
	}

	pipelines, err := ps.store.Pipeline().List(ctx, filter, store.NewQueryOptions().WithSortOrder("pipelines", store.SortByCreatedTimeDesc))
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	tracer.Success().WithInt("count", len(pipelines)).Log()
	return pipelines, nil
}

// GetPipeline returns the pipeline and the number of its jobs in every job status.
func (ps *PipelineService) GetPipeline(ctx context.Context, id string) (*model.Pipeline, map[string]int, error) {
	logger := ps.logger.WithContext(ctx)
	tracer := logger.Operation("get_pipeline").
		WithString("pipeline_id", id).
		Build()

	pipeline, err := ps.store.Pipeline().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrPipelineNotFound(id)
		}
		return nil, nil, fmt.Errorf("failed to get pipeline: %w", err)
	}

	counts, err := ps.store.Job().CountByStatus(ctx, store.NewJobQueryFilter().ByPipelineID(id))
	if err != nil {
		tracer.Error(err).Log()
		return nil, nil, fmt.Errorf("failed to count pipeline jobs: %w", err)
	}

	jobCounts := make(map[string]int, len(v1alpha1.JobStatuses()))
	for _, s := range v1alpha1.JobStatuses() {
		jobCounts[string(s)] = 0
	}
	for _, c := range counts {
		jobCounts[c.Status] = c.Count
	}

	tracer.Success().WithString("status", pipeline.Status).Log()
	return pipeline, jobCounts, nil
}

func (ps *PipelineService) CreatePipeline(ctx context.Context, form mappers.PipelineCreateForm) (*model.Pipeline, error) {
	logger := ps.logger.WithContext(ctx)
	tracer := logger.Operation("create_pipeline").
		WithString("name", form.Name).
		WithString("status", form.Status).
		Build()

	pipeline := form.ToModel()
	if !v1alpha1.PipelineStatus(pipeline.Status).Valid() {
		return nil, NewErrInvalidArgs("unknown pipeline status %q", pipeline.Status)
	}

	created, err := ps.store.Pipeline().Create(ctx, pipeline)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	publish(ctx, ps.eventWriter, events.PipelineCreatedKind, mappers.PipelineEventFromModel(*created))

	tracer.Success().WithString("pipeline_id", created.ID).Log()
	return created, nil
}

func (ps *PipelineService) UpdatePipeline(ctx context.Context, id string, form mappers.PipelineUpdateForm) (*model.Pipeline, error) {
	logger := ps.logger.WithContext(ctx)
	tracer := logger.Operation("update_pipeline").
		WithString("pipeline_id", id).
		WithStringPtr("status", form.Status).
		Build()

	if form.Status != nil && !v1alpha1.PipelineStatus(*form.Status).Valid() {
		return nil, NewErrInvalidArgs("unknown pipeline status %q", *form.Status)
	}

	ctx, err := ps.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	pipeline, err := ps.store.Pipeline().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPipelineNotFound(id)
		}
		return nil, fmt.Errorf("failed to get pipeline: %w", err)
	}

	if form.Status != nil {
		pipeline.Status = *form.Status
	}
	if form.Description != nil {
		pipeline.Description = form.Description
	}
	if form.Metadata != nil {
		pipeline.Metadata = *form.Metadata
	}

	updated, err := ps.store.Pipeline().Update(ctx, *pipeline)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to update pipeline: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	publish(ctx, ps.eventWriter, events.PipelineUpdatedKind, mappers.PipelineEventFromModel(*updated))

	tracer.Success().WithString("status", updated.Status).Log()
	return updated, nil
}
