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
	"github.com/forecast-ops/job-tracker/pkg/metrics"
)

type JobService struct {
	store       store.Store
	eventWriter EventWriter
	logger      *log.StructuredLogger
}

func NewJobService(store store.Store, ew EventWriter) *JobService {
	return &JobService{
		store:       store,
		eventWriter: ew,
		logger:      log.NewDebugLogger("job_service"),
	}
}

func (js *JobService) ListJobs(ctx context.Context, filter *JobFilter) (model.JobList, error) {
	if filter == nil {
		filter = NewJobFilter()
	}

	logger := js.logger.WithContext(ctx)
	tracer := logger.Operation("list_jobs").
		WithString("type", filter.Type).
		WithString("status", filter.Status).
		WithString("pipeline_id", filter.PipelineID).
		WithParam("from", filter.From).
		WithParam("to", filter.To).
		Build()

	if err := filter.validate(); err != nil {
		return nil, err
	}

	jobs, err := js.store.Job().List(ctx, filter.toStoreFilter(), store.NewQueryOptions().WithSortOrder("jobs", store.SortByCreatedTimeDesc))
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	tracer.Success().WithInt("count", len(jobs)).Log()
	return jobs, nil
}

func (js *JobService) GetJob(ctx context.Context, id string) (*model.Job, error) {
	logger := js.logger.WithContext(ctx)
	tracer := logger.Operation("get_job").
		WithString("job_id", id).
		Build()

	job, err := js.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	tracer.Success().
		WithString("status", job.Status).
		WithInt("triggers", len(job.Triggers)).
		Log()
	return job, nil
}

// CreateJob stores a new pending job and its trigger edges in one transaction.
func (js *JobService) CreateJob(ctx context.Context, form mappers.JobCreateForm) (*model.Job, error) {
	logger := js.logger.WithContext(ctx)
	tracer := logger.Operation("create_job").
		WithString("pipeline_id", form.PipelineID).
		WithString("type", form.Type).
		WithParam("trigger_ids", form.TriggerIDs).
		Build()

	if !v1alpha1.JobType(form.Type).Valid() {
		return nil, NewErrInvalidArgs("unknown job type %q", form.Type)
	}
	if form.Args == nil {
		return nil, NewErrInvalidArgs("%s", mappers.ErrArgsMissing)
	}
	triggerIDs := form.UniqueTriggerIDs()

	ctx, err := js.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	exists, err := js.store.Pipeline().Exists(ctx, form.PipelineID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pipeline: %w", err)
	}
	if !exists {
		return nil, NewErrUnknownPipeline(form.PipelineID)
	}
	tracer.Step("pipeline_exists").Log()

	if len(triggerIDs) > 0 {
		if err := js.checkTriggers(ctx, triggerIDs); err != nil {
			return nil, err
		}
		tracer.Step("triggers_exist").WithInt("count", len(triggerIDs)).Log()
	}

	created, err := js.store.Job().Create(ctx, form.ToModel(), triggerIDs...)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	job, err := js.store.Job().Get(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read created job: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseJobsCreatedMetric(job.Type)
	ev := mappers.JobEventFromModel(*job, "")
	ev.TriggerIDs = triggerIDs
	publish(ctx, js.eventWriter, events.JobCreatedKind, ev)

	tracer.Success().WithString("job_id", job.ID).Log()
	return job, nil
}

func (js *JobService) checkTriggers(ctx context.Context, ids []string) error {
	found, err := js.store.Job().List(ctx, store.NewJobQueryFilter().ByIDs(ids), nil)
	if err != nil {
		return fmt.Errorf("failed to check trigger jobs: %w", err)
	}
	if len(found) == len(ids) {
		return nil
	}

	known := make(map[string]struct{}, len(found))
	for _, j := range found {
		known[j.ID] = struct{}{}
	}
	missing := make([]string, 0, len(ids)-len(found))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return NewErrTriggerNotFound(missing)
}

// UpdateJob applies a progress report. Moving a job to processing or completed
// clears its error message unless the report carries one.
func (js *JobService) UpdateJob(ctx context.Context, id string, form mappers.JobUpdateForm) (*model.Job, error) {
	logger := js.logger.WithContext(ctx)
	tracer := logger.Operation("update_job").
		WithString("job_id", id).
		WithStringPtr("status", form.Status).
		WithBool("has_error_message", form.ErrorMessage != nil).
		WithBool("has_wave_forecast_data", form.WaveForecastData != nil).
		Build()

	if form.Status != nil && !v1alpha1.JobStatus(*form.Status).Valid() {
		return nil, NewErrInvalidArgs("unknown job status %q", *form.Status)
	}

	ctx, err := js.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	job, err := js.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	previous := job.Status

	if form.Status != nil {
		job.Status = *form.Status
		switch v1alpha1.JobStatus(job.Status) {
		case v1alpha1.JobStatusProcessing, v1alpha1.JobStatusCompleted:
			job.ErrorMessage = nil
		}
	}
	if form.ErrorMessage != nil {
		job.ErrorMessage = form.ErrorMessage
	}
	if form.Args != nil {
		job.Args = form.Args
	}
	if form.WaveForecastData != nil {
		if err := job.SetWaveForecastData(form.WaveForecastData); err != nil {
			return nil, NewErrInvalidArgs("wave_forecast_data: %s", err)
		}
	}

	updated, err := js.store.Job().Update(ctx, *job)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	publish(ctx, js.eventWriter, events.JobUpdatedKind, mappers.JobEventFromModel(*updated, previous))

	tracer.Success().
		WithString("previous_status", previous).
		WithString("status", updated.Status).
		Log()
	return updated, nil
}

func (js *JobService) DeleteJob(ctx context.Context, id string) error {
	logger := js.logger.WithContext(ctx)
	tracer := logger.Operation("delete_job").
		WithString("job_id", id).
		Build()

	ctx, err := js.store.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	job, err := js.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(id)
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	if err := js.store.Job().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(id)
		}
		tracer.Error(err).Log()
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return err
	}

	publish(ctx, js.eventWriter, events.JobDeletedKind, mappers.JobEventFromModel(*job, ""))

	tracer.Success().Log()
	return nil
}

// RetryJob puts a failed or pending job back to pending and clears its error.
func (js *JobService) RetryJob(ctx context.Context, id string) (*model.Job, error) {
	logger := js.logger.WithContext(ctx)
	tracer := logger.Operation("retry_job").
		WithString("job_id", id).
		Build()

	ctx, err := js.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	job, err := js.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	previous := job.Status
	switch v1alpha1.JobStatus(previous) {
	case v1alpha1.JobStatusFailed, v1alpha1.JobStatusPending:
	default:
		return nil, NewErrJobNotRetryable(id, previous)
	}

	job.Status = string(v1alpha1.JobStatusPending)
	job.ErrorMessage = nil

	updated, err := js.store.Job().Update(ctx, *job)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to retry job: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseJobRetriesMetric(updated.Type)
	publish(ctx, js.eventWriter, events.JobRetriedKind, mappers.JobEventFromModel(*updated, previous))

	tracer.Success().WithString("previous_status", previous).Log()
	return updated, nil
}
