package store

import (
	"context"

	"github.com/forecast-ops/job-tracker/internal/store/model"
	"gorm.io/gorm"
)

type Job interface {
	List(ctx context.Context, filter *JobQueryFilter, opts *QueryOptions) (model.JobList, error)
	Get(ctx context.Context, id string) (*model.Job, error)
	Create(ctx context.Context, job model.Job, triggerIDs ...string) (*model.Job, error)
	Update(ctx context.Context, job model.Job) (*model.Job, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter *JobQueryFilter) (int64, error)
	CountByStatus(ctx context.Context, filter *JobQueryFilter) ([]model.StatusCount, error)
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (j *JobStore) List(ctx context.Context, filter *JobQueryFilter, opts *QueryOptions) (model.JobList, error) {
	var jobs model.JobList
	tx := j.getDB(ctx).WithContext(ctx).Model(&jobs)
	if filter != nil {
		tx = filter.apply(tx)
	}
	if opts == nil {
		opts = NewQueryOptions().WithSortOrder("jobs", SortByCreatedTimeDesc)
	}
	tx = opts.apply(tx)

	if err := tx.Find(&jobs).Error; err != nil {
		return nil, translateError(err)
	}
	return jobs, nil
}

// Get returns the job with its pipeline and the jobs that triggered it.
func (j *JobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	db := j.getDB(ctx).WithContext(ctx)

	var job model.Job
	if err := db.Preload("Pipeline").Where("id = ?", id).First(&job).Error; err != nil {
		return nil, translateError(err)
	}

	var triggerIDs []string
	if err := db.Model(&model.JobTrigger{}).Where("job_id = ?", id).Order("id").Pluck("trigger_id", &triggerIDs).Error; err != nil {
		return nil, translateError(err)
	}
	job.Triggers = []model.Job{}
	if len(triggerIDs) == 0 {
		return &job, nil
	}

	triggers, err := j.List(ctx, NewJobQueryFilter().ByIDs(triggerIDs), NewQueryOptions().WithSortOrder("jobs", SortByCreatedTime))
	if err != nil {
		return nil, err
	}
	job.Triggers = triggers
	return &job, nil
}

// Create inserts job and one trigger edge per triggerID. Callers wanting both
// writes to be atomic run it inside a transaction context.
func (j *JobStore) Create(ctx context.Context, job model.Job, triggerIDs ...string) (*model.Job, error) {
	db := j.getDB(ctx).WithContext(ctx)

	if job.ID == "" {
		job.ID = model.NewJobID()
	}
	if job.Args == nil {
		job.Args = map[string]any{}
	}
	job.Pipeline = nil
	job.Triggers = nil

	if err := db.Omit("Pipeline").Create(&job).Error; err != nil {
		return nil, translateError(err)
	}

	for _, triggerID := range triggerIDs {
		edge := model.JobTrigger{JobID: job.ID, TriggerID: triggerID}
		if err := db.Create(&edge).Error; err != nil {
			return nil, translateError(err)
		}
	}

	return &job, nil
}

// Update writes the mutable columns of job and bumps updated_at.
func (j *JobStore) Update(ctx context.Context, job model.Job) (*model.Job, error) {
	if job.Args == nil {
		job.Args = map[string]any{}
	}
	job.Pipeline = nil

	result := j.getDB(ctx).WithContext(ctx).
		Model(&job).
		Select("status", "error_message", "args", "wave_forecast_data", "updated_at").
		Updates(&job)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return j.Get(ctx, job.ID)
}

// Delete removes the job and every trigger edge referencing it on either side.
func (j *JobStore) Delete(ctx context.Context, id string) error {
	db := j.getDB(ctx).WithContext(ctx)

	if err := db.Where("job_id = ? OR trigger_id = ?", id, id).Delete(&model.JobTrigger{}).Error; err != nil {
		return translateError(err)
	}

	result := db.Where("id = ?", id).Delete(&model.Job{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (j *JobStore) Count(ctx context.Context, filter *JobQueryFilter) (int64, error) {
	var count int64
	tx := j.getDB(ctx).WithContext(ctx).Model(&model.Job{})
	if filter != nil {
		tx = filter.apply(tx)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (j *JobStore) CountByStatus(ctx context.Context, filter *JobQueryFilter) ([]model.StatusCount, error) {
	var counts []model.StatusCount
	tx := j.getDB(ctx).WithContext(ctx).Model(&model.Job{})
	if filter != nil {
		tx = filter.apply(tx)
	}
	if err := tx.Select("jobs.status AS status, COUNT(*) AS count").Group("jobs.status").Scan(&counts).Error; err != nil {
		return nil, translateError(err)
	}
	return counts, nil
}

func (j *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return j.db
}
