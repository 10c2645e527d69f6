package store

import (
	"context"

	"github.com/forecast-ops/job-tracker/internal/store/model"
	"gorm.io/gorm"
)

type Pipeline interface {
	List(ctx context.Context, filter *PipelineQueryFilter, opts *QueryOptions) (model.PipelineList, error)
	Get(ctx context.Context, id string) (*model.Pipeline, error)
	Create(ctx context.Context, pipeline model.Pipeline) (*model.Pipeline, error)
	Update(ctx context.Context, pipeline model.Pipeline) (*model.Pipeline, error)
	Exists(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context, filter *PipelineQueryFilter) ([]model.StatusCount, error)
}

type PipelineStore struct {
	db *gorm.DB
}

// Make sure we conform to Pipeline interface
var _ Pipeline = (*PipelineStore)(nil)

func NewPipelineStore(db *gorm.DB) Pipeline {
	return &PipelineStore{db: db}
}

func (p *PipelineStore) List(ctx context.Context, filter *PipelineQueryFilter, opts *QueryOptions) (model.PipelineList, error) {
	var pipelines model.PipelineList
	tx := p.getDB(ctx).WithContext(ctx).Model(&pipelines)
	if filter != nil {
		tx = filter.apply(tx)
	}
	if opts == nil {
		opts = NewQueryOptions().WithSortOrder("pipelines", SortByCreatedTimeDesc)
	}
	tx = opts.apply(tx)

	if err := tx.Find(&pipelines).Error; err != nil {
		return nil, translateError(err)
	}
	return pipelines, nil
}

func (p *PipelineStore) Get(ctx context.Context, id string) (*model.Pipeline, error) {
	var pipeline model.Pipeline
	if err := p.getDB(ctx).WithContext(ctx).Where("id = ?", id).First(&pipeline).Error; err != nil {
		return nil, translateError(err)
	}
	return &pipeline, nil
}

func (p *PipelineStore) Create(ctx context.Context, pipeline model.Pipeline) (*model.Pipeline, error) {
	if pipeline.ID == "" {
		pipeline.ID = model.NewPipelineID()
	}
	if pipeline.Metadata == nil {
		pipeline.Metadata = map[string]any{}
	}
	if err := p.getDB(ctx).WithContext(ctx).Create(&pipeline).Error; err != nil {
		return nil, translateError(err)
	}
	return &pipeline, nil
}

// Update writes the mutable columns of pipeline and returns the stored row.
func (p *PipelineStore) Update(ctx context.Context, pipeline model.Pipeline) (*model.Pipeline, error) {
	if pipeline.Metadata == nil {
		pipeline.Metadata = map[string]any{}
	}
	result := p.getDB(ctx).WithContext(ctx).
		Model(&pipeline).
		Select("name", "description", "status", "metadata", "updated_at").
		Updates(&pipeline)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return p.Get(ctx, pipeline.ID)
}

func (p *PipelineStore) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := p.getDB(ctx).WithContext(ctx).Model(&model.Pipeline{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (p *PipelineStore) CountByStatus(ctx context.Context, filter *PipelineQueryFilter) ([]model.StatusCount, error) {
	var counts []model.StatusCount
	tx := p.getDB(ctx).WithContext(ctx).Model(&model.Pipeline{})
	if filter != nil {
		tx = filter.apply(tx)
	}
	if err := tx.Select("pipelines.status AS status, COUNT(*) AS count").Group("pipelines.status").Scan(&counts).Error; err != nil {
		return nil, translateError(err)
	}
	return counts, nil
}

func (p *PipelineStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
