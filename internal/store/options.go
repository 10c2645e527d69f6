package store

import (
	"time"

	"gorm.io/gorm"
)

type SortOrder int

const (
	SortByCreatedTimeDesc SortOrder = iota
	SortByCreatedTime
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

func (b *BaseQuerier) apply(tx *gorm.DB) *gorm.DB {
	if b == nil {
		return tx
	}
	for _, fn := range b.QueryFn {
		tx = fn(tx)
	}
	return tx
}

type JobQueryFilter struct {
	BaseQuerier
}

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

func (f *JobQueryFilter) ByType(jobType string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("jobs.type = ?", jobType)
	})
	return f
}

func (f *JobQueryFilter) ByStatus(status ...string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("jobs.status IN ?", status)
	})
	return f
}

func (f *JobQueryFilter) ByPipelineID(pipelineID string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("jobs.pipeline_id = ?", pipelineID)
	})
	return f
}

func (f *JobQueryFilter) ByIDs(ids []string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("jobs.id IN ?", ids)
	})
	return f
}

func (f *JobQueryFilter) CreatedAfter(t time.Time) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("jobs.created_at >= ?", t.UTC())
	})
	return f
}

func (f *JobQueryFilter) CreatedBefore(t time.Time) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("jobs.created_at <= ?", t.UTC())
	})
	return f
}

type PipelineQueryFilter struct {
	BaseQuerier
}

func NewPipelineQueryFilter() *PipelineQueryFilter {
	return &PipelineQueryFilter{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

func (f *PipelineQueryFilter) ByStatus(status string) *PipelineQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("pipelines.status = ?", status)
	})
	return f
}

type QueryOptions struct {
	BaseQuerier
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

// WithSortOrder orders on columns of table.
func (o *QueryOptions) WithSortOrder(table string, sort SortOrder) *QueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByCreatedTime:
			return tx.Order(table + ".created_at").Order(table + ".id")
		default:
			return tx.Order(table + ".created_at DESC").Order(table + ".id DESC")
		}
	})
	return o
}
