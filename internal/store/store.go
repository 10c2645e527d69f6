package store

import (
	"context"

	"github.com/forecast-ops/job-tracker/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Pipeline() Pipeline
	Job() Job
	InitialMigration(ctx context.Context) error
	Seed(ctx context.Context) error
	Close() error
}

type DataStore struct {
	db       *gorm.DB
	pipeline Pipeline
	job      Job
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:       db,
		pipeline: NewPipelineStore(db),
		job:      NewJobStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Pipeline() Pipeline {
	return s.pipeline
}

func (s *DataStore) Job() Job {
	return s.job
}

// InitialMigration creates the schema with gorm. Postgres deployments use the
// goose migrations instead.
func (s *DataStore) InitialMigration(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&model.Pipeline{}, &model.Job{}, &model.JobTrigger{})
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
