package store_test

import (
	"context"
	"time"

	st "github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("job store", Ordered, func() {
	var (
		s        st.Store
		gormdb   *gorm.DB
		pipeline *model.Pipeline
	)

	BeforeAll(func() {
		s, gormdb = newTestStore("store_jobs")
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		var err error
		pipeline, err = s.Pipeline().Create(context.TODO(), model.Pipeline{Name: "jobs", Status: "active"})
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM job_triggers;")
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM pipelines;")
	})

	newJob := func(jobType, status string, triggers ...string) *model.Job {
		job, err := s.Job().Create(context.TODO(), model.Job{
			PipelineID: pipeline.ID,
			Type:       jobType,
			Status:     status,
			Args:       map[string]any{"location": "San Francisco Bay"},
		}, triggers...)
		Expect(err).To(BeNil())
		return job
	}

	Context("create", func() {
		It("creates a job with its trigger edges", func() {
			terrain := newJob("fetchTerrain", "completed")
			wave := newJob("waveForecast", "pending", terrain.ID)

			Expect(wave.ID).To(HavePrefix("job_"))

			count := 0
			tx := gormdb.Raw("SELECT COUNT(*) FROM job_triggers WHERE job_id = ? AND trigger_id = ?", wave.ID, terrain.ID).Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rejects a job whose pipeline does not exist", func() {
			_, err := s.Job().Create(context.TODO(), model.Job{PipelineID: "pipeline_missing", Type: "fetchTerrain", Status: "pending"})
			Expect(err).To(MatchError(st.ErrForeignKey))
		})
	})

	Context("get", func() {
		It("loads the pipeline and the triggering jobs", func() {
			terrain := newJob("fetchTerrain", "completed")
			weather := newJob("weatherForecast", "completed")
			wave := newJob("waveForecast", "pending", terrain.ID, weather.ID)

			job, err := s.Job().Get(context.TODO(), wave.ID)
			Expect(err).To(BeNil())
			Expect(job.Pipeline).ToNot(BeNil())
			Expect(job.Pipeline.Name).To(Equal("jobs"))
			Expect(job.Args).To(HaveKeyWithValue("location", "San Francisco Bay"))
			Expect(job.Triggers).To(HaveLen(2))
			Expect([]string{job.Triggers[0].ID, job.Triggers[1].ID}).To(ConsistOf(terrain.ID, weather.ID))
		})

		It("returns an empty trigger list for an untriggered job", func() {
			terrain := newJob("fetchTerrain", "pending")

			job, err := s.Job().Get(context.TODO(), terrain.ID)
			Expect(err).To(BeNil())
			Expect(job.Triggers).ToNot(BeNil())
			Expect(job.Triggers).To(BeEmpty())
		})

		It("returns ErrRecordNotFound for an unknown id", func() {
			_, err := s.Job().Get(context.TODO(), "job_missing")
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("filters by status", func() {
			newJob("fetchTerrain", "completed")
			newJob("tideForecast", "failed")
			newJob("waveForecast", "completed")

			jobs, err := s.Job().List(context.TODO(), st.NewJobQueryFilter().ByStatus("completed"), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
			for _, j := range jobs {
				Expect(j.Status).To(Equal("completed"))
			}
		})

		It("filters by type and pipeline", func() {
			other, err := s.Pipeline().Create(context.TODO(), model.Pipeline{Name: "other", Status: "active"})
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), model.Job{PipelineID: other.ID, Type: "tideForecast", Status: "pending"})
			Expect(err).To(BeNil())
			newJob("tideForecast", "pending")
			newJob("fetchTerrain", "pending")

			jobs, err := s.Job().List(context.TODO(), st.NewJobQueryFilter().ByType("tideForecast").ByPipelineID(pipeline.ID), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].PipelineID).To(Equal(pipeline.ID))
		})

		It("filters by creation date and sorts newest first", func() {
			now := time.Now().UTC()
			for i, jobType := range []string{"fetchTerrain", "weatherForecast", "waveForecast"} {
				_, err := s.Job().Create(context.TODO(), model.Job{
					PipelineID: pipeline.ID,
					Type:       jobType,
					Status:     "pending",
					CreatedAt:  now.Add(-time.Duration(i) * 24 * time.Hour),
				})
				Expect(err).To(BeNil())
			}

			jobs, err := s.Job().List(context.TODO(), st.NewJobQueryFilter(), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(3))
			Expect(jobs[0].Type).To(Equal("fetchTerrain"))
			Expect(jobs[2].Type).To(Equal("waveForecast"))

			jobs, err = s.Job().List(context.TODO(), st.NewJobQueryFilter().CreatedAfter(now.Add(-36*time.Hour)), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))

			jobs, err = s.Job().List(context.TODO(), st.NewJobQueryFilter().CreatedBefore(now.Add(-36*time.Hour)), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Type).To(Equal("waveForecast"))
		})
	})

	Context("update", func() {
		It("updates status, error and result", func() {
			job := newJob("waveForecast", "processing")

			location := "Half Moon Bay"
			Expect(job.SetWaveForecastData(&model.WaveForecastData{
				Data:     []model.WaveForecastEntry{{Time: "2023-09-25 15:00", Height: 1.5, Direction: "SW", Period: 8.2}},
				Location: &location,
			})).To(Succeed())
			job.Status = "completed"

			updated, err := s.Job().Update(context.TODO(), *job)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("completed"))
			Expect(updated.ErrorMessage).To(BeNil())
			Expect(updated.UpdatedAt).To(BeTemporally(">=", job.CreatedAt))

			data, err := updated.GetWaveForecastData()
			Expect(err).To(BeNil())
			Expect(data.Data).To(HaveLen(1))
			Expect(*data.Location).To(Equal(location))
		})

		It("clears the error message and result", func() {
			job := newJob("tideForecast", "failed")
			msg := "timeout"
			job.ErrorMessage = &msg
			_, err := s.Job().Update(context.TODO(), *job)
			Expect(err).To(BeNil())

			job.ErrorMessage = nil
			job.Status = "pending"
			updated, err := s.Job().Update(context.TODO(), *job)
			Expect(err).To(BeNil())
			Expect(updated.ErrorMessage).To(BeNil())
			Expect(updated.WaveForecastData).To(BeNil())
		})

		It("returns ErrRecordNotFound for an unknown id", func() {
			_, err := s.Job().Update(context.TODO(), model.Job{ID: "job_missing", Status: "pending"})
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("delete", func() {
		It("removes the job and the edges on both sides", func() {
			terrain := newJob("fetchTerrain", "completed")
			weather := newJob("weatherForecast", "completed", terrain.ID)
			wave := newJob("waveForecast", "pending", weather.ID)

			Expect(s.Job().Delete(context.TODO(), weather.ID)).To(Succeed())

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM job_triggers;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(0))

			jobs, err := s.Job().List(context.TODO(), nil, nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))

			job, err := s.Job().Get(context.TODO(), wave.ID)
			Expect(err).To(BeNil())
			Expect(job.Triggers).To(BeEmpty())
		})

		It("returns ErrRecordNotFound for an unknown id", func() {
			Expect(s.Job().Delete(context.TODO(), "job_missing")).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("count", func() {
		It("counts jobs per status", func() {
			newJob("fetchTerrain", "pending")
			newJob("weatherForecast", "pending")
			newJob("tideForecast", "failed")

			total, err := s.Job().Count(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(total).To(Equal(int64(3)))

			counts, err := s.Job().CountByStatus(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(counts).To(ConsistOf(
				model.StatusCount{Status: "pending", Count: 2},
				model.StatusCount{Status: "failed", Count: 1},
			))
		})
	})
})
