package service_test

import (
	"context"
	"time"

	"github.com/forecast-ops/job-tracker/internal/events"
	"github.com/forecast-ops/job-tracker/internal/service"
	"github.com/forecast-ops/job-tracker/internal/service/mappers"
	"github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("job service", Ordered, func() {
	var (
		s        store.Store
		gormdb   *gorm.DB
		recorder *eventRecorder
		srv      *service.JobService
		pipeline *model.Pipeline
	)

	BeforeAll(func() {
		s, gormdb = newTestStore("service_jobs")
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		recorder = &eventRecorder{}
		srv = service.NewJobService(s, recorder)

		var err error
		pipeline, err = s.Pipeline().Create(context.TODO(), model.Pipeline{Name: "Bay Area", Status: "active"})
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM job_triggers;")
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM pipelines;")
	})

	createForm := func(jobType string, triggers ...string) mappers.JobCreateForm {
		return mappers.JobCreateForm{
			PipelineID: pipeline.ID,
			Type:       jobType,
			Args:       map[string]any{"location": "San Francisco Bay"},
			TriggerIDs: triggers,
		}
	}

	insertJob := func(jobType, status string) *model.Job {
		job, err := s.Job().Create(context.TODO(), model.Job{PipelineID: pipeline.ID, Type: jobType, Status: status})
		Expect(err).To(BeNil())
		return job
	}

	Context("create", func() {
		It("creates a pending job", func() {
			job, err := srv.CreateJob(context.TODO(), createForm("waveForecast"))
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal("pending"))
			Expect(job.ErrorMessage).To(BeNil())
			Expect(job.Args).To(HaveKeyWithValue("location", "San Francisco Bay"))
			Expect(job.Pipeline).ToNot(BeNil())
			Expect(job.Triggers).To(BeEmpty())

			Expect(recorder.Kinds()).To(Equal([]string{events.JobCreatedKind}))
		})

		It("records the triggering jobs", func() {
			terrain := insertJob("fetchTerrain", "completed")

			job, err := srv.CreateJob(context.TODO(), createForm("waveForecast", terrain.ID, terrain.ID))
			Expect(err).To(BeNil())
			Expect(job.Triggers).To(HaveLen(1))
			Expect(job.Triggers[0].ID).To(Equal(terrain.ID))

			ev := recorder.Last().Payload.(events.JobEvent)
			Expect(ev.TriggerIDs).To(Equal([]string{terrain.ID}))
		})

		It("rejects a nonexistent pipeline", func() {
			form := createForm("fetchTerrain")
			form.PipelineID = "pipeline_missing"

			_, err := srv.CreateJob(context.TODO(), form)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrUnknownPipeline{}))

			count := -1
			Expect(gormdb.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
			Expect(recorder.Kinds()).To(BeEmpty())
		})

		It("rejects a nonexistent trigger and writes nothing", func() {
			terrain := insertJob("fetchTerrain", "completed")

			_, err := srv.CreateJob(context.TODO(), createForm("waveForecast", terrain.ID, "job_missing"))
			Expect(err).To(BeAssignableToTypeOf(&service.ErrTriggerNotFound{}))
			Expect(err.Error()).To(ContainSubstring("job_missing"))

			count := -1
			Expect(gormdb.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
			Expect(gormdb.Raw("SELECT COUNT(*) FROM job_triggers;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("rejects missing args", func() {
			form := createForm("fetchTerrain")
			form.Args = nil

			_, err := srv.CreateJob(context.TODO(), form)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidArgs{}))
		})

		It("rejects an unknown type", func() {
			_, err := srv.CreateJob(context.TODO(), createForm("surfReport"))
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidArgs{}))
		})
	})

	Context("list", func() {
		It("returns only completed jobs when filtered by status", func() {
			insertJob("fetchTerrain", "completed")
			insertJob("weatherForecast", "pending")
			insertJob("waveForecast", "completed")
			insertJob("tideForecast", "failed")

			jobs, err := srv.ListJobs(context.TODO(), service.NewJobFilter().WithStatus("completed"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
			for _, j := range jobs {
				Expect(j.Status).To(Equal("completed"))
			}
		})

		It("combines type and pipeline filters", func() {
			insertJob("tideForecast", "pending")
			insertJob("fetchTerrain", "pending")

			jobs, err := srv.ListJobs(context.TODO(), service.NewJobFilter().WithType("tideForecast").WithPipelineID(pipeline.ID))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))

			jobs, err = srv.ListJobs(context.TODO(), service.NewJobFilter().WithPipelineID("pipeline_other"))
			Expect(err).To(BeNil())
			Expect(jobs).To(BeEmpty())
		})

		It("filters on a date range", func() {
			now := time.Now().UTC()
			_, err := s.Job().Create(context.TODO(), model.Job{PipelineID: pipeline.ID, Type: "fetchTerrain", Status: "pending", CreatedAt: now.Add(-72 * time.Hour)})
			Expect(err).To(BeNil())
			insertJob("waveForecast", "pending")

			from := now.Add(-24 * time.Hour)
			jobs, err := srv.ListJobs(context.TODO(), service.NewJobFilter().WithDateRange(&from, nil))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Type).To(Equal("waveForecast"))
		})

		It("rejects an unknown status", func() {
			_, err := srv.ListJobs(context.TODO(), service.NewJobFilter().WithStatus("done"))
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidFilter{}))
		})
	})

	Context("get", func() {
		It("returns ErrResourceNotFound for an unknown id", func() {
			_, err := srv.GetJob(context.TODO(), "job_missing")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("update", func() {
		It("clears the error message when the job completes", func() {
			job := insertJob("waveForecast", "failed")
			msg := "timeout"
			job.ErrorMessage = &msg
			_, err := s.Job().Update(context.TODO(), *job)
			Expect(err).To(BeNil())

			status := "completed"
			location := "San Francisco Bay"
			updated, err := srv.UpdateJob(context.TODO(), job.ID, mappers.JobUpdateForm{
				Status: &status,
				WaveForecastData: &model.WaveForecastData{
					Data:     []model.WaveForecastEntry{{Time: "2023-09-25 15:00", Height: 1.5, Direction: "SW", Period: 8.2}},
					Location: &location,
				},
			})
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("completed"))
			Expect(updated.ErrorMessage).To(BeNil())

			data, err := updated.GetWaveForecastData()
			Expect(err).To(BeNil())
			Expect(data.Data).To(HaveLen(1))

			ev := recorder.Last()
			Expect(ev.Kind).To(Equal(events.JobUpdatedKind))
			Expect(ev.Payload.(events.JobEvent).PreviousStatus).To(Equal("failed"))
		})

		It("keeps a supplied error message", func() {
			job := insertJob("tideForecast", "processing")

			status, msg := "failed", "API connection timed out after 30 seconds"
			updated, err := srv.UpdateJob(context.TODO(), job.ID, mappers.JobUpdateForm{Status: &status, ErrorMessage: &msg})
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("failed"))
			Expect(*updated.ErrorMessage).To(Equal(msg))
		})

		It("rejects an unknown status", func() {
			job := insertJob("tideForecast", "processing")
			status := "done"
			_, err := srv.UpdateJob(context.TODO(), job.ID, mappers.JobUpdateForm{Status: &status})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidArgs{}))
		})

		It("returns ErrResourceNotFound for an unknown id", func() {
			_, err := srv.UpdateJob(context.TODO(), "job_missing", mappers.JobUpdateForm{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("delete", func() {
		It("removes the job from listings and trigger lists", func() {
			terrain := insertJob("fetchTerrain", "completed")
			wave, err := srv.CreateJob(context.TODO(), createForm("waveForecast", terrain.ID))
			Expect(err).To(BeNil())

			Expect(srv.DeleteJob(context.TODO(), terrain.ID)).To(Succeed())

			jobs, err := srv.ListJobs(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].ID).To(Equal(wave.ID))

			got, err := srv.GetJob(context.TODO(), wave.ID)
			Expect(err).To(BeNil())
			Expect(got.Triggers).To(BeEmpty())

			Expect(recorder.Last().Kind).To(Equal(events.JobDeletedKind))
		})

		It("returns ErrResourceNotFound for an unknown id", func() {
			err := srv.DeleteJob(context.TODO(), "job_missing")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("retry", func() {
		It("moves a failed job back to pending", func() {
			job := insertJob("tideForecast", "failed")
			msg := "API connection timed out after 30 seconds"
			job.ErrorMessage = &msg
			stored, err := s.Job().Update(context.TODO(), *job)
			Expect(err).To(BeNil())

			retried, err := srv.RetryJob(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(retried.Status).To(Equal("pending"))
			Expect(retried.ErrorMessage).To(BeNil())
			Expect(retried.UpdatedAt).To(BeTemporally(">=", stored.UpdatedAt))

			ev := recorder.Last()
			Expect(ev.Kind).To(Equal(events.JobRetriedKind))
			Expect(ev.Payload.(events.JobEvent).PreviousStatus).To(Equal("failed"))
		})

		It("accepts a pending job", func() {
			job := insertJob("tideForecast", "pending")
			retried, err := srv.RetryJob(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(retried.Status).To(Equal("pending"))
		})

		DescribeTable("rejects jobs that are not retryable",
			func(status string) {
				job := insertJob("tideForecast", status)

				_, err := srv.RetryJob(context.TODO(), job.ID)
				Expect(err).To(BeAssignableToTypeOf(&service.ErrJobNotRetryable{}))

				got, err := s.Job().Get(context.TODO(), job.ID)
				Expect(err).To(BeNil())
				Expect(got.Status).To(Equal(status))
			},
			Entry("completed", "completed"),
			Entry("processing", "processing"),
		)

		It("returns ErrResourceNotFound for an unknown id", func() {
			_, err := srv.RetryJob(context.TODO(), "job_missing")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
