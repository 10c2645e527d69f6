package v1alpha1_test

import (
	"context"
	"fmt"
	"net/http"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/internal/store/model"
	"github.com/forecast-ops/job-tracker/pkg/requestid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("job handler", Ordered, func() {
	var (
		s          store.Store
		gormdb     *gorm.DB
		router     http.Handler
		pipelineID string
	)

	jobWithStatus := func(status string) model.Job {
		jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByStatus(status), nil)
		Expect(err).To(BeNil())
		Expect(jobs).NotTo(BeEmpty())
		return jobs[0]
	}

	BeforeAll(func() {
		s, gormdb = newTestStore("handlers_jobs")
		router = newRouter(s)
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		Expect(s.Seed(context.TODO())).To(Succeed())
		pipelines, err := s.Pipeline().List(context.TODO(), nil, nil)
		Expect(err).To(BeNil())
		Expect(pipelines).To(HaveLen(1))
		pipelineID = pipelines[0].ID
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM job_triggers;")
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM pipelines;")
	})

	It("answers the health check", func() {
		rec := do(router, http.MethodGet, "/health", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	Context("list", func() {
		It("lists every job newest first", func() {
			rec := do(router, http.MethodGet, "/api/jobs", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			jobs := decodeBody[api.JobList](rec)
			Expect(jobs).To(HaveLen(4))
			for i := 1; i < len(jobs); i++ {
				Expect(jobs[i-1].CreatedAt).NotTo(BeTemporally("<", jobs[i].CreatedAt))
			}
		})

		It("returns only completed jobs with status=completed", func() {
			rec := do(router, http.MethodGet, "/api/jobs?status=completed", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			jobs := decodeBody[api.JobList](rec)
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Status).To(Equal(api.JobStatusCompleted))
			Expect(jobs[0].WaveForecastData).NotTo(BeNil())
		})

		It("filters by type and pipeline", func() {
			rec := do(router, http.MethodGet, fmt.Sprintf("/api/jobs?type=tideForecast&pipeline_id=%s", pipelineID), "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody[api.JobList](rec)).To(HaveLen(1))

			rec = do(router, http.MethodGet, "/api/jobs?pipeline_id=pipeline_missing", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody[api.JobList](rec)).To(BeEmpty())
		})

		It("filters by creation date", func() {
			// the terrain job was created a week ago
			rec := do(router, http.MethodGet, "/api/jobs?dateTo=2000-01-01", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody[api.JobList](rec)).To(BeEmpty())

			rec = do(router, http.MethodGet, "/api/jobs?dateFrom=2000-01-01", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody[api.JobList](rec)).To(HaveLen(4))
		})

		DescribeTable("rejects invalid filters",
			func(query string) {
				rec := do(router, http.MethodGet, "/api/jobs?"+query, "")
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("status", "status=done"),
			Entry("type", "type=snowForecast"),
			Entry("dateFrom", "dateFrom=yesterday"),
			Entry("dateTo", "dateTo=2024-13-45"),
		)
	})

	Context("get", func() {
		It("returns the job with its triggers and pipeline", func() {
			wave := jobWithStatus("completed")
			terrain := jobWithStatus("pending")

			rec := do(router, http.MethodGet, "/api/jobs/"+wave.ID, "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			job := decodeBody[api.Job](rec)
			Expect(job.Id).To(Equal(wave.ID))
			Expect(job.Pipeline).NotTo(BeNil())
			Expect(job.Pipeline.Id).To(Equal(pipelineID))
			Expect(job.Triggers).NotTo(BeNil())
			Expect(*job.Triggers).To(HaveLen(1))
			Expect((*job.Triggers)[0].Id).To(Equal(terrain.ID))
		})

		It("returns 404 with the request id", func() {
			rec := do(router, http.MethodGet, "/api/jobs/job_missing", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			apiErr := decodeBody[api.Error](rec)
			Expect(apiErr.Message).To(ContainSubstring("job_missing"))
			Expect(apiErr.RequestId).NotTo(BeNil())
			Expect(*apiErr.RequestId).To(Equal(rec.Header().Get(requestid.HeaderName)))
		})
	})

	Context("create", func() {
		It("creates a pending job", func() {
			terrain := jobWithStatus("pending")
			body := fmt.Sprintf(`{"pipeline_id": %q, "type": "waveForecast", "args": {"location": "Monterey Bay"}, "trigger_ids": [%q]}`, pipelineID, terrain.ID)

			rec := do(router, http.MethodPost, "/api/jobs", body)
			Expect(rec.Code).To(Equal(http.StatusCreated))

			job := decodeBody[api.Job](rec)
			Expect(job.Id).To(HavePrefix("job_"))
			Expect(job.Status).To(Equal(api.JobStatusPending))
			Expect(job.Args).To(HaveKeyWithValue("location", "Monterey Bay"))

			rec = do(router, http.MethodGet, "/api/jobs/"+job.Id, "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(*decodeBody[api.Job](rec).Triggers).To(HaveLen(1))
		})

		It("decodes args sent as a JSON string", func() {
			body := fmt.Sprintf(`{"pipeline_id": %q, "type": "tideForecast", "args": "{\"station\": \"9414290\"}"}`, pipelineID)

			rec := do(router, http.MethodPost, "/api/jobs", body)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(decodeBody[api.Job](rec).Args).To(HaveKeyWithValue("station", "9414290"))
		})

		DescribeTable("rejects invalid requests",
			func(body func(pipelineID string) string, message string) {
				rec := do(router, http.MethodPost, "/api/jobs", body(pipelineID))
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(decodeBody[api.Error](rec).Message).To(ContainSubstring(message))
			},
			Entry("invalid JSON args", func(id string) string {
				return fmt.Sprintf(`{"pipeline_id": %q, "type": "tideForecast", "args": "not json"}`, id)
			}, "args must be a JSON object"),
			Entry("array args", func(id string) string {
				return fmt.Sprintf(`{"pipeline_id": %q, "type": "tideForecast", "args": [1, 2]}`, id)
			}, "args must be a JSON object"),
			Entry("missing args", func(id string) string {
				return fmt.Sprintf(`{"pipeline_id": %q, "type": "tideForecast"}`, id)
			}, "args is required"),
			Entry("unknown type", func(id string) string {
				return fmt.Sprintf(`{"pipeline_id": %q, "type": "snowForecast", "args": {}}`, id)
			}, `invalid job type "snowForecast"`),
			Entry("missing pipeline id", func(string) string {
				return `{"type": "tideForecast", "args": {}}`
			}, "pipeline_id is required"),
			Entry("nonexistent pipeline", func(string) string {
				return `{"pipeline_id": "pipeline_missing", "type": "tideForecast", "args": {}}`
			}, "pipeline pipeline_missing does not exist"),
			Entry("nonexistent trigger", func(id string) string {
				return fmt.Sprintf(`{"pipeline_id": %q, "type": "tideForecast", "args": {}, "trigger_ids": ["job_missing"]}`, id)
			}, "job_missing"),
			Entry("malformed body", func(string) string {
				return `{"pipeline_id": `
			}, "invalid request body"),
		)
	})

	Context("update", func() {
		It("clears the error when a failed job completes", func() {
			failed := jobWithStatus("failed")
			body := `{"status": "completed", "wave_forecast_data": {"data": [{"time": "2025-04-10T00:00:00Z", "height": 1.2, "direction": "NW", "period": 12}]}}`

			rec := do(router, http.MethodPost, "/api/jobs/"+failed.ID, body)
			Expect(rec.Code).To(Equal(http.StatusOK))

			job := decodeBody[api.Job](rec)
			Expect(job.Status).To(Equal(api.JobStatusCompleted))
			Expect(job.ErrorMessage).To(BeNil())
			Expect(job.WaveForecastData).NotTo(BeNil())
			Expect(job.WaveForecastData.Data).To(HaveLen(1))
		})

		It("rejects an unknown status", func() {
			pending := jobWithStatus("pending")
			rec := do(router, http.MethodPost, "/api/jobs/"+pending.ID, `{"status": "done"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for an unknown job", func() {
			rec := do(router, http.MethodPost, "/api/jobs/job_missing", `{"status": "processing"}`)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("delete", func() {
		It("removes the job from listings and trigger lists", func() {
			terrain := jobWithStatus("pending")
			wave := jobWithStatus("completed")

			rec := do(router, http.MethodDelete, "/api/jobs/"+terrain.ID, "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody[api.Status](rec).Message).To(Equal("Job deleted successfully"))

			rec = do(router, http.MethodGet, "/api/jobs/"+terrain.ID, "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			rec = do(router, http.MethodGet, "/api/jobs", "")
			Expect(decodeBody[api.JobList](rec)).To(HaveLen(3))

			rec = do(router, http.MethodGet, "/api/jobs/"+wave.ID, "")
			Expect(*decodeBody[api.Job](rec).Triggers).To(BeEmpty())
		})

		It("returns 404 for an unknown job", func() {
			rec := do(router, http.MethodDelete, "/api/jobs/job_missing", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("retry", func() {
		It("moves a failed job back to pending", func() {
			failed := jobWithStatus("failed")

			rec := do(router, http.MethodPost, "/api/jobs/"+failed.ID+"/retry", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			job := decodeBody[api.Job](rec)
			Expect(job.Status).To(Equal(api.JobStatusPending))
			Expect(job.ErrorMessage).To(BeNil())
		})

		It("rejects retrying a completed job", func() {
			completed := jobWithStatus("completed")

			rec := do(router, http.MethodPost, "/api/jobs/"+completed.ID+"/retry", "")
			Expect(rec.Code).To(Equal(http.StatusConflict))
		})

		It("returns 404 for an unknown job", func() {
			rec := do(router, http.MethodPost, "/api/jobs/job_missing/retry", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
