package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/client"
	"github.com/forecast-ops/job-tracker/pkg/requestid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("tracker client", func() {
	var (
		server *httptest.Server
		c      *client.Client
		ctx    context.Context
	)

	newClient := func(handler http.HandlerFunc) {
		server = httptest.NewServer(handler)
		cfg := client.NewDefault()
		cfg.Service.Server = server.URL
		cfg.Service.Token = "secret"

		var err error
		c, err = client.NewFromConfig(cfg)
		Expect(err).To(BeNil())
	}

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	It("lists jobs with filters and credentials", func() {
		newClient(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodGet))
			Expect(r.URL.Path).To(Equal("/api/jobs"))
			Expect(r.URL.Query().Get("status")).To(Equal("failed"))
			Expect(r.URL.Query().Has("type")).To(BeFalse())
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer secret"))
			Expect(r.Header.Get(requestid.HeaderName)).NotTo(BeEmpty())

			_ = json.NewEncoder(w).Encode(api.JobList{{Id: "job_1", Status: api.JobStatusFailed}})
		})

		jobs, err := c.ListJobs(ctx, client.JobListParams{Status: "failed"})
		Expect(err).To(BeNil())
		Expect(jobs).To(HaveLen(1))
		Expect(jobs[0].Id).To(Equal("job_1"))
	})

	It("sends the create body", func() {
		newClient(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodPost))

			var body api.JobCreate
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			Expect(body.PipelineId).To(Equal("pipeline_1"))
			Expect(string(body.Args)).To(MatchJSON(`{"location": "Half Moon Bay"}`))

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(api.Job{Id: "job_2", Status: api.JobStatusPending})
		})

		job, err := c.CreateJob(ctx, api.JobCreate{
			PipelineId: "pipeline_1",
			Type:       api.JobTypeTideForecast,
			Args:       json.RawMessage(`{"location": "Half Moon Bay"}`),
		})
		Expect(err).To(BeNil())
		Expect(job.Id).To(Equal("job_2"))
	})

	It("returns the server message and request id as an APIError", func() {
		newClient(func(w http.ResponseWriter, r *http.Request) {
			requestID := "req-42"
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(api.Error{Message: "job job_1 cannot be retried from status completed", RequestId: &requestID})
		})

		_, err := c.RetryJob(ctx, "job_1")
		Expect(err).NotTo(BeNil())
		Expect(err.Error()).To(ContainSubstring("retrying job/job_1"))

		var apiErr *client.APIError
		Expect(errors.As(err, &apiErr)).To(BeTrue())
		Expect(apiErr.StatusCode).To(Equal(http.StatusConflict))
		Expect(apiErr.RequestID).To(Equal("req-42"))
	})

	It("falls back to the status text when the body is not an error document", func() {
		newClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		err := c.DeleteJob(ctx, "job_1")
		var apiErr *client.APIError
		Expect(errors.As(err, &apiErr)).To(BeTrue())
		Expect(apiErr.Message).To(Equal(http.StatusText(http.StatusBadGateway)))
	})

	Describe("config", func() {
		It("rejects a server without hostname", func() {
			cfg := client.NewDefault()
			cfg.Service.Server = "localhost"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("persists and parses a config file", func() {
			filename := filepath.Join(GinkgoT().TempDir(), "tracker", "config.yaml")
			cfg := client.NewDefault()
			cfg.Service.Server = "http://tracker.example.com:8000"
			cfg.Service.Token = "token"
			Expect(cfg.Persist(filename)).To(Succeed())

			parsed, err := client.ParseConfigFile(filename)
			Expect(err).To(BeNil())
			Expect(parsed).To(Equal(cfg))
		})
	})
})
