package service_test

import (
	"context"
	"strings"

	"github.com/forecast-ops/job-tracker/internal/service"
	"github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ = Describe("status collector", Ordered, func() {
	var s store.Store

	BeforeAll(func() {
		s, _ = newTestStore("service_status_collector")
	})

	AfterAll(func() {
		s.Close()
	})

	It("publishes the number of jobs per status", func() {
		pipeline, err := s.Pipeline().Create(context.TODO(), model.Pipeline{Name: "coast", Status: "active"})
		Expect(err).To(BeNil())
		for _, status := range []string{"pending", "failed", "failed"} {
			_, err := s.Job().Create(context.TODO(), model.Job{PipelineID: pipeline.ID, Type: "tideForecast", Status: status})
			Expect(err).To(BeNil())
		}

		service.NewStatusCollector(s, 0).Refresh(context.TODO())

		expected := `
# HELP job_tracker_job_status_count metrics to record the number of jobs in each status
# TYPE job_tracker_job_status_count gauge
job_tracker_job_status_count{status="completed"} 0
job_tracker_job_status_count{status="failed"} 2
job_tracker_job_status_count{status="pending"} 1
job_tracker_job_status_count{status="processing"} 0
# HELP job_tracker_pipeline_status_count metrics to record the number of pipelines in each status
# TYPE job_tracker_pipeline_status_count gauge
job_tracker_pipeline_status_count{status="active"} 1
job_tracker_pipeline_status_count{status="archived"} 0
job_tracker_pipeline_status_count{status="completed"} 0
`
		err = testutil.GatherAndCompare(prometheus.DefaultGatherer, strings.NewReader(expected),
			"job_tracker_job_status_count", "job_tracker_pipeline_status_count")
		Expect(err).To(BeNil())
	})
})
