package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	jobTracker = "job_tracker"

	// Job metrics
	jobsCreatedTotal = "jobs_created_total"
	jobRetriesTotal  = "job_retries_total"
	JobStatusCount   = "job_status_count"

	// Pipeline metrics
	PipelineStatusCount = "pipeline_status_count"

	// Labels
	jobTypeLabel = "type"
	statusLabel  = "status"
)

/**
* Metrics definition
**/
var jobsCreatedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobTracker,
		Name:      jobsCreatedTotal,
		Help:      "number of jobs created, by job type",
	},
	[]string{jobTypeLabel},
)

var jobRetriesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobTracker,
		Name:      jobRetriesTotal,
		Help:      "number of job retries, by job type",
	},
	[]string{jobTypeLabel},
)

var jobStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: jobTracker,
		Name:      JobStatusCount,
		Help:      "metrics to record the number of jobs in each status",
	},
	[]string{statusLabel},
)

var pipelineStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: jobTracker,
		Name:      PipelineStatusCount,
		Help:      "metrics to record the number of pipelines in each status",
	},
	[]string{statusLabel},
)

func IncreaseJobsCreatedMetric(jobType string) {
	jobsCreatedTotalMetric.With(prometheus.Labels{jobTypeLabel: jobType}).Inc()
}

func IncreaseJobRetriesMetric(jobType string) {
	jobRetriesTotalMetric.With(prometheus.Labels{jobTypeLabel: jobType}).Inc()
}

func UpdateJobStatusCountMetric(status string, count int) {
	jobStatusCountMetric.With(prometheus.Labels{statusLabel: status}).Set(float64(count))
}

func UpdatePipelineStatusCountMetric(status string, count int) {
	pipelineStatusCountMetric.With(prometheus.Labels{statusLabel: status}).Set(float64(count))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsCreatedTotalMetric)
	prometheus.MustRegister(jobRetriesTotalMetric)
	prometheus.MustRegister(jobStatusCountMetric)
	prometheus.MustRegister(pipelineStatusCountMetric)
}
