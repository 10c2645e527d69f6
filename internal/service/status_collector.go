package service

import (
	"context"
	"time"

	"github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/store"
	"github.com/forecast-ops/job-tracker/pkg/metrics"
	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"
)

// StatusCollector periodically publishes the number of jobs and pipelines in
// each status as prometheus gauges.
type StatusCollector struct {
	store    store.Store
	interval time.Duration
}

func NewStatusCollector(s store.Store, interval time.Duration) *StatusCollector {
	return &StatusCollector{store: s, interval: interval}
}

// Run refreshes the gauges until ctx is done. A non-positive interval refreshes once.
func (c *StatusCollector) Run(ctx context.Context) {
	if c.interval <= 0 {
		c.Refresh(ctx)
		return
	}

	ticker := jitterbug.New(c.interval, &jitterbug.Norm{Stdev: c.interval / 10, Mean: 0})
	defer ticker.Stop()

	c.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

func (c *StatusCollector) Refresh(ctx context.Context) {
	jobCounts, err := c.store.Job().CountByStatus(ctx, nil)
	if err != nil {
		zap.S().Named("status_collector").Errorw("failed to count jobs", "error", err)
		return
	}
	counts := make(map[string]int, len(jobCounts))
	for _, jc := range jobCounts {
		counts[jc.Status] = jc.Count
	}
	for _, s := range v1alpha1.JobStatuses() {
		metrics.UpdateJobStatusCountMetric(string(s), counts[string(s)])
	}

	pipelineCounts, err := c.store.Pipeline().CountByStatus(ctx, nil)
	if err != nil {
		zap.S().Named("status_collector").Errorw("failed to count pipelines", "error", err)
		return
	}
	counts = make(map[string]int, len(pipelineCounts))
	for _, pc := range pipelineCounts {
		counts[pc.Status] = pc.Count
	}
	for _, s := range v1alpha1.PipelineStatuses() {
		metrics.UpdatePipelineStatusCountMetric(string(s), counts[string(s)])
	}
}
