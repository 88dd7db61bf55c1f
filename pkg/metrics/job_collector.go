package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ecuworks/tunehub/internal/store"
)

const tunehub = "tunehub"

type jobStatsCollector struct {
	store        store.Store
	totalJobs    *prometheus.Desc
	jobsByStatus *prometheus.Desc
	openProblems *prometheus.Desc
}

// NewJobStatsCollector returns a collector reporting job counts per status
// and the number of open problem reports, read from the store on scrape.
func NewJobStatsCollector(s store.Store) prometheus.Collector {
	return &jobStatsCollector{
		store: s,
		totalJobs: prometheus.NewDesc(
			tunehub+"_jobs_total",
			"Total number of tuning jobs.",
			nil,
			prometheus.Labels{},
		),
		jobsByStatus: prometheus.NewDesc(
			tunehub+"_jobs_by_status_total",
			"Number of tuning jobs by lifecycle status.",
			[]string{"status"},
			prometheus.Labels{},
		),
		openProblems: prometheus.NewDesc(
			tunehub+"_problem_reports_open",
			"Number of currently open problem reports.",
			nil,
			prometheus.Labels{},
		),
	}
}

func (c *jobStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalJobs
	ch <- c.jobsByStatus
	ch <- c.openProblems
}

func (c *jobStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.store.Statistics(context.Background())
	if err != nil {
		zap.S().Named("job_collector").Errorf("failed to collect job statistics: %s", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalJobs, prometheus.GaugeValue, float64(stats.TotalJobs))
	ch <- prometheus.MustNewConstMetric(c.openProblems, prometheus.GaugeValue, float64(stats.OpenProblemReports))

	for status, total := range stats.JobsByStatus {
		ch <- prometheus.MustNewConstMetric(c.jobsByStatus, prometheus.GaugeValue, float64(total), status)
	}
}
