package model

// JobStats aggregates job counts for the metrics collector.
type JobStats struct {
	TotalJobs          int64
	JobsByStatus       map[string]int64
	OpenProblemReports int64
}
