package models

import "time"

// SystemMetrics is a lightweight snapshot of process and scheduling metrics.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	SchedulingRuns           uint64    `json:"schedulingRuns"`
	AssignmentsCreated       uint64    `json:"assignmentsCreated"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
