package models

import "time"

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassWrite: evaluations and mutations - /risk/analyze, /pipeline/applications, /assistant/*
	ClassWrite EndpointClass = "write"
	// ClassRead: read-only views - /risk/demo, /pipeline, /dashboard
	ClassRead EndpointClass = "read"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassWrite, ClassRead:
		return true
	}
	return false
}

// RateLimitResult is the outcome of one limiter check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds; set only when denied
}
