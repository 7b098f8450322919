package models

import "time"

// SourceMetrics summarizes one remote lookup.
type SourceMetrics struct {
	Raw     int           `json:"raw"`
	Matched int           `json:"matched"`
	Latency time.Duration `json:"latency"`
}

// SearchResult is the response to one search request.
type SearchResult struct {
	OriginalSearch   string                   `json:"originalSearch"`
	NormalizedSearch string                   `json:"normalizedSearch"`
	Count            int                      `json:"count"`
	Matches          []*Location              `json:"matches"`
	SourceErrors     map[string]string        `json:"errors,omitempty"`
	Metrics          map[string]SourceMetrics `json:"metrics,omitempty"`
	Warning          string                   `json:"warning,omitempty"`
	Elapsed          time.Duration            `json:"elapsed"`
}
