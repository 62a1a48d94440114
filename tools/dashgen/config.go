package main

import "errors"

// KnownMetrics is the set of metric names exported by reddit-top plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"reddit_top_http_request_duration_seconds":        true,
	"reddit_top_http_request_duration_seconds_bucket": true,
	"reddit_top_http_requests_total":                  true,

	// Health metrics.
	"reddit_top_healthz_up":             true,
	"reddit_top_readyz_up":              true,
	"reddit_top_panics_recovered_total": true,

	// Engine metrics.
	"reddit_top_operations_total":                  true,
	"reddit_top_operation_duration_seconds_bucket": true,
	"reddit_top_operations_cancelled_total":        true,
	"reddit_top_operations_in_flight":              true,
	"reddit_top_accumulated_entries":               true,
	"reddit_top_media_index_failures_total":        true,

	// Transport metrics.
	"reddit_top_transport_requests_total":                  true,
	"reddit_top_transport_request_duration_seconds_bucket": true,
	"reddit_top_downloaded_bytes_total":                    true,
	"reddit_top_quota_exhausted_total":                     true,
	"reddit_top_quota_remaining":                           true,

	// Recording rules.
	"reddit_top:http_requests:rate5m":      true,
	"reddit_top:http_errors:rate5m":        true,
	"reddit_top:operations:rate5m":         true,
	"reddit_top:operation_failures:rate5m": true,
	"reddit_top:transport_requests:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
