package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("reddit-top-recording-rules", RuleGroup{
		Name: "reddit-top-recording",
		Rules: []Rule{
			{
				Record: "reddit_top:http_requests:rate5m",
				Expr:   `sum(rate(reddit_top_http_requests_total[5m]))`,
			},
			{
				Record: "reddit_top:http_errors:rate5m",
				Expr:   `sum(rate(reddit_top_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "reddit_top:operations:rate5m",
				Expr:   `sum(rate(reddit_top_operations_total[5m])) by (kind, outcome)`,
			},
			{
				Record: "reddit_top:operation_failures:rate5m",
				Expr:   `sum(rate(reddit_top_operations_total{outcome="failure"}[5m])) by (kind)`,
			},
			{
				Record: "reddit_top:transport_requests:rate5m",
				Expr:   `sum(rate(reddit_top_transport_requests_total[5m])) by (status)`,
			},
		},
	})
}
