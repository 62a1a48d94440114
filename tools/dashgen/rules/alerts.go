package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// reddit-top operational monitoring.
func AlertRules() PrometheusRule {
	return newPrometheusRule("reddit-top-alerts", RuleGroup{
		Name: "reddit-top-alerts",
		Rules: []Rule{
			{
				Alert: "RedditTopDown",
				Expr:  `absent(up{job="reddit-top"})`,
				For:   "2m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "reddit-top is down",
					"description": "The reddit-top job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert: "RedditTopUnauthenticated",
				Expr:  `reddit_top_readyz_up == 0`,
				For:   "10m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "reddit-top holds no Reddit token",
					"description": "The readiness probe has reported no session token for more than 10 minutes.",
				},
			},
			{
				Alert: "RedditTopHighErrorRate",
				Expr:  `reddit_top:http_errors:rate5m / reddit_top:http_requests:rate5m > 0.05`,
				For:   "5m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "High HTTP error rate on the reddit-top control API",
					"description": "More than 5% of control API requests are returning 5xx errors over the last 5 minutes.",
				},
			},
			{
				Alert: "RedditTopOperationFailures",
				Expr:  `reddit_top:operation_failures:rate5m > 0.01`,
				For:   "10m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Engine operations are failing",
					"description": "Operations of kind {{ $labels.kind }} have been failing for more than 10 minutes.",
				},
			},
			{
				Alert: "RedditTopQuotaLow",
				Expr:  `reddit_top_quota_remaining < 60`,
				For:   "5m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Reddit rate limit window is almost used up",
					"description": "Fewer than 60 requests remain in the current Reddit rate limit window.",
				},
			},
			{
				Alert: "RedditTopQuotaExhausted",
				Expr:  `increase(reddit_top_quota_exhausted_total[5m]) > 0`,
				For:   "0m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "Reddit rate limit window exhausted",
					"description": "Requests are failing fast until the Reddit rate limit window resets.",
				},
			},
			{
				Alert: "RedditTopMediaNotificationFailures",
				Expr:  `increase(reddit_top_media_index_failures_total[5m]) > 0`,
				For:   "1m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Media-added notification failures detected",
					"description": "One or more media-added notifications (Discord webhooks) have failed to send.",
				},
			},
		},
	})
}
