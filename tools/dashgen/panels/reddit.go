package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TransportRate returns a timeseries panel showing outgoing Reddit requests
// per second by status.
func TransportRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Reddit Requests").
		Description("Outgoing requests per second by status code").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`reddit_top:transport_requests:rate5m`, "{{status}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// TransportLatency returns a timeseries panel showing p95 outgoing request
// duration.
func TransportLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Reddit Latency (p95)").
		Description("95th percentile outgoing request duration by method").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(reddit_top_transport_request_duration_seconds_bucket{`+Job+`}[5m])) by (le, method))`,
			"{{method}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(2, 10)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// QuotaExhausted returns a stat panel showing requests rejected locally
// because the server-reported window was used up.
func QuotaExhausted() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Quota Rejections (24h)").
		Description("Requests failed fast because the Reddit rate limit window was exhausted").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(reddit_top_quota_exhausted_total{`+Job+`}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
