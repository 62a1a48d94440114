package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// HealthzStat returns a stat panel showing the health check status.
func HealthzStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Healthz").
		Description("Health check status (1 = ok, 0 = failing)").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`reddit_top_healthz_up`, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// ReadyzStat returns a stat panel showing whether the session holds a token.
func ReadyzStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Authenticated").
		Description("Readiness status (1 = token held, 0 = unauthenticated)").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`reddit_top_readyz_up`, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// QuotaGauge returns a gauge panel showing the used share of the current
// Reddit rate limit window.
func QuotaGauge() *gauge.PanelBuilder {
	expr := fmt.Sprintf("(1 - reddit_top_quota_remaining / %d) * 100", RedditWindowRequests)
	return gauge.NewPanelBuilder().
		Title("Reddit Quota %").
		Description("Share of the current Reddit rate limit window already used").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(expr, "", "A")).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(ThresholdsGreenYellowRed(80, 95)).
		ColorScheme(ColorSchemeThresholds())
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`time() - process_start_time_seconds{`+Job+`}`,
			"", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
