package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// DownloadThroughput returns a timeseries panel showing bytes written by
// asset downloads.
func DownloadThroughput() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Download Throughput").
		Description("Bytes per second written to disk by asset downloads").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`rate(reddit_top_downloaded_bytes_total{`+Job+`}[5m])`, "bytes/s", "A")).
		Unit("Bps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// MediaIndexFailures returns a stat panel showing media-added notifications
// that failed in the past 24 hours.
func MediaIndexFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Media Notification Failures (24h)").
		Description("Media-added notifications (Discord webhooks) that failed in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(reddit_top_media_index_failures_total{`+Job+`}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
