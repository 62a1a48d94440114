package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// OperationsRate returns a timeseries panel showing finished engine
// operations per second by kind and outcome.
func OperationsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Operations Rate").
		Description("Finished engine operations per second by kind and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`reddit_top:operations:rate5m`, "{{kind}} {{outcome}}", "A")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// OperationLatency returns a timeseries panel showing p95 operation
// duration by kind.
func OperationLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Operation Latency (p95)").
		Description("95th percentile engine operation duration by kind").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(reddit_top_operation_duration_seconds_bucket{`+Job+`}[5m])) by (le, kind))`,
			"{{kind}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// Cancellations returns a timeseries panel showing superseded operations.
func Cancellations() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cancellations").
		Description("Operations cancelled by a newer operation of the same kind").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(reddit_top_operations_cancelled_total{`+Job+`}[5m])) by (kind)`,
			"{{kind}}", "A",
		)).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// InFlight returns a timeseries panel showing which kinds are in flight.
func InFlight() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("In Flight").
		Description("1 while an operation of the kind is registered").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`reddit_top_operations_in_flight{`+Job+`}`, "{{kind}}", "A")).
		Min(0).
		Max(1).
		FillOpacity(30).
		LineWidth(1).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// AccumulatedEntries returns a stat panel showing the accumulator size.
func AccumulatedEntries() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Accumulated Entries").
		Description("Listing entries held by the accumulator").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`reddit_top_accumulated_entries{`+Job+`}`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}
