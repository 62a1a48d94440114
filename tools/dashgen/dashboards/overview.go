// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/reddit-top/tools/dashgen/panels"
)

// BuildOverview constructs the reddit-top Overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("reddit-top Overview").
		Uid("reddit-top-overview").
		Tags([]string{"reddit-top"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Engine").
		WithPanel(panels.OperationsRate()).
		WithPanel(panels.OperationLatency()).
		WithPanel(panels.Cancellations()).
		WithPanel(panels.InFlight()).
		WithPanel(panels.AccumulatedEntries()))

	b.WithRow(dashboard.NewRowBuilder("Reddit API").
		WithPanel(panels.TransportRate()).
		WithPanel(panels.TransportLatency()).
		WithPanel(panels.QuotaExhausted()))

	b.WithRow(dashboard.NewRowBuilder("Media").
		WithPanel(panels.DownloadThroughput()).
		WithPanel(panels.MediaIndexFailures()))

	b.WithRow(dashboard.NewRowBuilder("Control API").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
