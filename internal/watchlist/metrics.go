package watchlist

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/docugate-io/docugate/internal/watchlist")

var (
	searchesTotal metric.Int64Counter
	hardExactHits metric.Int64Counter
)

func init() {
	var err error
	searchesTotal, err = meter.Int64Counter("watchlist.searches.total",
		metric.WithDescription("Total watchlist searches"))
	if err != nil {
		searchesTotal, _ = meter.Int64Counter("watchlist.searches.total.fallback")
	}

	hardExactHits, err = meter.Int64Counter("watchlist.hard_exact.hits",
		metric.WithDescription("Searches that produced an exact ID or exact name match"))
	if err != nil {
		hardExactHits, _ = meter.Int64Counter("watchlist.hard_exact.hits.fallback")
	}
}
