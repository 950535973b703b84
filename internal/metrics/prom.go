package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AngelCh415/verification-stats/internal/campaign"
)

// Collectors are the service's Prometheus instruments.
type Collectors struct {
	Loads       *prometheus.CounterVec
	LoadSeconds prometheus.Histogram
	Loaded      prometheus.Gauge
	Recomputes  prometheus.Counter
	Periods     prometheus.Counter
}

func NewCollectors(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campaign_loads_total",
			Help: "Campaign load attempts by result.",
		}, []string{"result"}),
		LoadSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "campaign_load_duration_seconds",
			Help:    "Time to fetch and aggregate one campaign.",
			Buckets: prometheus.DefBuckets,
		}),
		Loaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "campaigns_loaded",
			Help: "Campaigns currently held in the overall aggregate.",
		}),
		Recomputes: f.NewCounter(prometheus.CounterOpts{
			Name: "overall_recomputes_total",
			Help: "Full rebuilds of the overall aggregate.",
		}),
		Periods: f.NewCounter(prometheus.CounterOpts{
			Name: "period_views_total",
			Help: "Period views derived from the overall aggregate.",
		}),
	}
}

// resultLabel classifies a load error for the loads counter.
func resultLabel(err error) string {
	var (
		missing *campaign.MissingColumnsError
		empty   *campaign.EmptyCampaignError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &missing):
		return "missing_columns"
	case errors.As(err, &empty):
		return "empty"
	}
	return "source_error"
}
