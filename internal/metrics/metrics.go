package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ImportRuns        *prometheus.CounterVec
	VenuesSelected    prometheus.Gauge
	EventsImported    prometheus.Gauge
	EventsSkipped     prometheus.Gauge
	DuplicatesRemoved prometheus.Counter
	FeedSeconds       *prometheus.HistogramVec
	GeocodeSeconds    *prometheus.HistogramVec
	GeocodeErrors     prometheus.Counter
	ActiveWorkers     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ImportRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "agora_import_runs_total",
			Help: "Total number of import runs.",
		}, []string{"status"}),
		VenuesSelected: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "agora_venues_selected",
			Help: "Number of venues selected by the last successful import.",
		}),
		EventsImported: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "agora_events_imported",
			Help: "Number of events stored by the last successful import.",
		}),
		EventsSkipped: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "agora_events_skipped",
			Help: "Number of feed events skipped by the last successful import because their venue was not selected.",
		}),
		DuplicatesRemoved: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "agora_duplicate_venues_removed_total",
			Help: "Total number of venues dropped because another venue shared their coordinates.",
		}),
		FeedSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agora_feed_fetch_duration_seconds",
			Help:    "Duration of feed downloads.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agora_geocoding_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		GeocodeErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "agora_geocoding_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "agora_geocoding_active_workers",
			Help: "Current number of active workers geocoding venues.",
		}),
	}
}
