package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DurationKey is the Data key whose time.Duration value PrometheusObserver
// records in its duration histogram.
const DurationKey = "duration"

// PrometheusObserver counts events by type, source, and level, and records
// any DurationKey value as a histogram sample labelled by event type.
type PrometheusObserver struct {
	eventsTotal   *prometheus.CounterVec
	eventDuration *prometheus.HistogramVec
}

// NewPrometheusObserver registers its metrics with reg, or with the default
// registerer when reg is nil.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusObserver{
		eventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datum_events_total",
				Help: "Total number of observed reducer and replay events",
			},
			[]string{"type", "source", "level"},
		),
		eventDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datum_event_duration_seconds",
				Help:    "Duration carried by observed events, in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
			},
			[]string{"type"},
		),
	}
}

func (p *PrometheusObserver) OnEvent(ctx context.Context, event Event) {
	p.eventsTotal.WithLabelValues(string(event.Type), event.Source, event.Level.String()).Inc()

	if d, ok := event.Data[DurationKey].(time.Duration); ok {
		p.eventDuration.WithLabelValues(string(event.Type)).Observe(d.Seconds())
	}
}
