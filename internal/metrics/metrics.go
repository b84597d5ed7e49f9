package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider request outcomes
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeUnavailable = "unavailable"
)

// Collector holds the service metrics on a private registry. All helper
// methods are safe on a nil receiver so metrics can be switched off.
type Collector struct {
	reg *prometheus.Registry

	ProviderRequests *prometheus.CounterVec   // provider, operation, outcome
	ProviderDuration *prometheus.HistogramVec // provider, operation

	RouteEvaluations *prometheus.CounterVec // outcome
	HazardFetches    *prometheus.CounterVec // source, outcome

	ActiveTrips        prometheus.Gauge
	TripsStarted       prometheus.Counter
	MonitorTicks       *prometheus.CounterVec // outcome
	TickDuration       prometheus.Histogram
	RerouteSuggestions prometheus.Counter
	HazardsDiscovered  prometheus.Counter

	ReportsAccepted   *prometheus.CounterVec // source: http|stream
	EmergencySessions prometheus.Counter
	EventsPublished   *prometheus.CounterVec // backend, outcome
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safewalk_provider_requests_total",
			Help: "Outbound provider requests by provider, operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "safewalk_provider_request_duration_seconds",
			Help:    "Duration of outbound provider requests.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"provider", "operation"}),
		RouteEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safewalk_route_evaluations_total",
			Help: "Route comparisons by outcome.",
		}, []string{"outcome"}),
		HazardFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safewalk_hazard_source_fetches_total",
			Help: "Hazard source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		ActiveTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "safewalk_active_trips",
			Help: "Number of trips currently monitored.",
		}),
		TripsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safewalk_trips_started_total",
			Help: "Total trips started.",
		}),
		MonitorTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safewalk_monitor_ticks_total",
			Help: "On-trip monitor evaluations by outcome.",
		}, []string{"outcome"}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "safewalk_monitor_tick_duration_seconds",
			Help:    "Duration of one monitor evaluation.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		RerouteSuggestions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safewalk_reroute_suggestions_total",
			Help: "Transitions into reroute_suggested.",
		}),
		HazardsDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safewalk_hazards_discovered_total",
			Help: "Incidents newly discovered within proximity of a trip.",
		}),
		ReportsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safewalk_reports_accepted_total",
			Help: "Community reports stored, by ingestion source.",
		}, []string{"source"}),
		EmergencySessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safewalk_emergency_sessions_total",
			Help: "Emergency sessions started.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safewalk_trip_events_published_total",
			Help: "Trip events published by backend and outcome.",
		}, []string{"backend", "outcome"}),
	}

	reg.MustRegister(
		c.ProviderRequests, c.ProviderDuration,
		c.RouteEvaluations, c.HazardFetches,
		c.ActiveTrips, c.TripsStarted, c.MonitorTicks, c.TickDuration,
		c.RerouteSuggestions, c.HazardsDiscovered,
		c.ReportsAccepted, c.EmergencySessions, c.EventsPublished,
	)

	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) ObserveProvider(provider, operation, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.ProviderRequests.WithLabelValues(provider, operation, outcome).Inc()
	c.ProviderDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

func (c *Collector) RouteEvaluated(outcome string) {
	if c == nil {
		return
	}
	c.RouteEvaluations.WithLabelValues(outcome).Inc()
}

func (c *Collector) HazardSource(source, outcome string) {
	if c == nil {
		return
	}
	c.HazardFetches.WithLabelValues(source, outcome).Inc()
}

func (c *Collector) TripStarted() {
	if c == nil {
		return
	}
	c.TripsStarted.Inc()
	c.ActiveTrips.Inc()
}

func (c *Collector) TripStopped() {
	if c == nil {
		return
	}
	c.ActiveTrips.Dec()
}

func (c *Collector) Tick(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.MonitorTicks.WithLabelValues(outcome).Inc()
	c.TickDuration.Observe(d.Seconds())
}

func (c *Collector) RerouteSuggested() {
	if c == nil {
		return
	}
	c.RerouteSuggestions.Inc()
}

func (c *Collector) Discovered(n int) {
	if c == nil || n == 0 {
		return
	}
	c.HazardsDiscovered.Add(float64(n))
}

func (c *Collector) ReportAccepted(source string) {
	if c == nil {
		return
	}
	c.ReportsAccepted.WithLabelValues(source).Inc()
}

func (c *Collector) EmergencyStarted() {
	if c == nil {
		return
	}
	c.EmergencySessions.Inc()
}

func (c *Collector) EventPublished(backend, outcome string) {
	if c == nil {
		return
	}
	c.EventsPublished.WithLabelValues(backend, outcome).Inc()
}
