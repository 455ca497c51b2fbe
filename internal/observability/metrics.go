package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple app instances never
// collide on registration. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	plansGenerated  *prometheus.CounterVec
	planDuration    prometheus.Histogram
	planConcepts    prometheus.Histogram
	integrityFaults *prometheus.CounterVec
	masteryAttempts prometheus.Counter
	busPublishFails prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studyplan_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "studyplan_http_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		plansGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_plans_generated_total",
			Help: "Study plans generated by outcome.",
		}, []string{"outcome"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studyplan_plan_generation_duration_seconds",
			Help:    "Time to load, rank and persist one plan.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		planConcepts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studyplan_plan_ranked_concepts",
			Help:    "Number of concepts ranked per plan.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		integrityFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_integrity_faults_total",
			Help: "Curriculum integrity faults observed while planning, by kind.",
		}, []string{"kind"}),
		masteryAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studyplan_mastery_attempts_total",
			Help: "Graded attempts recorded by the mastery tracker.",
		}),
		busPublishFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studyplan_event_publish_failures_total",
			Help: "Plan events that could not be published.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.plansGenerated, m.planDuration, m.planConcepts,
		m.integrityFaults, m.masteryAttempts, m.busPublishFails,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) IncInflight() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) DecInflight() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObservePlan records one generation attempt; outcome is "ok" or an error code.
func (m *Metrics) ObservePlan(outcome string, ranked int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.plansGenerated.WithLabelValues(outcome).Inc()
	m.planDuration.Observe(elapsed.Seconds())
	if outcome == "ok" {
		m.planConcepts.Observe(float64(ranked))
	}
}

func (m *Metrics) IncIntegrityFault(kind string) {
	if m != nil {
		m.integrityFaults.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncMasteryAttempt() {
	if m != nil {
		m.masteryAttempts.Inc()
	}
}

func (m *Metrics) IncPublishFailure() {
	if m != nil {
		m.busPublishFails.Inc()
	}
}
