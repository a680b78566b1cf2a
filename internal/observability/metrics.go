package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlannerCollector bundles Prometheus metrics for the survey planner and
// provides a ready-to-serve /metrics handler.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	PlansTotal   *prometheus.CounterVec
	PlanDuration prometheus.Histogram
	PlanWaypoint prometheus.Histogram

	Missions  prometheus.Gauge
	Segments  prometheus.Gauge
	Waypoints prometheus.Gauge
}

// NewPlannerCollector registers planner Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_plans_total",
		Help: "Total number of plan generation runs, labeled by outcome.",
	}, []string{"outcome"})
	plans, err := registerCounterVec(reg, plans, "planner_plans_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_plan_duration_seconds",
		Help:    "Plan generation latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	duration, err = registerHistogram(reg, duration, "planner_plan_duration_seconds")
	if err != nil {
		return nil, err
	}

	waypointHist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_plan_waypoints",
		Help:    "Number of waypoints in each generated plan.",
		Buckets: []float64{2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	waypointHist, err = registerHistogram(reg, waypointHist, "planner_plan_waypoints")
	if err != nil {
		return nil, err
	}

	missions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mission_missions",
		Help: "Current number of missions in the mission store.",
	}), "mission_missions")
	if err != nil {
		return nil, err
	}
	segments, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mission_segments",
		Help: "Current number of path segments attached to missions.",
	}), "mission_segments")
	if err != nil {
		return nil, err
	}
	waypoints, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mission_waypoints",
		Help: "Current number of waypoints across all attached segments.",
	}), "mission_waypoints")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:     gatherer,
		PlansTotal:   plans,
		PlanDuration: duration,
		PlanWaypoint: waypointHist,
		Missions:     missions,
		Segments:     segments,
		Waypoints:    waypoints,
	}, nil
}

// ObservePlan records the outcome, latency, and size of one plan generation
// run. On non-ok outcomes the waypoint histogram is left untouched.
func (c *PlannerCollector) ObservePlan(outcome string, d time.Duration, waypoints int) {
	if c == nil {
		return
	}
	if c.PlansTotal != nil {
		c.PlansTotal.WithLabelValues(outcome).Inc()
	}
	if c.PlanDuration != nil {
		c.PlanDuration.Observe(d.Seconds())
	}
	if outcome == "ok" && c.PlanWaypoint != nil {
		c.PlanWaypoint.Observe(float64(waypoints))
	}
}

// SetMissionCounts satisfies the MissionMetricsRecorder interface so the
// mission state can drive gauge values directly from its mutators.
func (c *PlannerCollector) SetMissionCounts(missions, segments, waypoints int) {
	if c == nil {
		return
	}
	if c.Missions != nil {
		c.Missions.Set(float64(missions))
	}
	if c.Segments != nil {
		c.Segments.Set(float64(segments))
	}
	if c.Waypoints != nil {
		c.Waypoints.Set(float64(waypoints))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlannerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
