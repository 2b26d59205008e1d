package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlannerCollector bundles Prometheus metrics for the planning engine
// and provides a ready-to-serve /metrics handler.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	Builds         *prometheus.CounterVec
	BuildDurations *prometheus.HistogramVec
	ServiceRuns    *prometheus.CounterVec

	PlanSteps      prometheus.Gauge
	PlanDecoStops  prometheus.Gauge
	PlanRuntimeMin prometheus.Gauge
	PlanTTSMin     prometheus.Gauge
}

// NewPlannerCollector registers planner Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "diveplan_builds_total",
		Help: "Total number of profile builds, labeled by dive mode and outcome.",
	}, []string{"mode", "outcome"})
	builds, err := registerCounterVec(reg, builds, "diveplan_builds_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diveplan_build_duration_seconds",
		Help:    "Profile build latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"mode"})
	durations, err = registerHistogramVec(reg, durations, "diveplan_build_duration_seconds")
	if err != nil {
		return nil, err
	}

	services := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "diveplan_planner_runs_total",
		Help: "Planner service invocations (maxtime, optimize), labeled by service and outcome.",
	}, []string{"service", "outcome"})
	services, err = registerCounterVec(reg, services, "diveplan_planner_runs_total")
	if err != nil {
		return nil, err
	}

	steps, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "diveplan_profile_steps",
		Help: "Number of steps in the most recent profile.",
	}), "diveplan_profile_steps")
	if err != nil {
		return nil, err
	}
	decoStops, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "diveplan_profile_deco_stops",
		Help: "Number of generated deco stops in the most recent profile.",
	}), "diveplan_profile_deco_stops")
	if err != nil {
		return nil, err
	}
	runtime, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "diveplan_profile_runtime_minutes",
		Help: "Total runtime of the most recent profile.",
	}), "diveplan_profile_runtime_minutes")
	if err != nil {
		return nil, err
	}
	tts, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "diveplan_profile_tts_minutes",
		Help: "Time to surface from the end of the bottom phase of the most recent profile.",
	}), "diveplan_profile_tts_minutes")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:       gatherer,
		Builds:         builds,
		BuildDurations: durations,
		ServiceRuns:    services,
		PlanSteps:      steps,
		PlanDecoStops:  decoStops,
		PlanRuntimeMin: runtime,
		PlanTTSMin:     tts,
	}, nil
}

// ObserveBuild records one profile build.
func (c *PlannerCollector) ObserveBuild(mode, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Builds != nil {
		c.Builds.WithLabelValues(mode, outcome).Inc()
	}
	if c.BuildDurations != nil {
		c.BuildDurations.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// ObserveServiceRun records one planner-service invocation.
func (c *PlannerCollector) ObserveServiceRun(service, outcome string) {
	if c == nil || c.ServiceRuns == nil {
		return
	}
	c.ServiceRuns.WithLabelValues(service, outcome).Inc()
}

// SetProfileCounts drives the gauges from the most recent build.
func (c *PlannerCollector) SetProfileCounts(steps, decoStops int, runtimeMin, ttsMin float64) {
	if c == nil {
		return
	}
	if c.PlanSteps != nil {
		c.PlanSteps.Set(float64(steps))
	}
	if c.PlanDecoStops != nil {
		c.PlanDecoStops.Set(float64(decoStops))
	}
	if c.PlanRuntimeMin != nil {
		c.PlanRuntimeMin.Set(runtimeMin)
	}
	if c.PlanTTSMin != nil {
		c.PlanTTSMin.Set(ttsMin)
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

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
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
