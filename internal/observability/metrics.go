package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/sensorplan/model"
)

// AnalysisCollector bundles Prometheus metrics for analysis runs and the job
// registry. It satisfies core.MetricsRecorder and jobs.MetricsRecorder.
type AnalysisCollector struct {
	gatherer prometheus.Gatherer

	Analyses          *prometheus.CounterVec
	AnalysisDurations *prometheus.HistogramVec
	GridCells         *prometheus.HistogramVec
	Recommendations   *prometheus.CounterVec
	Jobs              *prometheus.GaugeVec
}

// NewAnalysisCollector registers planner metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewAnalysisCollector(reg prometheus.Registerer) (*AnalysisCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_analyses_total",
		Help: "Total number of analysis runs, labeled by kind and outcome.",
	}, []string{"kind", "status"})
	analyses, err := registerCounterVec(reg, analyses, "planner_analyses_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_analysis_duration_seconds",
		Help:    "Analysis run latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"kind"})
	durations, err = registerHistogramVec(reg, durations, "planner_analysis_duration_seconds")
	if err != nil {
		return nil, err
	}

	cells := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_grid_cells",
		Help:    "Number of grid cells (or device paths for network runs) evaluated per analysis.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	}, []string{"kind"})
	cells, err = registerHistogramVec(reg, cells, "planner_grid_cells")
	if err != nil {
		return nil, err
	}

	recs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_recommendations_total",
		Help: "Total number of recommendations produced, labeled by analysis kind.",
	}, []string{"kind"})
	recs, err = registerCounterVec(reg, recs, "planner_recommendations_total")
	if err != nil {
		return nil, err
	}

	jobs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_jobs",
		Help: "Current number of tracked analysis jobs by status.",
	}, []string{"status"})
	jobs, err = registerGaugeVec(reg, jobs, "planner_jobs")
	if err != nil {
		return nil, err
	}

	return &AnalysisCollector{
		gatherer:          gatherer,
		Analyses:          analyses,
		AnalysisDurations: durations,
		GridCells:         cells,
		Recommendations:   recs,
		Jobs:              jobs,
	}, nil
}

// ObserveAnalysis records one finished analysis run.
func (c *AnalysisCollector) ObserveAnalysis(kind model.AnalysisKind, duration time.Duration, cells, recommendations int, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	if c.Analyses != nil {
		c.Analyses.WithLabelValues(string(kind), status).Inc()
	}
	if c.AnalysisDurations != nil {
		c.AnalysisDurations.WithLabelValues(string(kind)).Observe(duration.Seconds())
	}
	if err != nil {
		return
	}
	if c.GridCells != nil {
		c.GridCells.WithLabelValues(string(kind)).Observe(float64(cells))
	}
	if c.Recommendations != nil {
		c.Recommendations.WithLabelValues(string(kind)).Add(float64(recommendations))
	}
}

// SetJobCounts drives the job gauges from the job registry.
func (c *AnalysisCollector) SetJobCounts(counts map[string]int) {
	if c == nil || c.Jobs == nil {
		return
	}
	for status, n := range counts {
		c.Jobs.WithLabelValues(status).Set(float64(n))
	}
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *AnalysisCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *AnalysisCollector) Handler() http.Handler {
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

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
