package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/sensorplan/internal/logging"
	"github.com/signalsfoundry/sensorplan/model"
)

const tracerName = "github.com/signalsfoundry/sensorplan/core"

// MetricsRecorder receives one observation per finished analysis run.
// err is nil for successful runs.
type MetricsRecorder interface {
	ObserveAnalysis(kind model.AnalysisKind, duration time.Duration, cells, recommendations int, err error)
}

// ResultSink receives finished results. result is one of
// *model.AnalysisResult, *model.WirelessAnalysisResult or
// *model.NetworkAnalysis.
type ResultSink interface {
	SaveResult(ctx context.Context, kind model.AnalysisKind, id, floorPlanID string, result any) error
}

// ProgressFunc is called once per sensor processed with the number of
// sensors done and the total.
type ProgressFunc func(done, total int)

// RunOptions tunes a single analysis call.
type RunOptions struct {
	// Resolution overrides Config.Resolution when non-zero.
	Resolution float64
	// Progress is invoked synchronously after each sensor pass.
	Progress ProgressFunc
}

// Engine runs coverage and topology analyses. Each call builds its own
// obstruction index and grid, so one Engine may serve concurrent calls.
type Engine struct {
	cfg     Config
	log     logging.Logger
	metrics MetricsRecorder
	sink    ResultSink
	tracer  trace.Tracer
	newID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetricsRecorder wires a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithResultSink wires a sink that receives every successful result.
func WithResultSink(s ResultSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithIDGenerator replaces the result ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithTracer replaces the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEngine constructs an Engine. Zero config fields take defaults.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg.ApplyDefaults(),
		log:    logging.Noop(),
		tracer: otel.Tracer(tracerName),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// resolution picks the per-run override unless it is zero. Invalid values
// pass through so validatePlan rejects them.
func (e *Engine) resolution(opts RunOptions) float64 {
	if opts.Resolution != 0 {
		return opts.Resolution
	}
	return e.cfg.Resolution
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return e.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// finish records metrics and span status for a run.
func (e *Engine) finish(ctx context.Context, log logging.Logger, span trace.Span, kind model.AnalysisKind, start time.Time, cells, recs int, err error) {
	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.ObserveAnalysis(kind, elapsed, cells, recs, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn(ctx, "analysis failed",
			logging.String("kind", string(kind)),
			logging.Error(err),
		)
	} else {
		span.SetAttributes(
			attribute.Int("analysis.cells", cells),
			attribute.Int("analysis.recommendations", recs),
		)
		log.Info(ctx, "analysis completed",
			logging.String("kind", string(kind)),
			logging.Int("cells", cells),
			logging.Int("recommendations", recs),
			logging.Duration("elapsed", elapsed),
		)
	}
	span.End()
}

func (e *Engine) store(ctx context.Context, kind model.AnalysisKind, id, floorPlanID string, result any) error {
	if e.sink == nil {
		return nil
	}
	if err := e.sink.SaveResult(ctx, kind, id, floorPlanID, result); err != nil {
		return fmt.Errorf("store %s result %s: %w", kind, id, err)
	}
	return nil
}

func validateCameras(cams []*model.Camera) error {
	for _, c := range cams {
		if c.ID == "" {
			return fmt.Errorf("%w: camera without id", ErrInvalidSensor)
		}
	}
	return nil
}

func validateAccessPoints(aps []*model.AccessPoint) error {
	for _, ap := range aps {
		if ap.ID == "" {
			return fmt.Errorf("%w: access point without id", ErrInvalidSensor)
		}
		for band := range ap.BandRanges {
			if _, err := model.ParseBand(string(band)); err != nil {
				return fmt.Errorf("%w: access point %q: %v", ErrInvalidSensor, ap.ID, err)
			}
		}
		for _, ch := range ap.Channels {
			if _, err := model.ParseBand(string(ch.Band)); err != nil {
				return fmt.Errorf("%w: access point %q: %v", ErrInvalidSensor, ap.ID, err)
			}
			if ch.Channel <= 0 {
				return fmt.Errorf("%w: access point %q: channel %d", ErrInvalidSensor, ap.ID, ch.Channel)
			}
		}
	}
	return nil
}

// AnalyzeCameraCoverage rasterizes every camera in sensors over plan and
// returns the grid, statistics and recommendations. Non-camera sensors are
// ignored.
func (e *Engine) AnalyzeCameraCoverage(ctx context.Context, plan *model.FloorPlan, sensors []model.Sensor, opts RunOptions) (res *model.AnalysisResult, err error) {
	start := time.Now()
	ctx, log := logging.WithRunLogger(ctx, e.log)
	ctx, span := e.startSpan(ctx, "core.AnalyzeCameraCoverage")
	cells, recs := 0, 0
	defer func() { e.finish(ctx, log, span, model.AnalysisCamera, start, cells, recs, err) }()

	resolution := e.resolution(opts)
	cols, rows, err := validatePlan(plan, resolution, e.cfg.MaxCells)
	if err != nil {
		return nil, err
	}
	cameras := model.Cameras(sensors)
	if err := validateCameras(cameras); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("floor_plan.id", plan.ID),
		attribute.Int("sensors.cameras", len(cameras)),
		attribute.Float64("grid.resolution", resolution),
	)

	idx := NewObstructionIndex(plan)
	log.Debug(ctx, "camera rasterization starting",
		logging.Int("cols", cols),
		logging.Int("rows", rows),
		logging.Int("cameras", len(cameras)),
		logging.Int("walls", idx.Len()),
	)

	grid := newGrid(cols, rows, resolution, 0)
	for i, cam := range cameras {
		rasterizeCamera(grid, cam, idx, e.cfg.ObstructionPenalty)
		if opts.Progress != nil {
			opts.Progress(i+1, len(cameras))
		}
	}

	st := ComputeStatistics(grid)
	res = &model.AnalysisResult{
		ID:              e.newID(),
		Kind:            model.AnalysisCamera,
		FloorPlanID:     plan.ID,
		Resolution:      resolution,
		Grid:            grid,
		Statistics:      st,
		Recommendations: CameraRecommendations(grid, st, cameras, e.cfg),
	}
	cells, recs = st.TotalCells, len(res.Recommendations)

	if err := e.store(ctx, model.AnalysisCamera, res.ID, plan.ID, res); err != nil {
		return res, err
	}
	return res, nil
}

// AnalyzeWirelessCoverage rasterizes every access point in sensors over plan,
// scores channel interference and returns the grid, statistics and
// recommendations. WiFi-capable sensors are checked for weak signal.
func (e *Engine) AnalyzeWirelessCoverage(ctx context.Context, plan *model.FloorPlan, sensors []model.Sensor, opts RunOptions) (res *model.WirelessAnalysisResult, err error) {
	start := time.Now()
	ctx, log := logging.WithRunLogger(ctx, e.log)
	ctx, span := e.startSpan(ctx, "core.AnalyzeWirelessCoverage")
	cells, recs := 0, 0
	defer func() { e.finish(ctx, log, span, model.AnalysisWireless, start, cells, recs, err) }()

	resolution := e.resolution(opts)
	cols, rows, err := validatePlan(plan, resolution, e.cfg.MaxCells)
	if err != nil {
		return nil, err
	}
	aps := model.AccessPoints(sensors)
	if err := validateAccessPoints(aps); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("floor_plan.id", plan.ID),
		attribute.Int("sensors.access_points", len(aps)),
		attribute.Float64("grid.resolution", resolution),
	)

	idx := NewObstructionIndex(plan)
	log.Debug(ctx, "wireless rasterization starting",
		logging.Int("cols", cols),
		logging.Int("rows", rows),
		logging.Int("access_points", len(aps)),
		logging.Int("walls", idx.Len()),
	)

	grid := newGrid(cols, rows, resolution, NoiseFloorDBm)
	for i, ap := range aps {
		rasterizeAccessPoint(grid, ap, idx)
		if opts.Progress != nil {
			opts.Progress(i+1, len(aps))
		}
	}

	usage := newChannelUsage(aps)
	applyInterference(grid, usage)

	st := ComputeWirelessStatistics(grid, usage)
	channelPlan, _ := OptimizeChannels(aps)
	res = &model.WirelessAnalysisResult{
		ID:              e.newID(),
		Kind:            model.AnalysisWireless,
		FloorPlanID:     plan.ID,
		Resolution:      resolution,
		Grid:            grid,
		Statistics:      st,
		Recommendations: WirelessRecommendations(grid, resolution, st, sensors, e.cfg, channelPlan),
	}
	cells, recs = st.TotalCells, len(res.Recommendations)

	if err := e.store(ctx, model.AnalysisWireless, res.ID, plan.ID, res); err != nil {
		return res, err
	}
	return res, nil
}

// AnalyzeNetwork runs the topology analyzer over devices and connections.
func (e *Engine) AnalyzeNetwork(ctx context.Context, devices []model.Sensor, conns []model.Connection) (res *model.NetworkAnalysis, err error) {
	start := time.Now()
	ctx, log := logging.WithRunLogger(ctx, e.log)
	ctx, span := e.startSpan(ctx, "core.AnalyzeNetwork",
		attribute.Int("network.devices", len(devices)),
		attribute.Int("network.connections", len(conns)),
	)
	paths, recs := 0, 0
	defer func() { e.finish(ctx, log, span, model.AnalysisNetwork, start, paths, recs, err) }()

	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		if d == nil {
			continue
		}
		ids = append(ids, d.SensorID())
	}

	res, err = AnalyzeTopology(ids, conns)
	if err != nil {
		return nil, err
	}
	res.ID = e.newID()
	paths, recs = len(res.Paths), len(res.Recommendations)

	if err := e.store(ctx, model.AnalysisNetwork, res.ID, "", res); err != nil {
		return res, err
	}
	return res, nil
}

// OptimizeChannels proposes a channel plan for the access points in sensors.
func (e *Engine) OptimizeChannels(sensors []model.Sensor) (ChannelPlan, []ChannelChange) {
	return OptimizeChannels(model.AccessPoints(sensors))
}
