package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/sensorplan/core"
	"github.com/signalsfoundry/sensorplan/internal/jobs"
	"github.com/signalsfoundry/sensorplan/internal/logging"
	"github.com/signalsfoundry/sensorplan/internal/observability"
	"github.com/signalsfoundry/sensorplan/internal/store"
	"github.com/signalsfoundry/sensorplan/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "planner: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	scenario         string
	resolution       float64
	analysis         string
	optimizeChannels bool
	dbPath           string
	metricsAddr      string
	out              string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.StringVar(&o.scenario, "scenario", "configs/office_scenario.json", "path to a JSON scenario, or - for stdin")
	fs.Float64Var(&o.resolution, "resolution", 0, "grid cell size in plan units (0 uses PLANNER_RESOLUTION or 1.0)")
	fs.StringVar(&o.analysis, "analysis", "all", "analysis to run: camera|wireless|network|all")
	fs.BoolVar(&o.optimizeChannels, "optimize-channels", false, "propose a channel plan and re-run wireless coverage with it")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database for results and job history (empty disables persistence)")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "HTTP address for Prometheus /metrics (empty disables)")
	fs.StringVar(&o.out, "out", "", "write the JSON report to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch o.analysis {
	case "camera", "wireless", "network", "all":
	default:
		return options{}, fmt.Errorf("unknown -analysis %q", o.analysis)
	}
	if o.resolution < 0 {
		return options{}, fmt.Errorf("-resolution must not be negative")
	}
	return o, nil
}

func (o options) wants(kind model.AnalysisKind) bool {
	return o.analysis == "all" || o.analysis == string(kind)
}

// report is the JSON document written on success.
type report struct {
	FloorPlanID       string                        `json:"floorPlanId"`
	Camera            *model.AnalysisResult         `json:"camera,omitempty"`
	Wireless          *model.WirelessAnalysisResult `json:"wireless,omitempty"`
	OptimizedWireless *model.WirelessAnalysisResult `json:"optimizedWireless,omitempty"`
	ChannelPlan       core.ChannelPlan              `json:"channelPlan,omitempty"`
	ChannelChanges    []core.ChannelChange          `json:"channelChanges,omitempty"`
	Network           *model.NetworkAnalysis        `json:"network,omitempty"`
	Jobs              []jobs.Job                    `json:"jobs"`
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	log := logging.NewFromEnv()
	ctx, log = logging.WithRunLogger(ctx, log)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewAnalysisCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	if opts.metricsAddr != "" {
		srv := serveMetrics(opts.metricsAddr, collector, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sc, err := loadScenario(opts.scenario, stdin)
	if err != nil {
		return err
	}
	log.Info(ctx, "loaded scenario",
		logging.String("floor_plan_id", sc.FloorPlan.ID),
		logging.Int("sensors", len(sc.Sensors)),
		logging.Int("connections", len(sc.Connections)),
	)

	engineOpts := []core.Option{
		core.WithLogger(log),
		core.WithMetricsRecorder(collector),
	}
	mgr := jobs.NewManager(jobs.WithLogger(log), jobs.WithMetricsRecorder(collector))

	if opts.dbPath != "" {
		db, err := store.Open(ctx, opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		engineOpts = append(engineOpts, core.WithResultSink(db))
		stopRecording := db.RecordJobs(ctx, mgr, func(err error) {
			log.Warn(ctx, "failed to persist job", logging.Error(err))
		})
		defer stopRecording()
	}

	cfg := core.ConfigFromEnv()
	if opts.resolution > 0 {
		cfg.Resolution = opts.resolution
	}
	engine := core.NewEngine(cfg, engineOpts...)

	rep, err := analyze(ctx, engine, mgr, sc, opts)
	if err != nil {
		return err
	}
	rep.Jobs = mgr.List()

	return writeReport(rep, opts.out, stdout)
}

func loadScenario(path string, stdin io.Reader) (*core.Scenario, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open scenario %q: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	sc, err := core.LoadScenario(r)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", path, err)
	}
	return sc, nil
}

// analyze runs every requested analysis as a tracked job. The first failed
// job aborts the run.
func analyze(ctx context.Context, engine *core.Engine, mgr *jobs.Manager, sc *core.Scenario, opts options) (*report, error) {
	rep := &report{FloorPlanID: sc.FloorPlan.ID}
	plan := &sc.FloorPlan

	if opts.wants(model.AnalysisCamera) {
		_, err := mgr.Run(ctx, string(model.AnalysisCamera), func(ctx context.Context, progress func(int, int)) (any, error) {
			res, err := engine.AnalyzeCameraCoverage(ctx, plan, sc.Sensors, core.RunOptions{Progress: progress})
			rep.Camera = res
			return res, err
		})
		if err != nil {
			return nil, fmt.Errorf("camera analysis: %w", err)
		}
	}

	if opts.wants(model.AnalysisWireless) {
		_, err := mgr.Run(ctx, string(model.AnalysisWireless), func(ctx context.Context, progress func(int, int)) (any, error) {
			res, err := engine.AnalyzeWirelessCoverage(ctx, plan, sc.Sensors, core.RunOptions{Progress: progress})
			rep.Wireless = res
			return res, err
		})
		if err != nil {
			return nil, fmt.Errorf("wireless analysis: %w", err)
		}

		if opts.optimizeChannels {
			rep.ChannelPlan, rep.ChannelChanges = engine.OptimizeChannels(sc.Sensors)
			optimized := withChannelPlan(sc.Sensors, rep.ChannelPlan)
			_, err := mgr.Run(ctx, "wireless-optimized", func(ctx context.Context, progress func(int, int)) (any, error) {
				res, err := engine.AnalyzeWirelessCoverage(ctx, plan, optimized, core.RunOptions{Progress: progress})
				rep.OptimizedWireless = res
				return res, err
			})
			if err != nil {
				return nil, fmt.Errorf("optimized wireless analysis: %w", err)
			}
		}
	}

	if opts.wants(model.AnalysisNetwork) {
		_, err := mgr.Run(ctx, string(model.AnalysisNetwork), func(ctx context.Context, _ func(int, int)) (any, error) {
			res, err := engine.AnalyzeNetwork(ctx, sc.Sensors, sc.Connections)
			rep.Network = res
			return res, err
		})
		if err != nil {
			return nil, fmt.Errorf("network analysis: %w", err)
		}
	}

	return rep, nil
}

// withChannelPlan returns sensors with every access point replaced by a copy
// carrying the planned channels.
func withChannelPlan(sensors []model.Sensor, plan core.ChannelPlan) []model.Sensor {
	applied := core.ApplyChannelPlan(model.AccessPoints(sensors), plan)
	byID := make(map[string]*model.AccessPoint, len(applied))
	for _, ap := range applied {
		byID[ap.ID] = ap
	}
	out := make([]model.Sensor, 0, len(sensors))
	for _, s := range sensors {
		if ap, ok := s.(*model.AccessPoint); ok && ap != nil {
			if cp, ok := byID[ap.ID]; ok {
				out = append(out, cp)
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func writeReport(rep *report, path string, stdout io.Writer) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report %q: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func serveMetrics(addr string, collector *observability.AnalysisCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", logging.Error(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
