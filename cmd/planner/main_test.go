package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/sensorplan/core"
	"github.com/signalsfoundry/sensorplan/internal/jobs"
	"github.com/signalsfoundry/sensorplan/internal/store"
	"github.com/signalsfoundry/sensorplan/model"
)

const officeScenario = "../../configs/office_scenario.json"

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PLANNER_TRACING_ENABLED", "")
	t.Setenv("PLANNER_RESOLUTION", "")
	t.Setenv("PLANNER_MAX_CELLS", "")
}

func runReport(t *testing.T, args []string, stdin string) report {
	t.Helper()
	var out bytes.Buffer
	if err := run(context.Background(), args, strings.NewReader(stdin), &out); err != nil {
		t.Fatalf("run(%v): %v", args, err)
	}
	var rep report
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out.String())
	}
	return rep
}

func TestRunAllAnalysesOnOfficeScenario(t *testing.T) {
	quietEnv(t)
	rep := runReport(t, []string{"-scenario", officeScenario}, "")

	if rep.FloorPlanID != "office-1" {
		t.Fatalf("FloorPlanID = %q, want office-1", rep.FloorPlanID)
	}
	if rep.Camera == nil || rep.Wireless == nil || rep.Network == nil {
		t.Fatalf("missing analyses: camera=%v wireless=%v network=%v", rep.Camera != nil, rep.Wireless != nil, rep.Network != nil)
	}
	if rows, cols := rep.Camera.Grid.Rows(), rep.Camera.Grid.Cols(); rows != 20 || cols != 40 {
		t.Fatalf("camera grid = %dx%d, want 20 rows x 40 cols", rows, cols)
	}
	if rep.Camera.Statistics.CoveredCells == 0 {
		t.Fatalf("expected some camera coverage")
	}
	if got := len(rep.Network.Paths); got != 15 {
		t.Fatalf("network paths = %d, want 15 for 6 devices", got)
	}
	if rep.OptimizedWireless != nil {
		t.Fatalf("optimized wireless should only run with -optimize-channels")
	}

	if len(rep.Jobs) != 3 {
		t.Fatalf("jobs = %d, want 3", len(rep.Jobs))
	}
	for _, j := range rep.Jobs {
		if j.Status != jobs.StatusCompleted || j.Progress != 100 {
			t.Fatalf("job %s = %s at %v%%, want completed at 100%%", j.Kind, j.Status, j.Progress)
		}
	}
}

func TestRunOptimizeChannels(t *testing.T) {
	quietEnv(t)
	rep := runReport(t, []string{"-scenario", officeScenario, "-analysis", "wireless", "-optimize-channels"}, "")

	if rep.Camera != nil || rep.Network != nil {
		t.Fatalf("only wireless analyses should run")
	}
	if rep.OptimizedWireless == nil {
		t.Fatalf("expected optimized wireless result")
	}
	want := []core.ChannelChange{
		{AccessPointID: "ap-west", Band: model.Band2_4GHz, From: 6, To: 1},
		{AccessPointID: "ap-east", Band: model.Band5GHz, From: 36, To: 40},
	}
	if diff := cmp.Diff(want, rep.ChannelChanges); diff != "" {
		t.Fatalf("channel changes mismatch (-want +got):\n%s", diff)
	}
	if rep.OptimizedWireless.Statistics.AverageInterference > rep.Wireless.Statistics.AverageInterference {
		t.Fatalf("optimized interference %v exceeds original %v",
			rep.OptimizedWireless.Statistics.AverageInterference,
			rep.Wireless.Statistics.AverageInterference)
	}
}

func TestRunReadsScenarioFromStdin(t *testing.T) {
	quietEnv(t)
	scenario := `{
		"floorPlan": {"id": "p", "bounds": {"width": 1, "height": 1}, "elements": []},
		"sensors": [
			{"type": "network_device", "id": "a"},
			{"type": "network_device", "id": "b"}
		],
		"connections": [{"id": "c", "fromId": "a", "toId": "b", "cableType": "fiber", "lengthMeters": 100}]
	}`
	rep := runReport(t, []string{"-scenario", "-", "-analysis", "network"}, scenario)

	if rep.Network == nil || len(rep.Network.Paths) != 1 {
		t.Fatalf("expected one network path, got %+v", rep.Network)
	}
	if got := rep.Network.Paths[0].LatencyNs; math.Abs(got-490) > 1e-9 {
		t.Fatalf("latency = %v, want 490", got)
	}
}

func TestRunPersistsResultsAndJobs(t *testing.T) {
	quietEnv(t)
	dbPath := filepath.Join(t.TempDir(), "planner.db")
	_ = runReport(t, []string{"-scenario", officeScenario, "-db", dbPath}, "")

	ctx := context.Background()
	db, err := store.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer db.Close()

	planResults, err := db.ListResults(ctx, "office-1")
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(planResults) != 2 {
		t.Fatalf("results for office-1 = %d, want camera + wireless", len(planResults))
	}
	all, err := db.ListResults(ctx, "")
	if err != nil {
		t.Fatalf("ListResults(all): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all results = %d, want 3", len(all))
	}

	history, err := db.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("job history = %d, want 3", len(history))
	}
	for _, j := range history {
		if j.Status != jobs.StatusCompleted {
			t.Fatalf("persisted job %s status = %s, want completed", j.ID, j.Status)
		}
	}
}

func TestRunWritesReportFile(t *testing.T) {
	quietEnv(t)
	outPath := filepath.Join(t.TempDir(), "report.json")
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"-scenario", officeScenario, "-analysis", "network", "-out", outPath}, nil, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty when -out is set, got %q", stdout.String())
	}
}

func TestRunFailsOnInvalidFloorPlan(t *testing.T) {
	quietEnv(t)
	scenario := `{"floorPlan": {"id": "bad", "bounds": {"width": 0, "height": 5}}, "sensors": []}`
	var out bytes.Buffer
	err := run(context.Background(), []string{"-scenario", "-", "-analysis", "camera"}, strings.NewReader(scenario), &out)
	if err == nil {
		t.Fatalf("expected error for zero-width floor plan")
	}
	if !strings.Contains(err.Error(), "camera analysis") {
		t.Fatalf("error %q should name the failed analysis", err)
	}
}

func TestParseFlagsRejectsUnknownAnalysis(t *testing.T) {
	if _, err := parseFlags([]string{"-analysis", "thermal"}); err == nil {
		t.Fatalf("expected error for unknown analysis")
	}
	if _, err := parseFlags([]string{"-resolution", "-1"}); err == nil {
		t.Fatalf("expected error for negative resolution")
	}
}

func TestWithChannelPlanReplacesOnlyAccessPoints(t *testing.T) {
	cam := &model.Camera{ID: "cam"}
	ap := &model.AccessPoint{ID: "ap", Channels: []model.ChannelAssignment{{Band: model.Band5GHz, Channel: 36}}}
	sensors := []model.Sensor{cam, ap}

	got := withChannelPlan(sensors, core.ChannelPlan{
		"ap": {{Band: model.Band5GHz, Channel: 149}},
	})
	if got[0] != model.Sensor(cam) {
		t.Fatalf("camera should pass through unchanged")
	}
	replaced, ok := got[1].(*model.AccessPoint)
	if !ok || replaced == ap {
		t.Fatalf("access point should be replaced by a copy")
	}
	if replaced.Channels[0].Channel != 149 {
		t.Fatalf("channel = %d, want 149", replaced.Channels[0].Channel)
	}
	if ap.Channels[0].Channel != 36 {
		t.Fatalf("original access point mutated")
	}
}
