package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/sensorplan/model"
)

func TestComputeStatistics_EmptyGridSentinels(t *testing.T) {
	grid := newGrid(4, 3, 1, 0)
	st := ComputeStatistics(grid)

	want := model.Statistics{
		TotalCells:      12,
		CoveredCells:    0,
		CoveragePercent: 0,
		RedundancyLevel: 0,
		QualityHistogram: map[model.QualityTier]int{
			model.TierNone: 12, model.TierPoor: 0, model.TierFair: 0, model.TierGood: 0, model.TierExcellent: 0,
		},
	}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("statistics mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStatistics_CoverageAndRedundancy(t *testing.T) {
	grid := newGrid(2, 2, 1, 0)
	mergeCameraValue(grid.Cell(0, 0), "a", 0.9)
	mergeCameraValue(grid.Cell(0, 0), "b", 0.2)
	mergeCameraValue(grid.Cell(1, 0), "a", 0.5)

	st := ComputeStatistics(grid)
	if st.CoveredCells != 2 || st.CoveragePercent != 50 {
		t.Fatalf("covered = %d (%v%%), want 2 (50%%)", st.CoveredCells, st.CoveragePercent)
	}
	if st.RedundancyLevel != 1.5 {
		t.Fatalf("RedundancyLevel = %v, want 1.5", st.RedundancyLevel)
	}
	if st.QualityHistogram[model.TierExcellent] != 1 || st.QualityHistogram[model.TierFair] != 1 {
		t.Fatalf("histogram = %v", st.QualityHistogram)
	}
}

func TestComputeWirelessStatistics_NoAccessPoints(t *testing.T) {
	grid := newGrid(3, 2, 1, NoiseFloorDBm)
	ws := ComputeWirelessStatistics(grid, newChannelUsage(nil))

	if ws.AverageSignalDBm != NoiseFloorDBm || ws.MinSignalDBm != NoiseFloorDBm || ws.MaxSignalDBm != NoiseFloorDBm {
		t.Fatalf("signal sentinels = %v/%v/%v, want %v", ws.AverageSignalDBm, ws.MinSignalDBm, ws.MaxSignalDBm, NoiseFloorDBm)
	}
	if len(ws.DeadZones) != 6 {
		t.Fatalf("DeadZones = %d, want every cell", len(ws.DeadZones))
	}
	if ws.AverageInterference != 0 || ws.CoveragePercent != 0 || ws.RedundancyLevel != 0 {
		t.Fatalf("unexpected non-zero aggregates: %+v", ws)
	}
	if ws.ChannelUtilization == nil || ws.BandDistribution == nil {
		t.Fatalf("maps should be non-nil")
	}
}

func TestComputeWirelessStatistics_Aggregates(t *testing.T) {
	grid := newGrid(3, 1, 1, NoiseFloorDBm)
	mergeSignal(grid.Cell(0, 0), "ap", model.Band2_4GHz, -40)
	mergeSignal(grid.Cell(1, 0), "ap", model.Band5GHz, -60)
	grid.Cell(0, 0).Interference = 0.2

	ws := ComputeWirelessStatistics(grid, nil)
	if ws.AverageSignalDBm != -50 || ws.MinSignalDBm != -60 || ws.MaxSignalDBm != -40 {
		t.Fatalf("signal = avg %v min %v max %v", ws.AverageSignalDBm, ws.MinSignalDBm, ws.MaxSignalDBm)
	}
	if !approxEqual(ws.AverageInterference, 0.1) {
		t.Fatalf("AverageInterference = %v, want 0.1", ws.AverageInterference)
	}
	wantBands := map[model.Band]int{model.Band2_4GHz: 1, model.Band5GHz: 1}
	if diff := cmp.Diff(wantBands, ws.BandDistribution); diff != "" {
		t.Fatalf("band distribution mismatch (-want +got):\n%s", diff)
	}
	if len(ws.DeadZones) != 1 || ws.DeadZones[0] != (model.Point{X: 2.5, Y: 0.5}) {
		t.Fatalf("DeadZones = %v, want the third cell center", ws.DeadZones)
	}
}

func TestAddContributor_SortedAndDeduplicated(t *testing.T) {
	cell := &model.CoverageCell{}
	for _, id := range []string{"cam-b", "cam-a", "cam-c", "cam-a", "cam-b"} {
		addContributor(cell, id)
	}
	if diff := cmp.Diff([]string{"cam-a", "cam-b", "cam-c"}, cell.Contributors); diff != "" {
		t.Fatalf("contributors mismatch (-want +got):\n%s", diff)
	}
	if !cell.HasContributor("cam-c") || cell.HasContributor("cam-d") {
		t.Fatalf("HasContributor disagrees with %v", cell.Contributors)
	}
}
