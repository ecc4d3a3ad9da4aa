package core

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/sensorplan/model"
)

func newHistogram() map[model.QualityTier]int {
	h := make(map[model.QualityTier]int, len(model.QualityTiers))
	for _, tier := range model.QualityTiers {
		h[tier] = 0
	}
	return h
}

// ComputeStatistics aggregates a grid. A cell counts as covered when its tier
// is above none. RedundancyLevel is the mean contributor count over covered
// cells and 0 when nothing is covered.
func ComputeStatistics(grid model.Grid) model.Statistics {
	st := model.Statistics{QualityHistogram: newHistogram()}

	var redundancy []float64
	for r := range grid {
		for c := range grid[r] {
			cell := &grid[r][c]
			st.TotalCells++
			st.QualityHistogram[cell.Tier]++
			if cell.Tier.Rank() == 0 {
				continue
			}
			st.CoveredCells++
			redundancy = append(redundancy, float64(len(cell.Contributors)))
		}
	}

	if st.TotalCells > 0 {
		st.CoveragePercent = float64(st.CoveredCells) / float64(st.TotalCells) * 100
	}
	if len(redundancy) > 0 {
		st.RedundancyLevel = stat.Mean(redundancy, nil)
	}
	return st
}

// ComputeWirelessStatistics adds signal, interference and channel figures.
// Signal and interference aggregates run over cells reached by at least one
// access point; with none reached the signal figures sit at NoiseFloorDBm.
func ComputeWirelessStatistics(grid model.Grid, usage *channelUsage) model.WirelessStatistics {
	ws := model.WirelessStatistics{
		Statistics:         ComputeStatistics(grid),
		DeadZones:          []model.Point{},
		AverageSignalDBm:   NoiseFloorDBm,
		MinSignalDBm:       NoiseFloorDBm,
		MaxSignalDBm:       NoiseFloorDBm,
		ChannelUtilization: map[string]int{},
		BandDistribution:   map[model.Band]int{},
	}

	var signals, interference []float64
	for r := range grid {
		for c := range grid[r] {
			cell := &grid[r][c]
			if cell.Tier == model.TierNone {
				ws.DeadZones = append(ws.DeadZones, cell.Center())
			}
			if len(cell.Contributors) == 0 {
				continue
			}
			signals = append(signals, cell.Value)
			interference = append(interference, cell.Interference)
			if cell.Band != "" {
				ws.BandDistribution[cell.Band]++
			}
		}
	}

	if len(signals) > 0 {
		ws.AverageSignalDBm = stat.Mean(signals, nil)
		ws.MinSignalDBm = floats.Min(signals)
		ws.MaxSignalDBm = floats.Max(signals)
		ws.AverageInterference = stat.Mean(interference, nil)
	}
	if usage != nil {
		ws.ChannelUtilization = usage.utilization()
	}
	return ws
}
