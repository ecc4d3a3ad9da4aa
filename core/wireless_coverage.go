package core

import (
	"github.com/signalsfoundry/sensorplan/model"
)

// rasterizeAccessPoint runs one access point pass over the grid, for every
// band it radiates. Cells keep the strongest level seen so far and the band
// that produced it; the AP joins a cell's contributors whenever the cell is
// inside one of its band ranges.
func rasterizeAccessPoint(grid model.Grid, ap *model.AccessPoint, idx *ObstructionIndex) {
	for _, band := range model.Bands {
		if !(ap.Range(band) > 0) {
			continue
		}
		for r := range grid {
			for c := range grid[r] {
				cell := &grid[r][c]
				signal, ok := SignalAt(ap, band, cell.Center(), idx)
				if !ok {
					continue
				}
				mergeSignal(cell, ap.ID, band, signal)
			}
		}
	}
}

func mergeSignal(cell *model.CoverageCell, apID string, band model.Band, signal float64) {
	if signal > cell.Value || (cell.Band == "" && signal >= cell.Value) {
		cell.Value = signal
		cell.Band = band
	}
	addContributor(cell, apID)
	cell.Tier = SignalTier(cell.Value)
}
