package core

import (
	"math"

	"github.com/signalsfoundry/sensorplan/model"
)

// minEdgeFactor is the floor of the edge-of-view falloff: cells at the FOV
// boundary keep at least 10% of their radial value.
const minEdgeFactor = 0.1

// CameraCoverageAt returns the coverage score (0..1) camera cam provides at
// point p. penalty scales the score when any wall blocks the line of sight.
func CameraCoverageAt(cam *model.Camera, p model.Point, idx *ObstructionIndex, penalty float64) float64 {
	if cam == nil || !(cam.RangeUnits > 0) || !(cam.FOVDegrees > 0) {
		return 0
	}

	d := Distance(cam.Position, p)
	if d > cam.RangeUnits {
		return 0
	}

	halfFOV := cam.FOVDegrees / 2
	diff := 0.0
	if d > 0 {
		diff = AngularDifference(cam.DirectionDegrees, AngleTo(cam.Position, p))
	}
	if diff > halfFOV {
		return 0
	}

	value := math.Max(0, 1-d/cam.RangeUnits)
	if value == 0 {
		return 0
	}

	if d > 0 && !idx.HasLineOfSight(cam.Position, p) {
		value *= penalty
	}

	angleReduction := diff / halfFOV
	value *= math.Max(minEdgeFactor, 1-angleReduction*0.5)
	return value
}

// rasterizeCamera runs one camera pass over the grid, max-combining its
// coverage into every cell.
func rasterizeCamera(grid model.Grid, cam *model.Camera, idx *ObstructionIndex, penalty float64) {
	for r := range grid {
		for c := range grid[r] {
			cell := &grid[r][c]
			value := CameraCoverageAt(cam, cell.Center(), idx, penalty)
			mergeCameraValue(cell, cam.ID, value)
		}
	}
}

func mergeCameraValue(cell *model.CoverageCell, cameraID string, value float64) {
	if value > cell.Value {
		cell.Value = value
	}
	if value > 0 {
		addContributor(cell, cameraID)
	}
	cell.Tier = CameraTier(cell.Value, len(cell.Contributors))
}
