package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/sensorplan/model"
)

// GridDimensions returns the column and row count for a plan at the given
// resolution. Both rasterizers use it so their grids line up cell for cell.
// Callers must pass dimensions accepted by validatePlan.
func GridDimensions(bounds model.Bounds, resolution float64) (cols, rows int) {
	cw, ch := gridExtent(bounds, resolution)
	return int(cw), int(ch)
}

func gridExtent(bounds model.Bounds, resolution float64) (cols, rows float64) {
	return math.Ceil(bounds.Width / resolution), math.Ceil(bounds.Height / resolution)
}

// validatePlan fails fast on structurally invalid input. The cell count is
// checked in float64 before any int conversion.
func validatePlan(plan *model.FloorPlan, resolution float64, maxCells int) (cols, rows int, err error) {
	if plan == nil {
		return 0, 0, fmt.Errorf("%w: nil floor plan", ErrInvalidFloorPlan)
	}
	w, h := plan.Bounds.Width, plan.Bounds.Height
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return 0, 0, fmt.Errorf("%w: bounds must be positive, got %gx%g", ErrInvalidFloorPlan, w, h)
	}
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return 0, 0, fmt.Errorf("%w: %g", ErrInvalidResolution, resolution)
	}
	cw, ch := gridExtent(plan.Bounds, resolution)
	if cw > math.MaxInt32 || ch > math.MaxInt32 || (maxCells > 0 && cw*ch > float64(maxCells)) {
		return 0, 0, fmt.Errorf("%w: %gx%g cells at resolution %g (max %d)", ErrGridTooLarge, cw, ch, resolution, maxCells)
	}
	return int(cw), int(ch), nil
}

// newGrid allocates a cols × rows grid with cell centers set and every cell
// holding initial at tier none.
func newGrid(cols, rows int, resolution, initial float64) model.Grid {
	grid := make(model.Grid, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]model.CoverageCell, cols)
		for c := 0; c < cols; c++ {
			grid[r][c] = model.CoverageCell{
				Col:   c,
				Row:   r,
				X:     (float64(c) + 0.5) * resolution,
				Y:     (float64(r) + 0.5) * resolution,
				Value: initial,
				Tier:  model.TierNone,
			}
		}
	}
	return grid
}

// cellAt maps a plan position to the cell containing it, clamped to the grid.
func cellAt(grid model.Grid, resolution float64, p model.Point) *model.CoverageCell {
	if grid.Rows() == 0 || grid.Cols() == 0 {
		return nil
	}
	col := clampIndex(int(math.Floor(p.X/resolution)), grid.Cols())
	row := clampIndex(int(math.Floor(p.Y/resolution)), grid.Rows())
	return grid.Cell(col, row)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// addContributor inserts id into the cell's sorted contributor set.
func addContributor(cell *model.CoverageCell, id string) {
	if cell.HasContributor(id) {
		return
	}
	i := 0
	for i < len(cell.Contributors) && cell.Contributors[i] < id {
		i++
	}
	cell.Contributors = append(cell.Contributors, "")
	copy(cell.Contributors[i+1:], cell.Contributors[i:])
	cell.Contributors[i] = id
}
