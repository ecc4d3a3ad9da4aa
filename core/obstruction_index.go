package core

import (
	"github.com/paulmach/orb"

	"github.com/signalsfoundry/sensorplan/model"
)

// Obstruction is a wall crossed by a line-of-sight query.
type Obstruction struct {
	WallID    string
	Material  model.Material
	Thickness float64
}

type indexedWall struct {
	id        string
	start     model.Point
	end       model.Point
	material  model.Material
	thickness float64
	bound     orb.Bound
}

// ObstructionIndex answers line-of-sight queries against the walls of one
// floor plan. It is built once per analysis run and is read-only afterwards.
//
// Each query is O(walls): the bounding-box test only short-circuits the
// exact intersection. Query count is cells × sensors, so wall count is the
// dominant cost driver for dense plans; a spatial index (R-tree or uniform
// bins) is the optimization target.
type ObstructionIndex struct {
	walls []indexedWall
}

// NewObstructionIndex indexes the wall elements of plan. Doors, windows and
// walls with coincident endpoints are left out; they never obstruct.
func NewObstructionIndex(plan *model.FloorPlan) *ObstructionIndex {
	idx := &ObstructionIndex{}
	if plan == nil {
		return idx
	}
	for _, el := range plan.Elements {
		if el.Kind != model.ElementWall {
			continue
		}
		if el.Start == el.End {
			continue
		}
		idx.walls = append(idx.walls, indexedWall{
			id:        el.ID,
			start:     el.Start,
			end:       el.End,
			material:  el.Material,
			thickness: el.Thickness,
			bound:     segmentBound(el.Start, el.End),
		})
	}
	return idx
}

// Len returns the number of indexed walls.
func (idx *ObstructionIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.walls)
}

// ObstructionsBetween returns every wall crossed by the segment p1-p2, in
// plan element order.
func (idx *ObstructionIndex) ObstructionsBetween(p1, p2 model.Point) []Obstruction {
	if idx == nil || len(idx.walls) == 0 {
		return nil
	}
	query := segmentBound(p1, p2)

	var out []Obstruction
	for i := range idx.walls {
		w := &idx.walls[i]
		if !w.bound.Intersects(query) {
			continue
		}
		if !SegmentsIntersect(p1, p2, w.start, w.end) {
			continue
		}
		out = append(out, Obstruction{
			WallID:    w.id,
			Material:  w.material,
			Thickness: w.thickness,
		})
	}
	return out
}

// HasLineOfSight reports whether no wall crosses p1-p2.
func (idx *ObstructionIndex) HasLineOfSight(p1, p2 model.Point) bool {
	return len(idx.ObstructionsBetween(p1, p2)) == 0
}

func segmentBound(a, b model.Point) orb.Bound {
	return orb.LineString{orb.Point{a.X, a.Y}, orb.Point{b.X, b.Y}}.Bound()
}
