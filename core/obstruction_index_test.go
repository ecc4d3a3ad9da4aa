package core

import (
	"testing"

	"github.com/signalsfoundry/sensorplan/model"
)

func wall(id string, x1, y1, x2, y2 float64, m model.Material) model.FloorElement {
	return model.FloorElement{
		ID:        id,
		Kind:      model.ElementWall,
		Start:     model.Point{X: x1, Y: y1},
		End:       model.Point{X: x2, Y: y2},
		Material:  m,
		Thickness: 0.1,
	}
}

func TestObstructionIndex_SkipsDoorsWindowsAndDegenerateWalls(t *testing.T) {
	plan := &model.FloorPlan{
		ID:     "p",
		Bounds: model.Bounds{Width: 10, Height: 10},
		Elements: []model.FloorElement{
			wall("w1", 5, 0, 5, 10, model.MaterialBrick),
			{ID: "d1", Kind: model.ElementDoor, Start: model.Point{X: 3, Y: 0}, End: model.Point{X: 3, Y: 10}},
			{ID: "win1", Kind: model.ElementWindow, Start: model.Point{X: 4, Y: 0}, End: model.Point{X: 4, Y: 10}},
			wall("dot", 2, 2, 2, 2, model.MaterialMetal),
		},
	}
	idx := NewObstructionIndex(plan)
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}

	obs := idx.ObstructionsBetween(model.Point{X: 1, Y: 5}, model.Point{X: 9, Y: 5})
	if len(obs) != 1 || obs[0].WallID != "w1" || obs[0].Material != model.MaterialBrick {
		t.Fatalf("ObstructionsBetween = %+v, want only w1", obs)
	}
}

func TestObstructionIndex_ReturnsWallsInPlanOrder(t *testing.T) {
	plan := &model.FloorPlan{
		Bounds: model.Bounds{Width: 10, Height: 10},
		Elements: []model.FloorElement{
			wall("far", 8, 0, 8, 10, model.MaterialConcrete),
			wall("near", 2, 0, 2, 10, model.MaterialDrywall),
		},
	}
	idx := NewObstructionIndex(plan)
	obs := idx.ObstructionsBetween(model.Point{X: 0, Y: 5}, model.Point{X: 10, Y: 5})
	if len(obs) != 2 || obs[0].WallID != "far" || obs[1].WallID != "near" {
		t.Fatalf("ObstructionsBetween = %+v, want [far near]", obs)
	}
}

func TestObstructionIndex_AxisAlignedQueries(t *testing.T) {
	plan := &model.FloorPlan{
		Bounds:   model.Bounds{Width: 10, Height: 10},
		Elements: []model.FloorElement{wall("h", 0, 5, 10, 5, model.MaterialWood)},
	}
	idx := NewObstructionIndex(plan)

	// A vertical query has a zero-width bounding box.
	if idx.HasLineOfSight(model.Point{X: 3, Y: 1}, model.Point{X: 3, Y: 9}) {
		t.Fatalf("vertical segment across horizontal wall should be blocked")
	}
	if !idx.HasLineOfSight(model.Point{X: 3, Y: 1}, model.Point{X: 3, Y: 4}) {
		t.Fatalf("segment stopping short of the wall should be clear")
	}
}

func TestObstructionIndex_NilAndEmpty(t *testing.T) {
	var idx *ObstructionIndex
	if idx.Len() != 0 {
		t.Fatalf("nil index Len = %d, want 0", idx.Len())
	}
	if !idx.HasLineOfSight(model.Point{}, model.Point{X: 1}) {
		t.Fatalf("nil index should never obstruct")
	}
	if NewObstructionIndex(nil).Len() != 0 {
		t.Fatalf("index of nil plan should be empty")
	}
}
