package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/signalsfoundry/sensorplan/model"
)

func pointAt(origin model.Point, headingDeg, dist float64) model.Point {
	rad := headingDeg * math.Pi / 180
	return model.Point{X: origin.X + dist*math.Cos(rad), Y: origin.Y + dist*math.Sin(rad)}
}

func TestCameraCoverageAt_StrictlyDecreasesWithDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cam := &model.Camera{ID: "c", Position: model.Point{X: 50, Y: 50}, DirectionDegrees: 120, FOVDegrees: 80, RangeUnits: 25}
	idx := NewObstructionIndex(nil)

	for i := 0; i < 500; i++ {
		heading := cam.DirectionDegrees + (rng.Float64()*2-1)*(cam.FOVDegrees/2-1)
		d1 := rng.Float64() * (cam.RangeUnits - 0.1)
		d2 := d1 + 0.05 + rng.Float64()*(cam.RangeUnits-d1-0.05)

		v1 := CameraCoverageAt(cam, pointAt(cam.Position, heading, d1), idx, 0.5)
		v2 := CameraCoverageAt(cam, pointAt(cam.Position, heading, d2), idx, 0.5)
		if !(v1 > v2) {
			t.Fatalf("heading %.2f: value at %.3f (%v) not greater than at %.3f (%v)", heading, d1, v1, d2, v2)
		}
	}
}

func TestCameraCoverageAt_ZeroBeyondRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cam := &model.Camera{ID: "c", Position: model.Point{X: 0, Y: 0}, DirectionDegrees: 0, FOVDegrees: 360, RangeUnits: 10}
	for i := 0; i < 200; i++ {
		heading := rng.Float64() * 360
		d := cam.RangeUnits + 0.001 + rng.Float64()*20
		if v := CameraCoverageAt(cam, pointAt(cam.Position, heading, d), nil, 0.5); v != 0 {
			t.Fatalf("value at distance %v = %v, want 0", d, v)
		}
	}
}

func TestCameraCoverageAt_OutsideFOV(t *testing.T) {
	cam := &model.Camera{ID: "c", Position: model.Point{}, DirectionDegrees: 0, FOVDegrees: 90, RangeUnits: 10}
	if v := CameraCoverageAt(cam, model.Point{X: -3, Y: 0}, nil, 0.5); v != 0 {
		t.Fatalf("value behind camera = %v, want 0", v)
	}
	if v := CameraCoverageAt(cam, pointAt(cam.Position, 50, 3), nil, 0.5); v != 0 {
		t.Fatalf("value just outside FOV = %v, want 0", v)
	}
}

func TestCameraCoverageAt_Wraparound(t *testing.T) {
	cam := &model.Camera{ID: "c", Position: model.Point{X: 10, Y: 10}, DirectionDegrees: 1, FOVDegrees: 10, RangeUnits: 10}
	p := pointAt(cam.Position, 359, 5)
	if v := CameraCoverageAt(cam, p, nil, 0.5); !(v > 0) {
		t.Fatalf("camera at 1° with 10° FOV should cover 359°, got %v", v)
	}
}

func TestCameraCoverageAt_ObstructionHalvesValue(t *testing.T) {
	cam := &model.Camera{ID: "c", Position: model.Point{}, DirectionDegrees: 0, FOVDegrees: 90, RangeUnits: 10}
	target := model.Point{X: 6, Y: 1}

	open := NewObstructionIndex(&model.FloorPlan{})
	blocked := NewObstructionIndex(&model.FloorPlan{Elements: []model.FloorElement{
		wall("w", 3, -2, 3, 2, model.MaterialConcrete),
	}})

	clear := CameraCoverageAt(cam, target, open, DefaultObstructionPenalty)
	hidden := CameraCoverageAt(cam, target, blocked, DefaultObstructionPenalty)
	if clear <= 0 {
		t.Fatalf("unobstructed value = %v, want > 0", clear)
	}
	if hidden != clear*0.5 {
		t.Fatalf("obstructed value = %v, want exactly %v", hidden, clear*0.5)
	}
}

func TestCameraCoverageAt_DegenerateCamera(t *testing.T) {
	p := model.Point{X: 1}
	for _, cam := range []*model.Camera{
		nil,
		{ID: "no-range", FOVDegrees: 90},
		{ID: "no-fov", RangeUnits: 10},
	} {
		if v := CameraCoverageAt(cam, p, nil, 0.5); v != 0 {
			t.Fatalf("CameraCoverageAt(%+v) = %v, want 0", cam, v)
		}
	}
	cam := &model.Camera{ID: "c", FOVDegrees: 10, RangeUnits: 5}
	if v := CameraCoverageAt(cam, cam.Position, nil, 0.5); v != 1 {
		t.Fatalf("value at camera position = %v, want 1", v)
	}
}

func TestMergeCameraValue_MaxCombineAndContributors(t *testing.T) {
	cell := &model.CoverageCell{Tier: model.TierNone}
	mergeCameraValue(cell, "b", 0.5)
	mergeCameraValue(cell, "a", 0.3)
	mergeCameraValue(cell, "c", 0)

	if cell.Value != 0.5 {
		t.Fatalf("Value = %v, want 0.5", cell.Value)
	}
	if len(cell.Contributors) != 2 || cell.Contributors[0] != "a" || cell.Contributors[1] != "b" {
		t.Fatalf("Contributors = %v, want [a b]", cell.Contributors)
	}
	if cell.Tier != CameraTier(0.5, 2) {
		t.Fatalf("Tier = %s, want %s", cell.Tier, CameraTier(0.5, 2))
	}
}
