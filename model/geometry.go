package model

// Point is a position in the floor plan's local planar unit.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is the extent of a floor plan, anchored at the origin.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ElementKind classifies a floor plan element.
type ElementKind string

const (
	ElementWall   ElementKind = "wall"
	ElementDoor   ElementKind = "door"
	ElementWindow ElementKind = "window"
)

// Material names a construction material. Attenuation lookups are keyed on it.
type Material string

const (
	MaterialDrywall  Material = "drywall"
	MaterialBrick    Material = "brick"
	MaterialConcrete Material = "concrete"
	MaterialMetal    Material = "metal"
	MaterialGlass    Material = "glass"
	MaterialWood     Material = "wood"
)

// FloorElement is a straight segment on the plan (wall, door or window).
type FloorElement struct {
	ID        string      `json:"id"`
	Kind      ElementKind `json:"kind"`
	Start     Point       `json:"start"`
	End       Point       `json:"end"`
	Material  Material    `json:"material"`
	Thickness float64     `json:"thickness"`
}

// FloorPlan is the immutable geometry input to an analysis run.
type FloorPlan struct {
	ID       string         `json:"id"`
	Name     string         `json:"name,omitempty"`
	Bounds   Bounds         `json:"bounds"`
	Elements []FloorElement `json:"elements"`
}
