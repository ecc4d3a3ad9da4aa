package core

import "errors"

var (
	// ErrInvalidFloorPlan is returned for structurally invalid plans, such as
	// non-positive bounds.
	ErrInvalidFloorPlan = errors.New("invalid floor plan")
	// ErrInvalidResolution is returned when the grid resolution is not a
	// positive finite number.
	ErrInvalidResolution = errors.New("invalid grid resolution")
	// ErrGridTooLarge is returned when bounds/resolution would produce more
	// cells than Config.MaxCells allows.
	ErrGridTooLarge = errors.New("grid exceeds maximum cell count")
	// ErrInvalidSensor is returned for sensor records that cannot be analysed.
	ErrInvalidSensor = errors.New("invalid sensor")
	// ErrInvalidConnection is returned for malformed topology edges.
	ErrInvalidConnection = errors.New("invalid connection")
	// ErrUnknownDevice is returned when a connection references a device that
	// is not part of the analysed set.
	ErrUnknownDevice = errors.New("unknown device")
)
