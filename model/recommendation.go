package model

// RecommendationType categorises a remediation suggestion.
type RecommendationType string

const (
	RecCoverageGap    RecommendationType = "coverage_gap"
	RecRedundancy     RecommendationType = "redundancy"
	RecPositioning    RecommendationType = "positioning"
	RecSignalStrength RecommendationType = "signal_strength"
	RecInterference   RecommendationType = "interference"
	RecBandwidth      RecommendationType = "bandwidth"
)

// Priority orders recommendations for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ActionType is the concrete change a recommendation proposes.
type ActionType string

const (
	ActionAddCamera        ActionType = "add_camera"
	ActionAddAccessPoint   ActionType = "add_access_point"
	ActionRelocateSensor   ActionType = "relocate_sensor"
	ActionOptimizeChannels ActionType = "optimize_channels"
	ActionUpgradeCable     ActionType = "upgrade_cable"
	ActionAddRedundantLink ActionType = "add_redundant_link"
)

// Action carries the parameters and rough cost of a suggested change.
// Cost and time are consumed by reporting.
type Action struct {
	Type               ActionType     `json:"type"`
	Parameters         map[string]any `json:"parameters,omitempty"`
	EstimatedCost      float64        `json:"estimatedCost"`
	EstimatedTimeHours float64        `json:"estimatedTimeHours"`
}

// Recommendation is a prioritized remediation suggestion.
type Recommendation struct {
	ID          string             `json:"id"`
	Type        RecommendationType `json:"type"`
	Priority    Priority           `json:"priority"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Impact      string             `json:"impact"`
	Action      Action             `json:"action"`
}
