package model

// CableType identifies the physical medium of a wired connection.
type CableType string

const (
	CableFiber CableType = "fiber"
	CableCat6A CableType = "cat6a"
	CableCat6  CableType = "cat6"
	CableCat5e CableType = "cat5e"
	CableCoax  CableType = "coax"
)

// Connection is an undirected cable between two devices. BandwidthMbps
// overrides the cable's nominal bandwidth when positive.
type Connection struct {
	ID            string    `json:"id"`
	FromID        string    `json:"fromId"`
	ToID          string    `json:"toId"`
	CableType     CableType `json:"cableType"`
	LengthMeters  float64   `json:"lengthMeters"`
	BandwidthMbps float64   `json:"bandwidthMbps,omitempty"`
}

// NetworkPath is a derived shortest-hop route between two devices.
type NetworkPath struct {
	FromID        string   `json:"fromId"`
	ToID          string   `json:"toId"`
	Path          []string `json:"path"`
	LatencyNs     float64  `json:"latencyNs"`
	BandwidthMbps float64  `json:"bandwidthMbps"`
	Reliability   float64  `json:"reliability"`
}

// DevicePair names two devices with no route between them.
type DevicePair struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
}

// NetworkAnalysis is the output of a topology run.
type NetworkAnalysis struct {
	ID                  string           `json:"id"`
	Paths               []NetworkPath    `json:"paths"`
	Unreachable         []DevicePair     `json:"unreachable,omitempty"`
	Bottlenecks         []string         `json:"bottlenecks"`
	CriticalPaths       []NetworkPath    `json:"criticalPaths"`
	SinglePointsFailure []string         `json:"singlePointsOfFailure"`
	AverageLatencyNs    float64          `json:"averageLatencyNs"`
	MinBandwidthMbps    float64          `json:"minBandwidthMbps"`
	AverageReliability  float64          `json:"averageReliability"`
	MTBFHours           float64          `json:"mtbfHours"`
	Recommendations     []Recommendation `json:"recommendations"`
}
