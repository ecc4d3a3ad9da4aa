package model

// QualityTier is a coarse, human-readable classification of a cell's
// coverage or signal.
type QualityTier string

const (
	TierNone      QualityTier = "none"
	TierPoor      QualityTier = "poor"
	TierFair      QualityTier = "fair"
	TierGood      QualityTier = "good"
	TierExcellent QualityTier = "excellent"
)

// QualityTiers lists tiers from worst to best.
var QualityTiers = []QualityTier{TierNone, TierPoor, TierFair, TierGood, TierExcellent}

// Rank orders tiers; higher is better.
func (q QualityTier) Rank() int {
	switch q {
	case TierPoor:
		return 1
	case TierFair:
		return 2
	case TierGood:
		return 3
	case TierExcellent:
		return 4
	default:
		return 0
	}
}

// CoverageCell is one raster cell. Value is a 0..1 coverage score for camera
// grids and a dBm level for wireless grids. Contributors is kept sorted.
type CoverageCell struct {
	Col          int         `json:"col"`
	Row          int         `json:"row"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Value        float64     `json:"value"`
	Contributors []string    `json:"contributors,omitempty"`
	Tier         QualityTier `json:"tier"`

	// Wireless only.
	Band         Band    `json:"band,omitempty"`
	Interference float64 `json:"interference,omitempty"`
}

// Center returns the cell center.
func (c *CoverageCell) Center() Point { return Point{X: c.X, Y: c.Y} }

// HasContributor reports whether id already contributes to the cell.
func (c *CoverageCell) HasContributor(id string) bool {
	for _, existing := range c.Contributors {
		if existing == id {
			return true
		}
	}
	return false
}

// Grid is indexed [row][col].
type Grid [][]CoverageCell

// Rows returns the number of grid rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of grid columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Cell returns a pointer to the cell at (col,row) or nil when out of range.
func (g Grid) Cell(col, row int) *CoverageCell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return nil
	}
	return &g[row][col]
}

// Statistics aggregates a coverage grid.
type Statistics struct {
	TotalCells       int                 `json:"totalCells"`
	CoveredCells     int                 `json:"coveredCells"`
	CoveragePercent  float64             `json:"coveragePercent"`
	RedundancyLevel  float64             `json:"redundancyLevel"`
	QualityHistogram map[QualityTier]int `json:"qualityHistogram"`
}

// WirelessStatistics extends Statistics with signal and channel figures.
type WirelessStatistics struct {
	Statistics

	DeadZones           []Point        `json:"deadZones"`
	AverageSignalDBm    float64        `json:"averageSignalDbm"`
	MinSignalDBm        float64        `json:"minSignalDbm"`
	MaxSignalDBm        float64        `json:"maxSignalDbm"`
	AverageInterference float64        `json:"averageInterference"`
	ChannelUtilization  map[string]int `json:"channelUtilization"`
	BandDistribution    map[Band]int   `json:"bandDistribution"`
}

// AnalysisKind names the analysis that produced a result.
type AnalysisKind string

const (
	AnalysisCamera   AnalysisKind = "camera"
	AnalysisWireless AnalysisKind = "wireless"
	AnalysisNetwork  AnalysisKind = "network"
)

// AnalysisResult is the output of a camera coverage run.
type AnalysisResult struct {
	ID              string           `json:"id"`
	Kind            AnalysisKind     `json:"kind"`
	FloorPlanID     string           `json:"floorPlanId"`
	Resolution      float64          `json:"resolution"`
	Grid            Grid             `json:"grid"`
	Statistics      Statistics       `json:"statistics"`
	Recommendations []Recommendation `json:"recommendations"`
}

// WirelessAnalysisResult is the output of a wireless coverage run.
type WirelessAnalysisResult struct {
	ID              string             `json:"id"`
	Kind            AnalysisKind       `json:"kind"`
	FloorPlanID     string             `json:"floorPlanId"`
	Resolution      float64            `json:"resolution"`
	Grid            Grid               `json:"grid"`
	Statistics      WirelessStatistics `json:"statistics"`
	Recommendations []Recommendation   `json:"recommendations"`
}
