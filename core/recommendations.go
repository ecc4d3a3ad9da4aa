package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/sensorplan/model"
)

const (
	minRedundancyLevel      = 1.2
	minCameraEfficiency     = 0.6
	minAverageSignalDBm     = -60.0
	maxAverageInterference  = 0.3
	minDeviceSignalDBm      = -70.0
	defaultRecommendationID = "rec"
)

type actionEstimate struct {
	cost  float64
	hours float64
}

// actionEstimates is the rough installed cost and labour per action.
var actionEstimates = map[model.ActionType]actionEstimate{
	model.ActionAddCamera:        {cost: 850, hours: 3},
	model.ActionAddAccessPoint:   {cost: 450, hours: 2},
	model.ActionRelocateSensor:   {cost: 150, hours: 1},
	model.ActionOptimizeChannels: {cost: 0, hours: 0.5},
	model.ActionUpgradeCable:     {cost: 300, hours: 4},
	model.ActionAddRedundantLink: {cost: 400, hours: 4},
}

// newAction builds an Action with its cost and time estimate attached.
func newAction(t model.ActionType, params map[string]any) model.Action {
	est := actionEstimates[t]
	return model.Action{
		Type:               t,
		Parameters:         params,
		EstimatedCost:      est.cost,
		EstimatedTimeHours: est.hours,
	}
}

// recommender hands out deterministic, per-result recommendation IDs.
type recommender struct {
	recs []model.Recommendation
}

func (r *recommender) add(rec model.Recommendation) {
	rec.ID = fmt.Sprintf("%s-%d", defaultRecommendationID, len(r.recs)+1)
	r.recs = append(r.recs, rec)
}

func (r *recommender) list() []model.Recommendation {
	if r.recs == nil {
		return []model.Recommendation{}
	}
	return r.recs
}

func uncoveredPoints(grid model.Grid) []model.Point {
	var pts []model.Point
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c].Tier == model.TierNone {
				pts = append(pts, grid[r][c].Center())
			}
		}
	}
	return pts
}

func (r *recommender) coverageGaps(points []model.Point, cfg Config, action model.ActionType, sensorNoun string) {
	for _, cluster := range ClusterPoints(points, cfg.ClusterThreshold) {
		if cluster.Size() <= cfg.MinClusterSize {
			continue
		}
		r.add(model.Recommendation{
			Type:     model.RecCoverageGap,
			Priority: model.PriorityHigh,
			Title:    "Coverage gap detected",
			Description: fmt.Sprintf("%d uncovered cells around (%.1f, %.1f) have no %s coverage.",
				cluster.Size(), cluster.Centroid.X, cluster.Centroid.Y, sensorNoun),
			Impact: fmt.Sprintf("Closes a blind area spanning (%.1f, %.1f)-(%.1f, %.1f).",
				cluster.Min.X, cluster.Min.Y, cluster.Max.X, cluster.Max.Y),
			Action: newAction(action, map[string]any{
				"x":         cluster.Centroid.X,
				"y":         cluster.Centroid.Y,
				"cellCount": cluster.Size(),
			}),
		})
	}
}

func (r *recommender) redundancy(level float64, action model.ActionType, sensorNoun string) {
	if level >= minRedundancyLevel {
		return
	}
	r.add(model.Recommendation{
		Type:        model.RecRedundancy,
		Priority:    model.PriorityMedium,
		Title:       "Low coverage redundancy",
		Description: fmt.Sprintf("Covered cells are seen by %.2f %ss on average; most areas depend on a single device.", level, sensorNoun),
		Impact:      "Overlapping coverage keeps areas observed when one device fails.",
		Action: newAction(action, map[string]any{
			"currentRedundancy": level,
			"targetRedundancy":  minRedundancyLevel,
		}),
	})
}

// CameraEfficiency returns, per camera ID, the mean cell value over the cells
// the camera contributes to. Cameras contributing nowhere score 0.
func CameraEfficiency(grid model.Grid, cameras []*model.Camera) map[string]float64 {
	sums := make(map[string]float64, len(cameras))
	counts := make(map[string]int, len(cameras))
	for r := range grid {
		for c := range grid[r] {
			cell := &grid[r][c]
			for _, id := range cell.Contributors {
				sums[id] += cell.Value
				counts[id]++
			}
		}
	}
	out := make(map[string]float64, len(cameras))
	for _, cam := range cameras {
		if n := counts[cam.ID]; n > 0 {
			out[cam.ID] = sums[cam.ID] / float64(n)
		} else {
			out[cam.ID] = 0
		}
	}
	return out
}

// CameraRecommendations derives remediation suggestions for a camera grid.
// Nothing is suggested when no cell is covered.
func CameraRecommendations(grid model.Grid, st model.Statistics, cameras []*model.Camera, cfg Config) []model.Recommendation {
	r := &recommender{}
	if st.CoveredCells == 0 {
		return r.list()
	}

	r.coverageGaps(uncoveredPoints(grid), cfg, model.ActionAddCamera, "camera")
	r.redundancy(st.RedundancyLevel, model.ActionAddCamera, "camera")

	efficiency := CameraEfficiency(grid, cameras)
	for _, cam := range cameras {
		eff := efficiency[cam.ID]
		if eff >= minCameraEfficiency {
			continue
		}
		r.add(model.Recommendation{
			Type:        model.RecPositioning,
			Priority:    model.PriorityMedium,
			Title:       fmt.Sprintf("Reposition camera %s", displayName(cam.Name, cam.ID)),
			Description: fmt.Sprintf("Camera %s averages %.2f coverage over its cells; it is likely too far from its area, obstructed, or aimed off-target.", cam.ID, eff),
			Impact:      "Raises detection quality in the camera's field of view.",
			Action: newAction(model.ActionRelocateSensor, map[string]any{
				"sensorId":   cam.ID,
				"efficiency": eff,
				"x":          cam.Position.X,
				"y":          cam.Position.Y,
			}),
		})
	}
	return r.list()
}

// WirelessRecommendations derives remediation suggestions for a wireless
// grid. devices are checked individually when WiFi capable. plan, when
// non-nil, is attached to the interference suggestion.
func WirelessRecommendations(grid model.Grid, resolution float64, st model.WirelessStatistics, devices []model.Sensor, cfg Config, plan ChannelPlan) []model.Recommendation {
	r := &recommender{}
	if st.CoveredCells == 0 {
		return r.list()
	}

	r.coverageGaps(st.DeadZones, cfg, model.ActionAddAccessPoint, "wireless")
	r.redundancy(st.RedundancyLevel, model.ActionAddAccessPoint, "access point")

	if st.AverageSignalDBm < minAverageSignalDBm {
		r.add(model.Recommendation{
			Type:        model.RecSignalStrength,
			Priority:    model.PriorityHigh,
			Title:       "Weak average signal",
			Description: fmt.Sprintf("Average signal is %.1f dBm, below the %.0f dBm target.", st.AverageSignalDBm, minAverageSignalDBm),
			Impact:      "Stronger signal improves throughput and camera stream stability.",
			Action: newAction(model.ActionAddAccessPoint, map[string]any{
				"averageSignalDbm": st.AverageSignalDBm,
				"targetSignalDbm":  minAverageSignalDBm,
			}),
		})
	}

	if st.AverageInterference > maxAverageInterference {
		params := map[string]any{"averageInterference": st.AverageInterference}
		if plan != nil {
			params["channelPlan"] = plan
		}
		r.add(model.Recommendation{
			Type:        model.RecInterference,
			Priority:    model.PriorityMedium,
			Title:       "Channel interference",
			Description: fmt.Sprintf("Average interference score is %.2f; access points share or overlap channels.", st.AverageInterference),
			Impact:      "Non-overlapping channels reduce retransmissions and latency.",
			Action:      newAction(model.ActionOptimizeChannels, params),
		})
	}

	for _, dev := range devices {
		if !model.IsWiFiCapable(dev) {
			continue
		}
		pos := dev.Location()
		cell := cellAt(grid, resolution, pos)
		if cell == nil || cell.Value >= minDeviceSignalDBm {
			continue
		}
		r.add(model.Recommendation{
			Type:        model.RecSignalStrength,
			Priority:    model.PriorityMedium,
			Title:       fmt.Sprintf("Weak signal at %s", dev.SensorID()),
			Description: fmt.Sprintf("Device %s receives %.1f dBm, below %.0f dBm.", dev.SensorID(), cell.Value, minDeviceSignalDBm),
			Impact:      "Prevents dropped connections for this device.",
			Action: newAction(model.ActionAddAccessPoint, map[string]any{
				"deviceId":  dev.SensorID(),
				"signalDbm": cell.Value,
				"x":         round2(pos.X),
				"y":         round2(pos.Y),
			}),
		})
	}
	return r.list()
}

// NetworkRecommendations suggests upgrades for bottleneck edges and
// redundant links for single points of failure.
func NetworkRecommendations(analysis *model.NetworkAnalysis) []model.Recommendation {
	r := &recommender{}
	if analysis == nil {
		return r.list()
	}
	for _, id := range analysis.Bottlenecks {
		r.add(model.Recommendation{
			Type:        model.RecBandwidth,
			Priority:    model.PriorityMedium,
			Title:       fmt.Sprintf("Bandwidth bottleneck on %s", id),
			Description: fmt.Sprintf("Connection %s carries less than %.0f Mbps.", id, BottleneckMbps),
			Impact:      "Removes a throughput cap on every path crossing this link.",
			Action:      newAction(model.ActionUpgradeCable, map[string]any{"connectionId": id}),
		})
	}
	for _, id := range analysis.SinglePointsFailure {
		r.add(model.Recommendation{
			Type:        model.RecRedundancy,
			Priority:    model.PriorityHigh,
			Title:       fmt.Sprintf("Single point of failure at %s", id),
			Description: fmt.Sprintf("Device %s has a single connection to the network.", id),
			Impact:      "A second link keeps the device reachable through one cable fault.",
			Action:      newAction(model.ActionAddRedundantLink, map[string]any{"deviceId": id}),
		})
	}
	return r.list()
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
