package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/sensorplan/model"
)

const (
	// BottleneckMbps flags any connection slower than this.
	BottleneckMbps = 100.0
	// criticalLatencyFactor flags paths slower than this multiple of the
	// mean path latency.
	criticalLatencyFactor = 1.5
	hoursPerYear          = 8760.0
)

type topologyEdge struct {
	to   string
	conn *model.Connection
}

// topologyGraph is an undirected adjacency list. Neighbour order follows
// connection input order so BFS results are deterministic.
type topologyGraph struct {
	adj    map[string][]topologyEdge
	degree map[string]int
}

func buildTopologyGraph(deviceIDs []string, conns []model.Connection) (*topologyGraph, error) {
	known := make(map[string]struct{}, len(deviceIDs))
	for _, id := range deviceIDs {
		if _, dup := known[id]; dup || id == "" {
			return nil, fmt.Errorf("%w: device id %q is empty or duplicated", ErrInvalidSensor, id)
		}
		known[id] = struct{}{}
	}

	g := &topologyGraph{
		adj:    make(map[string][]topologyEdge, len(deviceIDs)),
		degree: make(map[string]int, len(deviceIDs)),
	}
	for i := range conns {
		conn := &conns[i]
		if conn.FromID == "" || conn.ToID == "" || conn.FromID == conn.ToID {
			return nil, fmt.Errorf("%w: connection %q must join two distinct devices", ErrInvalidConnection, conn.ID)
		}
		if _, ok := LookupCableModel(conn.CableType); !ok {
			return nil, fmt.Errorf("%w: connection %q has unknown cable type %q", ErrInvalidConnection, conn.ID, conn.CableType)
		}
		if conn.LengthMeters < 0 || math.IsNaN(conn.LengthMeters) {
			return nil, fmt.Errorf("%w: connection %q has negative length", ErrInvalidConnection, conn.ID)
		}
		for _, end := range []string{conn.FromID, conn.ToID} {
			if _, ok := known[end]; !ok {
				return nil, fmt.Errorf("%w: connection %q references %q", ErrUnknownDevice, conn.ID, end)
			}
		}
		g.adj[conn.FromID] = append(g.adj[conn.FromID], topologyEdge{to: conn.ToID, conn: conn})
		g.adj[conn.ToID] = append(g.adj[conn.ToID], topologyEdge{to: conn.FromID, conn: conn})
		g.degree[conn.FromID]++
		g.degree[conn.ToID]++
	}
	return g, nil
}

// shortestPath runs a BFS from src to dst and returns the device sequence
// and the connections used, or nil when dst is unreachable. The first path
// found wins; equal-hop alternatives are not explored.
func (g *topologyGraph) shortestPath(src, dst string) ([]string, []*model.Connection) {
	if src == dst {
		return []string{src}, nil
	}

	queue := []string{src}
	visited := map[string]bool{src: true}
	prev := make(map[string]topologyEdge)
	prevNode := make(map[string]string)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == dst {
			var path []string
			var edges []*model.Connection
			for node := dst; node != src; node = prevNode[node] {
				path = append(path, node)
				edges = append(edges, prev[node].conn)
			}
			path = append(path, src)
			reverseStrings(path)
			for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
				edges[i], edges[j] = edges[j], edges[i]
			}
			return path, edges
		}

		for _, e := range g.adj[current] {
			if visited[e.to] {
				continue
			}
			visited[e.to] = true
			prev[e.to] = e
			prevNode[e.to] = current
			queue = append(queue, e.to)
		}
	}
	return nil, nil
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// pathMetrics folds the per-edge cable figures over a path.
func pathMetrics(edges []*model.Connection) (latencyNs, bandwidth, reliability float64) {
	bandwidth = math.Inf(1)
	reliability = 1
	for _, conn := range edges {
		cm, _ := LookupCableModel(conn.CableType)
		latencyNs += conn.LengthMeters * cm.PropagationNsPerMeter
		bandwidth = math.Min(bandwidth, edgeBandwidth(conn, cm))
		reliability *= cm.Reliability
	}
	if math.IsInf(bandwidth, 1) {
		bandwidth = 0
	}
	return latencyNs, bandwidth, reliability
}

// MTBFHours is a placeholder heuristic: one year divided by the square root
// of the element count. It is not a calibrated reliability model.
func MTBFHours(devices, connections int) float64 {
	n := devices + connections
	if n <= 0 {
		return 0
	}
	return hoursPerYear / math.Sqrt(float64(n))
}

// AnalyzeTopology computes a path for every device pair and the aggregate
// heuristics for the connection graph.
func AnalyzeTopology(deviceIDs []string, conns []model.Connection) (*model.NetworkAnalysis, error) {
	g, err := buildTopologyGraph(deviceIDs, conns)
	if err != nil {
		return nil, err
	}

	out := &model.NetworkAnalysis{
		Paths:               []model.NetworkPath{},
		Bottlenecks:         []string{},
		CriticalPaths:       []model.NetworkPath{},
		SinglePointsFailure: []string{},
		MTBFHours:           MTBFHours(len(deviceIDs), len(conns)),
	}

	for i := 0; i < len(deviceIDs); i++ {
		for j := i + 1; j < len(deviceIDs); j++ {
			from, to := deviceIDs[i], deviceIDs[j]
			path, edges := g.shortestPath(from, to)
			if path == nil {
				out.Unreachable = append(out.Unreachable, model.DevicePair{FromID: from, ToID: to})
				continue
			}
			latency, bandwidth, reliability := pathMetrics(edges)
			out.Paths = append(out.Paths, model.NetworkPath{
				FromID:        from,
				ToID:          to,
				Path:          path,
				LatencyNs:     latency,
				BandwidthMbps: bandwidth,
				Reliability:   reliability,
			})
		}
	}

	for i := range conns {
		cm, _ := LookupCableModel(conns[i].CableType)
		if edgeBandwidth(&conns[i], cm) < BottleneckMbps {
			out.Bottlenecks = append(out.Bottlenecks, conns[i].ID)
		}
	}

	for _, id := range deviceIDs {
		if g.degree[id] == 1 {
			out.SinglePointsFailure = append(out.SinglePointsFailure, id)
		}
	}

	if len(out.Paths) > 0 {
		latencies := make([]float64, len(out.Paths))
		bandwidths := make([]float64, len(out.Paths))
		reliabilities := make([]float64, len(out.Paths))
		for i, p := range out.Paths {
			latencies[i] = p.LatencyNs
			bandwidths[i] = p.BandwidthMbps
			reliabilities[i] = p.Reliability
		}
		out.AverageLatencyNs = stat.Mean(latencies, nil)
		out.MinBandwidthMbps = floats.Min(bandwidths)
		out.AverageReliability = stat.Mean(reliabilities, nil)

		threshold := criticalLatencyFactor * out.AverageLatencyNs
		for _, p := range out.Paths {
			if p.LatencyNs > threshold {
				out.CriticalPaths = append(out.CriticalPaths, p)
			}
		}
	}

	out.Recommendations = NetworkRecommendations(out)
	return out, nil
}
