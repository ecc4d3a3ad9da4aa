package core

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/sensorplan/model"
)

// PointCluster is a group of dead-zone cell centers.
type PointCluster struct {
	Points   []model.Point
	Centroid model.Point
	Min      model.Point
	Max      model.Point
}

// Size returns the number of points in the cluster.
func (c PointCluster) Size() int { return len(c.Points) }

// ClusterPoints groups points with a single greedy pass: each unvisited
// point seeds a cluster and absorbs every other unvisited point within
// threshold of the seed. Membership is not transitive, so a long gap can be
// split into several clusters and two nearby gaps can share one.
func ClusterPoints(points []model.Point, threshold float64) []PointCluster {
	visited := make([]bool, len(points))
	var clusters []PointCluster

	for i, seed := range points {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []model.Point{seed}
		for j := i + 1; j < len(points); j++ {
			if visited[j] {
				continue
			}
			if Distance(seed, points[j]) <= threshold {
				visited[j] = true
				members = append(members, points[j])
			}
		}
		clusters = append(clusters, newPointCluster(members))
	}
	return clusters
}

func newPointCluster(points []model.Point) PointCluster {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return PointCluster{
		Points:   points,
		Centroid: model.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)},
		Min:      model.Point{X: floats.Min(xs), Y: floats.Min(ys)},
		Max:      model.Point{X: floats.Max(xs), Y: floats.Max(ys)},
	}
}
