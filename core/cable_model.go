package core

import (
	"github.com/signalsfoundry/sensorplan/model"
)

// CableModel describes the nominal characteristics of a cable type.
type CableModel struct {
	// PropagationNsPerMeter is the signal delay per metre of cable.
	PropagationNsPerMeter float64
	// BandwidthMbps is the nominal link rate.
	BandwidthMbps float64
	// Reliability is the per-link availability factor in (0, 1].
	Reliability float64
}

// cableModels holds the nominal figures per cable type. Fiber propagates
// faster than copper.
var cableModels = map[model.CableType]CableModel{
	model.CableFiber: {PropagationNsPerMeter: 4.9, BandwidthMbps: 10000, Reliability: 0.9999},
	model.CableCat6A: {PropagationNsPerMeter: 5.3, BandwidthMbps: 10000, Reliability: 0.999},
	model.CableCat6:  {PropagationNsPerMeter: 5.3, BandwidthMbps: 1000, Reliability: 0.999},
	model.CableCat5e: {PropagationNsPerMeter: 5.4, BandwidthMbps: 1000, Reliability: 0.998},
	model.CableCoax:  {PropagationNsPerMeter: 5.1, BandwidthMbps: 100, Reliability: 0.995},
}

// LookupCableModel returns the model for t.
func LookupCableModel(t model.CableType) (CableModel, bool) {
	m, ok := cableModels[t]
	return m, ok
}

// edgeBandwidth returns the connection's override or the cable's nominal rate.
func edgeBandwidth(conn *model.Connection, cm CableModel) float64 {
	if conn.BandwidthMbps > 0 {
		return conn.BandwidthMbps
	}
	return cm.BandwidthMbps
}
