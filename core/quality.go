package core

import (
	"math"

	"github.com/signalsfoundry/sensorplan/model"
)

// Camera tiers are evaluated on the merged value plus a redundancy bonus of
// 0.1 per extra camera, capped at +0.2.
const (
	redundancyBonusPerSensor = 0.1
	maxRedundancyBonusCount  = 2
)

// Wireless tier thresholds in dBm.
const (
	SignalExcellentDBm = -30.0
	SignalGoodDBm      = -50.0
	SignalFairDBm      = -70.0
	SignalPoorDBm      = -85.0
)

// CameraTier classifies a camera cell from its value and contributor count.
func CameraTier(value float64, contributors int) model.QualityTier {
	if value <= 0 {
		return model.TierNone
	}
	extra := contributors - 1
	if extra < 0 {
		extra = 0
	}
	combined := value + float64(min(extra, maxRedundancyBonusCount))*redundancyBonusPerSensor
	switch {
	case combined >= 0.8:
		return model.TierExcellent
	case combined >= 0.6:
		return model.TierGood
	case combined >= 0.4:
		return model.TierFair
	default:
		return model.TierPoor
	}
}

// SignalTier classifies a received signal level in dBm.
func SignalTier(dBm float64) model.QualityTier {
	switch {
	case math.IsNaN(dBm):
		return model.TierNone
	case dBm >= SignalExcellentDBm:
		return model.TierExcellent
	case dBm >= SignalGoodDBm:
		return model.TierGood
	case dBm >= SignalFairDBm:
		return model.TierFair
	case dBm >= SignalPoorDBm:
		return model.TierPoor
	default:
		return model.TierNone
	}
}
