package core

import (
	"math"

	"github.com/signalsfoundry/sensorplan/model"
)

// NoiseFloorDBm is the lowest signal level the model reports. Wireless cells
// start here and computed signals are clamped to it.
const NoiseFloorDBm = -100.0

// fsplConstant is the free-space path loss constant for d and f in the units
// used by FreeSpacePathLoss.
const fsplConstant = 32.45

// BandFrequencyMHz returns the nominal centre frequency used for path loss.
func BandFrequencyMHz(band model.Band) float64 {
	switch band {
	case model.Band2_4GHz:
		return 2400
	case model.Band5GHz:
		return 5000
	case model.Band6GHz:
		return 6000
	default:
		return 0
	}
}

// materialAttenuationDB is the per-wall loss in dB, by material and band.
// Loss grows with frequency for every material.
var materialAttenuationDB = map[model.Material]map[model.Band]float64{
	model.MaterialDrywall:  {model.Band2_4GHz: 3, model.Band5GHz: 4, model.Band6GHz: 5},
	model.MaterialBrick:    {model.Band2_4GHz: 6, model.Band5GHz: 10, model.Band6GHz: 12},
	model.MaterialConcrete: {model.Band2_4GHz: 12, model.Band5GHz: 18, model.Band6GHz: 22},
	model.MaterialMetal:    {model.Band2_4GHz: 20, model.Band5GHz: 26, model.Band6GHz: 30},
	model.MaterialGlass:    {model.Band2_4GHz: 2, model.Band5GHz: 4, model.Band6GHz: 5},
	model.MaterialWood:     {model.Band2_4GHz: 3, model.Band5GHz: 5, model.Band6GHz: 6},
}

// MaterialAttenuationDB returns the loss of one wall of material m at band.
// Unknown materials are treated as drywall.
func MaterialAttenuationDB(m model.Material, band model.Band) float64 {
	row, ok := materialAttenuationDB[m]
	if !ok {
		row = materialAttenuationDB[model.MaterialDrywall]
	}
	return row[band]
}

// FreeSpacePathLoss returns FSPL in dB: 20log10(d) + 20log10(fMHz) + 32.45.
// Distances under one unit are clamped to one so the log stays finite.
func FreeSpacePathLoss(distance, freqMHz float64) float64 {
	if distance < 1 {
		distance = 1
	}
	return 20*math.Log10(distance) + 20*math.Log10(freqMHz) + fsplConstant
}

// EnvironmentalAttenuationDB models clutter loss: a general term capped at
// 10 dB plus a band-specific term that grows with distance.
func EnvironmentalAttenuationDB(distance float64, band model.Band) float64 {
	loss := math.Min(distance*0.1, 10)
	switch band {
	case model.Band5GHz:
		loss += distance * 0.05
	case model.Band6GHz:
		loss += distance * 0.08
	}
	return loss
}

// SignalAt estimates the received level (dBm) from ap on band at p. ok is
// false when p is outside the band's range or the band is not radiated.
func SignalAt(ap *model.AccessPoint, band model.Band, p model.Point, idx *ObstructionIndex) (dBm float64, ok bool) {
	if ap == nil {
		return NoiseFloorDBm, false
	}
	rng := ap.Range(band)
	freq := BandFrequencyMHz(band)
	if !(rng > 0) || freq == 0 {
		return NoiseFloorDBm, false
	}
	d := Distance(ap.Position, p)
	if d > rng {
		return NoiseFloorDBm, false
	}

	signal := ap.TransmitPowerDBm - FreeSpacePathLoss(d, freq)
	if d > 0 {
		for _, obs := range idx.ObstructionsBetween(ap.Position, p) {
			signal -= MaterialAttenuationDB(obs.Material, band)
		}
	}
	signal -= EnvironmentalAttenuationDB(d, band)

	if signal < NoiseFloorDBm || math.IsNaN(signal) {
		signal = NoiseFloorDBm
	}
	return signal, true
}
