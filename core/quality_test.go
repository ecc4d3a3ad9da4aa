package core

import (
	"testing"

	"github.com/signalsfoundry/sensorplan/model"
)

func TestCameraTier_Thresholds(t *testing.T) {
	cases := []struct {
		value        float64
		contributors int
		want         model.QualityTier
	}{
		{0, 0, model.TierNone},
		{0, 3, model.TierNone},
		{0.1, 1, model.TierPoor},
		{0.4, 1, model.TierFair},
		{0.6, 1, model.TierGood},
		{0.8, 1, model.TierExcellent},
		{0.55, 2, model.TierGood},
		{0.65, 3, model.TierExcellent},
		// The redundancy bonus stops at two extra cameras.
		{0.35, 10, model.TierFair},
	}
	for _, tc := range cases {
		if got := CameraTier(tc.value, tc.contributors); got != tc.want {
			t.Errorf("CameraTier(%v, %d) = %s, want %s", tc.value, tc.contributors, got, tc.want)
		}
	}
}

func TestCameraTier_Monotonic(t *testing.T) {
	for n := 0; n <= 4; n++ {
		prev := model.TierNone
		for i := 0; i <= 100; i++ {
			tier := CameraTier(float64(i)/100, n)
			if tier.Rank() < prev.Rank() {
				t.Fatalf("CameraTier decreased at value %v with %d contributors: %s after %s", float64(i)/100, n, tier, prev)
			}
			prev = tier
		}
	}
	for i := 1; i <= 100; i++ {
		v := float64(i) / 100
		for n := 1; n < 5; n++ {
			if CameraTier(v, n+1).Rank() < CameraTier(v, n).Rank() {
				t.Fatalf("extra contributor lowered tier at value %v", v)
			}
		}
	}
}

func TestSignalTier_Thresholds(t *testing.T) {
	cases := []struct {
		dBm  float64
		want model.QualityTier
	}{
		{-20, model.TierExcellent},
		{SignalExcellentDBm, model.TierExcellent},
		{-40, model.TierGood},
		{SignalGoodDBm, model.TierGood},
		{-60, model.TierFair},
		{SignalPoorDBm, model.TierPoor},
		{-90, model.TierNone},
		{NoiseFloorDBm, model.TierNone},
	}
	for _, tc := range cases {
		if got := SignalTier(tc.dBm); got != tc.want {
			t.Errorf("SignalTier(%v) = %s, want %s", tc.dBm, got, tc.want)
		}
	}
}

func TestSignalTier_Monotonic(t *testing.T) {
	prev := model.TierNone
	for dBm := -120.0; dBm <= 0; dBm += 0.5 {
		tier := SignalTier(dBm)
		if tier.Rank() < prev.Rank() {
			t.Fatalf("SignalTier decreased at %v dBm: %s after %s", dBm, tier, prev)
		}
		prev = tier
	}
}
