package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/sensorplan/model"
)

func apOn(id string, x, y float64, channels ...model.ChannelAssignment) *model.AccessPoint {
	return &model.AccessPoint{
		ID:               id,
		Position:         model.Point{X: x, Y: y},
		TransmitPowerDBm: 60,
		BandRanges:       map[model.Band]float64{model.Band2_4GHz: 20, model.Band5GHz: 12},
		Channels:         channels,
	}
}

func ch24(n int) model.ChannelAssignment {
	return model.ChannelAssignment{Band: model.Band2_4GHz, Channel: n}
}

func ch5(n int) model.ChannelAssignment {
	return model.ChannelAssignment{Band: model.Band5GHz, Channel: n}
}

func TestCellInterference(t *testing.T) {
	usage := newChannelUsage([]*model.AccessPoint{
		apOn("a", 0, 0, ch24(6)),
		apOn("b", 0, 0, ch24(6)),
		apOn("c", 0, 0, ch24(1)),
		apOn("d", 0, 0, ch24(11)),
	})

	cases := []struct {
		name         string
		contributors []string
		want         float64
	}{
		{"no contributors", nil, 0},
		// ch6 window 2..10: one other AP on 6.
		{"shared co-channel", []string{"a"}, 0.1},
		// ch1 window 1..5: itself only.
		{"isolated channel", []string{"c"}, 0},
		// ch6 counted once even with two contributors on it; ch11 window 7..14 is empty.
		{"mixed", []string{"a", "b", "d"}, 0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := usage.cellInterference(tc.contributors); !approxEqual(got, tc.want) {
				t.Fatalf("cellInterference = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCellInterference_LoneAPScoresZero(t *testing.T) {
	usage := newChannelUsage([]*model.AccessPoint{apOn("solo", 0, 0, ch24(6), ch5(36))})
	if got := usage.cellInterference([]string{"solo"}); got != 0 {
		t.Fatalf("cellInterference = %v, want 0 for an AP alone on its channels", got)
	}
}

func TestCellInterference_AdjacentAndCapped(t *testing.T) {
	aps := []*model.AccessPoint{apOn("x", 0, 0, ch24(3))}
	for i := 0; i < 15; i++ {
		aps = append(aps, apOn(string(rune('a'+i)), 0, 0, ch24(5)))
	}
	usage := newChannelUsage(aps)

	// ch3 window 1..7 sees fifteen APs on ch5.
	if got := usage.cellInterference([]string{"x"}); got != 1.0 {
		t.Fatalf("cellInterference = %v, want capped 1.0", got)
	}
}

func TestOverlapRange(t *testing.T) {
	cases := []struct {
		band   model.Band
		ch     int
		lo, hi int
	}{
		{model.Band2_4GHz, 1, 1, 5},
		{model.Band2_4GHz, 6, 2, 10},
		{model.Band2_4GHz, 13, 9, 14},
		{model.Band5GHz, 36, 35, 37},
		{model.Band6GHz, 1, 1, 2},
	}
	for _, tc := range cases {
		lo, hi := overlapRange(tc.band, tc.ch)
		if lo != tc.lo || hi != tc.hi {
			t.Errorf("overlapRange(%s, %d) = [%d,%d], want [%d,%d]", tc.band, tc.ch, lo, hi, tc.lo, tc.hi)
		}
	}
}

func TestChannelUtilization(t *testing.T) {
	usage := newChannelUsage([]*model.AccessPoint{
		apOn("a", 0, 0, ch24(6), ch5(36)),
		apOn("b", 0, 0, ch24(6)),
	})
	want := map[string]int{"2.4GHz:6": 2, "5GHz:36": 1}
	if diff := cmp.Diff(want, usage.utilization()); diff != "" {
		t.Fatalf("utilization mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimizeChannels_SpreadsCoChannelAPs(t *testing.T) {
	aps := []*model.AccessPoint{
		apOn("ap1", 5, 5, ch24(6)),
		apOn("ap2", 10, 5, ch24(6)),
	}
	plan, changes := OptimizeChannels(aps)

	wantPlan := ChannelPlan{
		"ap1": {ch24(1)},
		"ap2": {ch24(6)},
	}
	if diff := cmp.Diff(wantPlan, plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
	wantChanges := []ChannelChange{{AccessPointID: "ap1", Band: model.Band2_4GHz, From: 6, To: 1}}
	if diff := cmp.Diff(wantChanges, changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}

	lo, hi := overlapRange(model.Band2_4GHz, 1)
	if 6 >= lo && 6 <= hi {
		t.Fatalf("optimized channels 1 and 6 still overlap")
	}
}

func TestOptimizeChannels_FillsCandidatesBeforeReuse(t *testing.T) {
	var aps []*model.AccessPoint
	for i := 0; i < 4; i++ {
		aps = append(aps, apOn(string(rune('a'+i)), 0, 0, ch24(6)))
	}
	plan, _ := OptimizeChannels(aps)

	got := []int{plan["a"][0].Channel, plan["b"][0].Channel, plan["c"][0].Channel, plan["d"][0].Channel}
	if diff := cmp.Diff([]int{1, 6, 11, 1}, got); diff != "" {
		t.Fatalf("assignment order mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimizeChannels_KeepsUnknownBands(t *testing.T) {
	odd := model.ChannelAssignment{Band: "60GHz", Channel: 2}
	plan, changes := OptimizeChannels([]*model.AccessPoint{apOn("a", 0, 0, odd)})
	if len(changes) != 0 || plan["a"][0] != odd {
		t.Fatalf("plan = %v changes = %v, want unknown band passed through", plan, changes)
	}
}

func TestApplyChannelPlan_CopiesAccessPoints(t *testing.T) {
	orig := apOn("a", 0, 0, ch24(6))
	out := ApplyChannelPlan([]*model.AccessPoint{orig, nil}, ChannelPlan{"a": {ch24(11)}})
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0] == orig || out[0].Channels[0].Channel != 11 {
		t.Fatalf("ApplyChannelPlan should return a copy on channel 11, got %+v", out[0])
	}
	if orig.Channels[0].Channel != 6 {
		t.Fatalf("original mutated")
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
