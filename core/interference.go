package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/sensorplan/model"
)

const (
	interferencePerAP  = 0.1
	maxInterference    = 1.0
	minChannel2_4GHz   = 1
	maxChannel2_4GHz   = 14
	overlapWindow2_4   = 4
	overlapWindowOther = 1
)

type channelKey struct {
	band    model.Band
	channel int
}

func (k channelKey) String() string { return fmt.Sprintf("%s:%d", k.band, k.channel) }

// channelUsage groups access point assignments by band and channel,
// system-wide.
type channelUsage struct {
	aps   map[channelKey]map[string]struct{}
	byAP  map[string][]channelKey
	total map[channelKey]int
}

func newChannelUsage(aps []*model.AccessPoint) *channelUsage {
	u := &channelUsage{
		aps:   make(map[channelKey]map[string]struct{}),
		byAP:  make(map[string][]channelKey),
		total: make(map[channelKey]int),
	}
	for _, ap := range aps {
		for _, ch := range ap.Channels {
			key := channelKey{band: ch.Band, channel: ch.Channel}
			set, ok := u.aps[key]
			if !ok {
				set = make(map[string]struct{})
				u.aps[key] = set
			}
			set[ap.ID] = struct{}{}
			u.byAP[ap.ID] = append(u.byAP[ap.ID], key)
			u.total[key]++
		}
	}
	return u
}

func (u *channelUsage) count(key channelKey) int { return len(u.aps[key]) }

// utilization renders assignment counts keyed "band:channel".
func (u *channelUsage) utilization() map[string]int {
	out := make(map[string]int, len(u.total))
	for key, n := range u.total {
		out[key.String()] = n
	}
	return out
}

// overlapRange returns the inclusive channel window that overlaps ch.
func overlapRange(band model.Band, ch int) (lo, hi int) {
	if band == model.Band2_4GHz {
		lo = max(ch-overlapWindow2_4, minChannel2_4GHz)
		hi = min(ch+overlapWindow2_4, maxChannel2_4GHz)
		return lo, hi
	}
	lo = max(ch-overlapWindowOther, 1)
	return lo, ch + overlapWindowOther
}

// cellInterference scores co- and adjacent-channel contention at a cell
// from the channels its contributing APs use. Each AP on an overlapping
// channel adds 0.1; an AP does not interfere with itself. Capped at 1.0.
func (u *channelUsage) cellInterference(contributors []string) float64 {
	inUse := make(map[channelKey]struct{})
	var order []channelKey
	for _, apID := range contributors {
		for _, key := range u.byAP[apID] {
			if _, seen := inUse[key]; seen {
				continue
			}
			inUse[key] = struct{}{}
			order = append(order, key)
		}
	}

	score := 0.0
	for _, key := range order {
		lo, hi := overlapRange(key.band, key.channel)
		for ch := lo; ch <= hi; ch++ {
			n := u.count(channelKey{band: key.band, channel: ch})
			if ch == key.channel {
				n--
			}
			if n > 0 {
				score += interferencePerAP * float64(n)
			}
		}
	}
	return math.Min(score, maxInterference)
}

// applyInterference fills the Interference field of every cell.
func applyInterference(grid model.Grid, usage *channelUsage) {
	for r := range grid {
		for c := range grid[r] {
			cell := &grid[r][c]
			if len(cell.Contributors) == 0 {
				cell.Interference = 0
				continue
			}
			cell.Interference = usage.cellInterference(cell.Contributors)
		}
	}
}
