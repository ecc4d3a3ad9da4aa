package core

import (
	"github.com/signalsfoundry/sensorplan/model"
)

// CandidateChannels lists the non-overlapping channels the optimizer picks
// from, per band.
var CandidateChannels = map[model.Band][]int{
	model.Band2_4GHz: {1, 6, 11},
	model.Band5GHz:   {36, 40, 44, 48, 149, 153, 157, 161},
	model.Band6GHz:   {5, 21, 37, 53, 69, 85, 101, 117},
}

// ChannelPlan maps access point IDs to their proposed assignments.
type ChannelPlan map[string][]model.ChannelAssignment

// ChannelChange records one reassignment made by the optimizer.
type ChannelChange struct {
	AccessPointID string     `json:"accessPointId"`
	Band          model.Band `json:"band"`
	From          int        `json:"from"`
	To            int        `json:"to"`
}

// OptimizeChannels greedily assigns each AP radio the candidate channel with
// the lowest usage among assignments already made, visiting APs in input
// order and breaking ties by candidate order.
//
// Usage is a global count, not weighted by AP position, so two APs at
// opposite ends of a building still repel each other.
func OptimizeChannels(aps []*model.AccessPoint) (ChannelPlan, []ChannelChange) {
	plan := make(ChannelPlan, len(aps))
	usage := make(map[channelKey]int)
	var changes []ChannelChange

	for _, ap := range aps {
		if ap == nil {
			continue
		}
		assigned := make([]model.ChannelAssignment, 0, len(ap.Channels))
		for _, current := range ap.Channels {
			candidates := CandidateChannels[current.Band]
			if len(candidates) == 0 {
				assigned = append(assigned, current)
				continue
			}
			best := candidates[0]
			bestUse := usage[channelKey{band: current.Band, channel: best}]
			for _, ch := range candidates[1:] {
				if n := usage[channelKey{band: current.Band, channel: ch}]; n < bestUse {
					best, bestUse = ch, n
				}
			}
			usage[channelKey{band: current.Band, channel: best}]++
			assigned = append(assigned, model.ChannelAssignment{Band: current.Band, Channel: best})
			if best != current.Channel {
				changes = append(changes, ChannelChange{
					AccessPointID: ap.ID,
					Band:          current.Band,
					From:          current.Channel,
					To:            best,
				})
			}
		}
		plan[ap.ID] = assigned
	}
	return plan, changes
}

// ApplyChannelPlan returns copies of aps with their channels replaced by the
// plan's assignments. APs missing from the plan are copied unchanged.
func ApplyChannelPlan(aps []*model.AccessPoint, plan ChannelPlan) []*model.AccessPoint {
	out := make([]*model.AccessPoint, 0, len(aps))
	for _, ap := range aps {
		if ap == nil {
			continue
		}
		cp := *ap
		if assigned, ok := plan[ap.ID]; ok {
			cp.Channels = append([]model.ChannelAssignment(nil), assigned...)
		} else {
			cp.Channels = append([]model.ChannelAssignment(nil), ap.Channels...)
		}
		out = append(out, &cp)
	}
	return out
}
