package auctionrunner

import (
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/util"
)

type Decision int

const (
	Stay Decision = iota
	Submit
	Withdraw
)

func (d Decision) String() string {
	switch d {
	case Submit:
		return "submit"
	case Withdraw:
		return "withdraw"
	default:
		return "stay"
	}
}

// Seat identifies where an agent sits for the round being played.
type Seat struct {
	ClusterID  int
	AgentIndex int
	Round      int
}

// AgentModel decides how agents behave. Clusters are stepped in parallel, so
// implementations must be safe for concurrent use; the randomizer passed in
// belongs to the calling cluster and is safe to draw from.
type AgentModel interface {
	BidAmount(r util.Randomizer, seat Seat, basePrice float64) float64
	Decide(r util.Randomizer, seat Seat, agent auctiontypes.AgentState) Decision
}

// StochasticModel withdraws a pending agent with DropProbability per tick,
// otherwise submits with SubmitProbability.
type StochasticModel struct {
	DropProbability   float64
	SubmitProbability float64
	InitialBidBonus   auctiontypes.BidRange
	RebidBonus        auctiontypes.BidRange
}

func NewStochasticModel(rules auctiontypes.AuctionRules) StochasticModel {
	return StochasticModel{
		DropProbability:   rules.DropProbability,
		SubmitProbability: rules.SubmitProbability,
		InitialBidBonus:   rules.InitialBidBonus,
		RebidBonus:        rules.RebidBonus,
	}
}

func (m StochasticModel) BidAmount(r util.Randomizer, seat Seat, basePrice float64) float64 {
	bonus := m.InitialBidBonus
	if seat.Round > 1 {
		bonus = m.RebidBonus
	}
	return basePrice + util.RandomFloatIn(r, bonus.Min, bonus.Max)
}

func (m StochasticModel) Decide(r util.Randomizer, seat Seat, agent auctiontypes.AgentState) Decision {
	if !agent.Pending() {
		return Stay
	}
	if r.Float64() < m.DropProbability {
		return Withdraw
	}
	if r.Float64() < m.SubmitProbability {
		return Submit
	}
	return Stay
}
