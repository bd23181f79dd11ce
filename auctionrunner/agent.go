package auctionrunner

import (
	"time"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
)

// Agent is one bidder seated in a cluster for a single round. Submitted and
// droppedOut are terminal: once either is set it stays set for the round.
type Agent struct {
	Index       int
	CountryName string
	BidAmount   float64

	submitted   bool
	droppedOut  bool
	submittedAt time.Time
}

func NewAgent(index int, countryName string, bidAmount float64) *Agent {
	return &Agent{
		Index:       index,
		CountryName: countryName,
		BidAmount:   bidAmount,
	}
}

func (a *Agent) Pending() bool {
	return !a.submitted && !a.droppedOut
}

func (a *Agent) Submitted() bool {
	return a.submitted
}

func (a *Agent) DroppedOut() bool {
	return a.droppedOut
}

// Qualifies reports whether the agent's bid counts toward the cluster leader.
func (a *Agent) Qualifies() bool {
	return a.submitted && !a.droppedOut
}

func (a *Agent) Submit(at time.Time) bool {
	if !a.Pending() {
		return false
	}
	a.submitted = true
	a.submittedAt = at
	return true
}

func (a *Agent) DropOut() bool {
	if !a.Pending() {
		return false
	}
	a.droppedOut = true
	return true
}

func (a *Agent) State() auctiontypes.AgentState {
	return auctiontypes.AgentState{
		CountryID:   a.Index,
		CountryName: a.CountryName,
		BidAmount:   a.BidAmount,
		Submitted:   a.submitted,
		DroppedOut:  a.droppedOut,
		SubmittedAt: a.submittedAt,
	}
}
