package auctionrunner

import (
	"time"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/util"
)

// Cluster keeps its identity across rounds; Seed replaces its agents.
type Cluster struct {
	ID   int
	size int
	rand util.Randomizer

	round  int
	agents []*Agent

	highestBid     float64
	leader         int
	bidsSubmitted  int
	totalCountries int
}

func NewCluster(id int, size int, rand util.Randomizer) *Cluster {
	return &Cluster{
		ID:     id,
		size:   size,
		rand:   rand,
		leader: -1,
	}
}

func (c *Cluster) Seed(round int, pool CountryPool, model AgentModel, basePrice float64) error {
	names, err := pool.Sample(c.rand, c.size)
	if err != nil {
		return err
	}

	agents := make([]*Agent, 0, c.size)
	for i, name := range names {
		seat := Seat{ClusterID: c.ID, AgentIndex: i, Round: round}
		agents = append(agents, NewAgent(i, name, model.BidAmount(c.rand, seat, basePrice)))
	}

	c.round = round
	c.agents = agents
	c.recompute()
	return nil
}

// Step lets every pending agent act once and returns the agents that
// withdrew on this step.
func (c *Cluster) Step(model AgentModel, now time.Time) []*Agent {
	withdrawn := []*Agent{}
	for _, agent := range c.agents {
		if !agent.Pending() {
			continue
		}

		seat := Seat{ClusterID: c.ID, AgentIndex: agent.Index, Round: c.round}
		switch model.Decide(c.rand, seat, agent.State()) {
		case Withdraw:
			if agent.DropOut() {
				withdrawn = append(withdrawn, agent)
			}
		case Submit:
			agent.Submit(now)
		}
	}

	c.recompute()
	return withdrawn
}

// Ties go to the lowest agent index.
func (c *Cluster) recompute() {
	c.highestBid = 0
	c.leader = -1
	c.bidsSubmitted = 0
	c.totalCountries = 0

	for _, agent := range c.agents {
		if agent.DroppedOut() {
			continue
		}
		c.totalCountries++

		if !agent.Qualifies() {
			continue
		}
		c.bidsSubmitted++

		if c.leader == -1 || agent.BidAmount > c.highestBid {
			c.highestBid = agent.BidAmount
			c.leader = agent.Index
		}
	}
}

func (c *Cluster) Round() int {
	return c.round
}

func (c *Cluster) Agents() []*Agent {
	return c.agents
}

func (c *Cluster) HighestBid() float64 {
	return c.highestBid
}

func (c *Cluster) Leader() (int, bool) {
	return c.leader, c.leader >= 0
}

// Resolved is true once every agent still in the round has submitted.
func (c *Cluster) Resolved() bool {
	return c.bidsSubmitted == c.totalCountries
}

func (c *Cluster) State() auctiontypes.ClusterState {
	agents := make([]auctiontypes.AgentState, 0, len(c.agents))
	for _, agent := range c.agents {
		agents = append(agents, agent.State())
	}

	return auctiontypes.ClusterState{
		ClusterID:         c.ID,
		Round:             c.round,
		Agents:            agents,
		HighestBid:        c.highestBid,
		LeadingAgentIndex: c.leader,
		BidsSubmitted:     c.bidsSubmitted,
		TotalCountries:    c.totalCountries,
		Resolved:          c.Resolved(),
	}
}
