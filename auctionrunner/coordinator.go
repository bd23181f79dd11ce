package auctionrunner

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/settlement"
	"code.cloudfoundry.org/lager"
	"github.com/shopspring/decimal"
)

// tick steps every cluster once and checks for quorum. The first tick that
// finds the round globally resolved arms the decision timer and returns it;
// every other tick returns nil.
func (s *Session) tick() clock.Timer {
	s.emitLock.Lock()
	defer s.emitLock.Unlock()

	s.lock.Lock()
	if s.aborted || s.status != auctiontypes.StatusLive {
		s.lock.Unlock()
		return nil
	}

	s.ticks++
	events := s.stepClusters(s.clock.Now())

	var timer clock.Timer
	if !s.pendingResolution && s.globallyResolved() {
		s.pendingResolution = true
		timer = s.clock.NewTimer(s.rules.DecisionDelay)
		s.logger.Info("quorum-reached", lager.Data{
			"round":          s.currentRound,
			"tick":           s.ticks,
			"decision-delay": s.rules.DecisionDelay.String(),
		})
	}
	s.lock.Unlock()

	s.emit(events)
	return timer
}

// stepClusters fans the clusters out over the work pool and joins them before
// returning, so every agent change of this tick is visible to the quorum
// check. Withdrawal events come back in cluster order.
func (s *Session) stepClusters(now time.Time) []auctiontypes.Event {
	withdrawals := make([][]*Agent, len(s.clusters))

	if s.workPool == nil {
		for i, cluster := range s.clusters {
			withdrawals[i] = cluster.Step(s.model, now)
		}
	} else {
		wg := &sync.WaitGroup{}
		wg.Add(len(s.clusters))

		for i, cluster := range s.clusters {
			i, cluster := i, cluster
			s.workPool.Submit(func() {
				defer wg.Done()
				withdrawals[i] = cluster.Step(s.model, now)
			})
		}

		wg.Wait()
	}

	events := []auctiontypes.Event{}
	for i, agents := range withdrawals {
		for _, agent := range agents {
			events = append(events, auctiontypes.AgentWithdrewEvent{
				Session:     s.Guid,
				ClusterID:   s.clusters[i].ID,
				CountryName: agent.CountryName,
				Round:       s.currentRound,
			})
		}
	}
	return events
}

func (s *Session) globallyResolved() bool {
	for _, cluster := range s.clusters {
		if !cluster.Resolved() {
			return false
		}
	}
	return true
}

// resolveRound records one winner per cluster for the current round and
// either reseeds the clusters or completes the session.
func (s *Session) resolveRound() error {
	s.emitLock.Lock()
	defer s.emitLock.Unlock()

	s.lock.Lock()
	if s.aborted || s.status != auctiontypes.StatusLive || !s.globallyResolved() {
		err := s.transitionError("resolve round")
		s.lock.Unlock()
		return err
	}

	round := s.currentRound
	winners := make([]auctiontypes.RoundWinner, 0, len(s.clusters))
	revenue := decimal.Zero
	for _, cluster := range s.clusters {
		winners = append(winners, auctiontypes.RoundWinner{
			ClusterID:  cluster.ID,
			WinningBid: cluster.HighestBid(),
			Round:      round,
		})
		revenue = revenue.Add(decimal.NewFromFloat(cluster.HighestBid()))
	}

	s.roundWinners = append(s.roundWinners, winners...)
	s.totalRevenue = s.totalRevenue.Add(revenue)
	s.pendingResolution = false

	events := []auctiontypes.Event{
		auctiontypes.RoundResolvedEvent{Session: s.Guid, Round: round, Winners: winners},
	}

	var err error
	completed := round+1 > s.params.MaxRounds
	if completed {
		s.status = auctiontypes.StatusCompleted
		events = append(events, auctiontypes.SessionCompletedEvent{
			Session: s.Guid,
			Totals:  settlement.Aggregate(s.snapshot()).Totals,
		})
	} else {
		s.currentRound++
		err = s.seedClusters()
	}
	total := s.totalRevenue
	s.lock.Unlock()

	s.logger.Info("round-resolved", lager.Data{
		"round":         round,
		"round-revenue": revenue.String(),
		"total-revenue": total.String(),
	})
	s.emit(events)
	if completed {
		s.finish()
	}
	return err
}
