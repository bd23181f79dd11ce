// Package settlement turns the winners a session recorded into per-round,
// per-cluster and grand totals. Everything here is a pure function of its
// input.
package settlement

import (
	"sort"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"github.com/GaryBoone/GoStats/stats"
	"github.com/shopspring/decimal"
)

// Aggregate builds the settlement report for a session snapshot. Rounds run
// 1..MaxRounds, and every cluster in the snapshot is listed even when it never
// produced a winning bid. Averages over nothing are 0.
func Aggregate(state auctiontypes.SessionState) auctiontypes.SettlementReport {
	return auctiontypes.SettlementReport{
		SessionGuid: state.Guid,
		ResourceID:  state.ResourceID,
		BasePrice:   state.BasePrice,
		MaxRounds:   state.MaxRounds,
		Rounds:      Rounds(state.MaxRounds, state.RoundWinners),
		Clusters:    Clusters(clusterIDs(state), state.RoundWinners),
		Totals:      Totals(state.TotalUnits, state.CompletedRounds(), state.RoundWinners),
	}
}

func Rounds(maxRounds int, winners []auctiontypes.RoundWinner) []auctiontypes.RoundSettlement {
	lastRound := maxRounds
	for _, winner := range winners {
		if winner.Round > lastRound {
			lastRound = winner.Round
		}
	}

	byRound := map[int][]auctiontypes.RoundWinner{}
	for _, winner := range winners {
		byRound[winner.Round] = append(byRound[winner.Round], winner)
	}

	revenues := make([]decimal.Decimal, lastRound)
	maxRevenue := decimal.Zero
	for round := 1; round <= lastRound; round++ {
		revenues[round-1] = sum(byRound[round])
		if revenues[round-1].GreaterThan(maxRevenue) {
			maxRevenue = revenues[round-1]
		}
	}

	rounds := make([]auctiontypes.RoundSettlement, 0, lastRound)
	for round := 1; round <= lastRound; round++ {
		entries := byRound[round]
		revenue := revenues[round-1]

		normalized := decimal.Zero
		if maxRevenue.IsPositive() {
			normalized = revenue.Div(maxRevenue)
		}

		rounds = append(rounds, auctiontypes.RoundSettlement{
			Round:             round,
			Winners:           copyWinners(entries),
			Revenue:           revenue.InexactFloat64(),
			AverageBid:        average(revenue, len(entries)).InexactFloat64(),
			NormalizedRevenue: normalized.InexactFloat64(),
		})
	}
	return rounds
}

// Clusters reports each cluster's revenue. A round counts as won only when the
// cluster had a qualifying bid, so AverageBid is taken over wins.
func Clusters(ids []int, winners []auctiontypes.RoundWinner) []auctiontypes.ClusterSettlement {
	known := map[int]bool{}
	for _, id := range ids {
		known[id] = true
	}
	extra := []int{}
	for _, winner := range winners {
		if !known[winner.ClusterID] {
			known[winner.ClusterID] = true
			extra = append(extra, winner.ClusterID)
		}
	}
	sort.Ints(extra)
	ids = append(append([]int{}, ids...), extra...)

	clusters := make([]auctiontypes.ClusterSettlement, 0, len(ids))
	for _, id := range ids {
		revenue := decimal.Zero
		contested := 0
		won := 0
		for _, winner := range winners {
			if winner.ClusterID != id {
				continue
			}
			contested++
			if winner.WinningBid > 0 {
				won++
				revenue = revenue.Add(decimal.NewFromFloat(winner.WinningBid))
			}
		}

		clusters = append(clusters, auctiontypes.ClusterSettlement{
			ClusterID:       id,
			Revenue:         revenue.InexactFloat64(),
			RoundsContested: contested,
			RoundsWon:       won,
			AverageBid:      average(revenue, won).InexactFloat64(),
		})
	}
	return clusters
}

// Totals matches the session snapshot exactly: the revenue is the float sum
// of the winning bids in order, and the average is that sum over the entries.
func Totals(totalUnits int, completedRounds int, winners []auctiontypes.RoundWinner) auctiontypes.SettlementTotals {
	revenue := 0.0
	for _, winner := range winners {
		revenue += winner.WinningBid
	}
	avgWinningBid := 0.0
	if len(winners) > 0 {
		avgWinningBid = revenue / float64(len(winners))
	}

	return auctiontypes.SettlementTotals{
		TotalRevenue:    revenue,
		AvgWinningBid:   avgWinningBid,
		CompletedRounds: completedRounds,
		TotalUnitsSold:  totalUnits * completedRounds,
		WinningBids:     NewBidStats(winners),
	}
}

// NewBidStats summarises the winning bids. It is all zeros for no winners.
func NewBidStats(winners []auctiontypes.RoundWinner) auctiontypes.BidStats {
	if len(winners) == 0 {
		return auctiontypes.BidStats{}
	}

	data := make([]float64, 0, len(winners))
	for _, winner := range winners {
		data = append(data, winner.WinningBid)
	}

	return auctiontypes.BidStats{
		Min:    stats.StatsMin(data),
		Max:    stats.StatsMax(data),
		Mean:   stats.StatsMean(data),
		StdDev: stats.StatsPopulationStandardDeviation(data),
	}
}

func sum(winners []auctiontypes.RoundWinner) decimal.Decimal {
	total := decimal.Zero
	for _, winner := range winners {
		total = total.Add(decimal.NewFromFloat(winner.WinningBid))
	}
	return total
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

func copyWinners(winners []auctiontypes.RoundWinner) []auctiontypes.RoundWinner {
	out := make([]auctiontypes.RoundWinner, len(winners))
	copy(out, winners)
	return out
}

func clusterIDs(state auctiontypes.SessionState) []int {
	ids := make([]int, 0, len(state.Clusters))
	for _, cluster := range state.Clusters {
		ids = append(ids, cluster.ClusterID)
	}
	return ids
}
