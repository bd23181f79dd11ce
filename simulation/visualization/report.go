package visualization

import (
	"time"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"github.com/GaryBoone/GoStats/stats"
)

// Report pairs a settlement report with how long the session took to run.
type Report struct {
	Settlement auctiontypes.SettlementReport
	Duration   time.Duration
}

type Stat struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Total  float64
}

func NewStat(data []float64) Stat {
	if len(data) == 0 {
		return Stat{}
	}

	return Stat{
		Min:    stats.StatsMin(data),
		Max:    stats.StatsMax(data),
		Mean:   stats.StatsMean(data),
		StdDev: stats.StatsPopulationStandardDeviation(data),
		Total:  stats.StatsSum(data),
	}
}

func NewReport(settlement auctiontypes.SettlementReport, duration time.Duration) *Report {
	return &Report{
		Settlement: settlement,
		Duration:   duration,
	}
}

func (r *Report) CompletedRounds() int {
	return r.Settlement.Totals.CompletedRounds
}

func (r *Report) NClusters() int {
	return len(r.Settlement.Clusters)
}

func (r *Report) WinningBids() []float64 {
	bids := []float64{}
	for _, round := range r.Settlement.Rounds {
		for _, winner := range round.Winners {
			if winner.WinningBid > 0 {
				bids = append(bids, winner.WinningBid)
			}
		}
	}
	return bids
}

// Premiums are the winning bids less the base price.
func (r *Report) Premiums() []float64 {
	premiums := []float64{}
	for _, bid := range r.WinningBids() {
		premiums = append(premiums, bid-r.Settlement.BasePrice)
	}
	return premiums
}

func (r *Report) WinningBidStat() Stat {
	return NewStat(r.WinningBids())
}

func (r *Report) RoundRevenueStat() Stat {
	revenues := []float64{}
	for _, round := range r.Settlement.Rounds {
		revenues = append(revenues, round.Revenue)
	}
	return NewStat(revenues)
}

// UnsoldRounds counts rounds where no cluster had a qualifying bid.
func (r *Report) UnsoldRounds() int {
	unsold := 0
	for _, round := range r.Settlement.Rounds {
		if round.Revenue == 0 {
			unsold++
		}
	}
	return unsold
}

func (r *Report) RoundsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.CompletedRounds()) / r.Duration.Seconds()
}
