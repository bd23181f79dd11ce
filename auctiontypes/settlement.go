package auctiontypes

type BidStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

type RoundSettlement struct {
	Round             int           `json:"round"`
	Winners           []RoundWinner `json:"winners"`
	Revenue           float64       `json:"revenue"`
	AverageBid        float64       `json:"average_bid"`
	NormalizedRevenue float64       `json:"normalized_revenue"`
}

type ClusterSettlement struct {
	ClusterID       int     `json:"cluster_id"`
	Revenue         float64 `json:"revenue"`
	RoundsContested int     `json:"rounds_contested"`
	RoundsWon       int     `json:"rounds_won"`
	AverageBid      float64 `json:"average_bid"`
}

type SettlementTotals struct {
	TotalRevenue    float64  `json:"total_revenue"`
	AvgWinningBid   float64  `json:"avg_winning_bid"`
	CompletedRounds int      `json:"completed_rounds"`
	TotalUnitsSold  int      `json:"total_units_sold"`
	WinningBids     BidStats `json:"winning_bids"`
}

type SettlementReport struct {
	SessionGuid string              `json:"session_guid"`
	ResourceID  string              `json:"resource_id"`
	BasePrice   float64             `json:"base_price"`
	MaxRounds   int                 `json:"max_rounds"`
	Rounds      []RoundSettlement   `json:"rounds"`
	Clusters    []ClusterSettlement `json:"clusters"`
	Totals      SettlementTotals    `json:"totals"`
}
