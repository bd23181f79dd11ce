package auctiontypes

import "time"

type SessionStatus string

const (
	StatusSetup     SessionStatus = "setup"
	StatusVerifying SessionStatus = "verifying"
	StatusLive      SessionStatus = "live"
	StatusCompleted SessionStatus = "completed"
)

// SessionParams are the seller inputs for a new session. Zero counts fall
// back to the AuctionRules defaults.
type SessionParams struct {
	ResourceID       string  `json:"resource_id"`
	BasePrice        float64 `json:"base_price"`
	TotalUnits       int     `json:"total_units"`
	ClusterCount     int     `json:"cluster_count,omitempty"`
	AgentsPerCluster int     `json:"agents_per_cluster,omitempty"`
	MaxRounds        int     `json:"max_rounds,omitempty"`
}

type BidRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r BidRange) Width() float64 {
	return r.Max - r.Min
}

type AuctionRules struct {
	ClusterCount     int `json:"cluster_count"`
	AgentsPerCluster int `json:"agents_per_cluster"`
	MaxRounds        int `json:"max_rounds"`

	TickInterval             time.Duration `json:"tick_interval"`
	DecisionDelay            time.Duration `json:"decision_delay"`
	VerificationStepInterval time.Duration `json:"verification_step_interval"`
	VerificationSteps        []string      `json:"verification_steps"`

	DropProbability   float64  `json:"drop_probability"`
	SubmitProbability float64  `json:"submit_probability"`
	InitialBidBonus   BidRange `json:"initial_bid_bonus"`
	RebidBonus        BidRange `json:"rebid_bonus"`

	CountryNames []string `json:"country_names"`
}

type AgentState struct {
	CountryID   int       `json:"country_id"`
	CountryName string    `json:"country_name"`
	BidAmount   float64   `json:"bid_amount"`
	Submitted   bool      `json:"submitted"`
	DroppedOut  bool      `json:"dropped_out"`
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
}

func (a AgentState) Pending() bool {
	return !a.Submitted && !a.DroppedOut
}

type ClusterState struct {
	ClusterID         int          `json:"cluster_id"`
	Round             int          `json:"round"`
	Agents            []AgentState `json:"agents"`
	HighestBid        float64      `json:"highest_bid"`
	LeadingAgentIndex int          `json:"leading_agent_index"`
	BidsSubmitted     int          `json:"bids_submitted"`
	TotalCountries    int          `json:"total_countries"`
	Resolved          bool         `json:"resolved"`
}

func (c ClusterState) HasLeader() bool {
	return c.LeadingAgentIndex >= 0
}

type RoundWinner struct {
	ClusterID  int     `json:"cluster_id"`
	WinningBid float64 `json:"winning_bid"`
	Round      int     `json:"round"`
}

// SessionState is a point-in-time copy of a session. Mutating it has no
// effect on the session it was taken from.
type SessionState struct {
	Guid       string  `json:"guid"`
	ResourceID string  `json:"resource_id"`
	BasePrice  float64 `json:"base_price"`
	TotalUnits int     `json:"total_units"`

	Status  SessionStatus `json:"status"`
	Aborted bool          `json:"aborted"`

	CurrentRound int `json:"current_round"`
	MaxRounds    int `json:"max_rounds"`

	VerificationStep  int      `json:"verification_step"`
	VerificationSteps []string `json:"verification_steps"`

	Ticks             int  `json:"ticks"`
	PendingResolution bool `json:"pending_resolution"`

	Clusters      []ClusterState `json:"clusters"`
	RoundWinners  []RoundWinner  `json:"round_winners"`
	TotalRevenue  float64        `json:"total_revenue"`
	AvgWinningBid float64        `json:"avg_winning_bid"`
}

func (s SessionState) CompletedRounds() int {
	if len(s.Clusters) == 0 {
		return 0
	}
	return len(s.RoundWinners) / len(s.Clusters)
}

func (s SessionState) Terminal() bool {
	return s.Aborted || s.Status == StatusCompleted
}
