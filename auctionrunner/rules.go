package auctionrunner

import (
	"math"
	"time"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
)

var DefaultRules = auctiontypes.AuctionRules{
	ClusterCount:     6,
	AgentsPerCluster: 7,
	MaxRounds:        5,

	TickInterval:             500 * time.Millisecond,
	DecisionDelay:            3 * time.Second,
	VerificationStepInterval: 1600 * time.Millisecond,
	VerificationSteps:        []string{"Verifying metrics", "Aggregating clusters", "Setting up final auction"},

	DropProbability:   0.05,
	SubmitProbability: 0.25,
	InitialBidBonus:   auctiontypes.BidRange{Min: 5, Max: 20},
	RebidBonus:        auctiontypes.BidRange{Min: 8, Max: 28},

	CountryNames: DefaultCountryNames,
}

func ValidateRules(rules auctiontypes.AuctionRules) error {
	if rules.TickInterval <= 0 {
		return auctiontypes.NewValidationError("tick_interval", "must be positive")
	}
	if rules.DecisionDelay <= 0 {
		return auctiontypes.NewValidationError("decision_delay", "must be positive")
	}
	if rules.VerificationStepInterval <= 0 {
		return auctiontypes.NewValidationError("verification_step_interval", "must be positive")
	}
	if len(rules.VerificationSteps) == 0 {
		return auctiontypes.NewValidationError("verification_steps", "at least one step is required")
	}
	if !isProbability(rules.DropProbability) {
		return auctiontypes.NewValidationError("drop_probability", "must be within [0, 1]")
	}
	if !isProbability(rules.SubmitProbability) {
		return auctiontypes.NewValidationError("submit_probability", "must be within [0, 1]")
	}
	if rules.InitialBidBonus.Min > rules.InitialBidBonus.Max {
		return auctiontypes.NewValidationError("initial_bid_bonus", "min exceeds max")
	}
	if rules.RebidBonus.Min > rules.RebidBonus.Max {
		return auctiontypes.NewValidationError("rebid_bonus", "min exceeds max")
	}
	return nil
}

// ResolveParams fills zero counts from the rules and validates the result.
func ResolveParams(rules auctiontypes.AuctionRules, params auctiontypes.SessionParams) (auctiontypes.SessionParams, error) {
	if params.ClusterCount == 0 {
		params.ClusterCount = rules.ClusterCount
	}
	if params.AgentsPerCluster == 0 {
		params.AgentsPerCluster = rules.AgentsPerCluster
	}
	if params.MaxRounds == 0 {
		params.MaxRounds = rules.MaxRounds
	}

	if math.IsNaN(params.BasePrice) || math.IsInf(params.BasePrice, 0) || params.BasePrice <= 0 {
		return params, auctiontypes.NewValidationError("base_price", "must be greater than zero")
	}
	if params.TotalUnits <= 0 {
		return params, auctiontypes.NewValidationError("total_units", "must be greater than zero")
	}
	if params.ClusterCount < 1 {
		return params, auctiontypes.NewValidationError("cluster_count", "must be >= 1")
	}
	if params.AgentsPerCluster < 1 {
		return params, auctiontypes.NewValidationError("agents_per_cluster", "must be >= 1")
	}
	if params.MaxRounds < 1 {
		return params, auctiontypes.NewValidationError("max_rounds", "must be >= 1")
	}

	pool := NewCountryPool(rules.CountryNames)
	if params.AgentsPerCluster > len(pool) {
		return params, auctiontypes.NewValidationError("agents_per_cluster", "exceeds the number of distinct country names")
	}

	return params, nil
}

func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
