// Package config loads the auctioneer's YAML configuration.
package config

import (
	"time"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
)

type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	LogLevel        string        `yaml:"log_level"`
	Seed            int64         `yaml:"seed"`
	Workers         int           `yaml:"workers"`
	MaxQueuedEvents int           `yaml:"max_queued_events"`
	Auction         AuctionConfig `yaml:"auction"`

	// SessionRetention is how long a stopped session stays observable.
	SessionRetention time.Duration `yaml:"session_retention"`
}

// AuctionConfig mirrors auctiontypes.AuctionRules. Probabilities and bid
// ranges are pointers so that an explicit zero survives applyDefaults.
type AuctionConfig struct {
	ClusterCount     int `yaml:"cluster_count"`
	AgentsPerCluster int `yaml:"agents_per_cluster"`
	MaxRounds        int `yaml:"max_rounds"`

	TickInterval             time.Duration `yaml:"tick_interval"`
	DecisionDelay            time.Duration `yaml:"decision_delay"`
	VerificationStepInterval time.Duration `yaml:"verification_step_interval"`
	VerificationSteps        []string      `yaml:"verification_steps"`

	DropProbability   *float64               `yaml:"drop_probability"`
	SubmitProbability *float64               `yaml:"submit_probability"`
	InitialBidBonus   *auctiontypes.BidRange `yaml:"initial_bid_bonus"`
	RebidBonus        *auctiontypes.BidRange `yaml:"rebid_bonus"`

	CountryNames []string `yaml:"country_names"`
}

func (c *Config) Rules() auctiontypes.AuctionRules {
	a := c.Auction
	rules := auctiontypes.AuctionRules{
		ClusterCount:             a.ClusterCount,
		AgentsPerCluster:         a.AgentsPerCluster,
		MaxRounds:                a.MaxRounds,
		TickInterval:             a.TickInterval,
		DecisionDelay:            a.DecisionDelay,
		VerificationStepInterval: a.VerificationStepInterval,
		VerificationSteps:        append([]string{}, a.VerificationSteps...),
		CountryNames:             append([]string{}, a.CountryNames...),
	}
	if a.DropProbability != nil {
		rules.DropProbability = *a.DropProbability
	}
	if a.SubmitProbability != nil {
		rules.SubmitProbability = *a.SubmitProbability
	}
	if a.InitialBidBonus != nil {
		rules.InitialBidBonus = *a.InitialBidBonus
	}
	if a.RebidBonus != nil {
		rules.RebidBonus = *a.RebidBonus
	}
	return rules
}
