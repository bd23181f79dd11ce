package config

import (
	"time"

	"code.cloudfoundry.org/clusterauction/auctionrunner"
)

const (
	DefaultListenAddr      = "0.0.0.0:8080"
	DefaultLogLevel        = "info"
	DefaultWorkers         = 16
	DefaultMaxQueuedEvents = 4096

	DefaultSessionRetention = time.Hour
)

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.MaxQueuedEvents == 0 {
		c.MaxQueuedEvents = DefaultMaxQueuedEvents
	}
	if c.SessionRetention == 0 {
		c.SessionRetention = DefaultSessionRetention
	}

	applyAuctionDefaults(&c.Auction)
}

func applyAuctionDefaults(a *AuctionConfig) {
	d := auctionrunner.DefaultRules

	if a.ClusterCount == 0 {
		a.ClusterCount = d.ClusterCount
	}
	if a.AgentsPerCluster == 0 {
		a.AgentsPerCluster = d.AgentsPerCluster
	}
	if a.MaxRounds == 0 {
		a.MaxRounds = d.MaxRounds
	}
	if a.TickInterval == 0 {
		a.TickInterval = d.TickInterval
	}
	if a.DecisionDelay == 0 {
		a.DecisionDelay = d.DecisionDelay
	}
	if a.VerificationStepInterval == 0 {
		a.VerificationStepInterval = d.VerificationStepInterval
	}
	if len(a.VerificationSteps) == 0 {
		a.VerificationSteps = append([]string{}, d.VerificationSteps...)
	}
	if a.DropProbability == nil {
		p := d.DropProbability
		a.DropProbability = &p
	}
	if a.SubmitProbability == nil {
		p := d.SubmitProbability
		a.SubmitProbability = &p
	}
	if a.InitialBidBonus == nil {
		r := d.InitialBidBonus
		a.InitialBidBonus = &r
	}
	if a.RebidBonus == nil {
		r := d.RebidBonus
		a.RebidBonus = &r
	}
	if len(a.CountryNames) == 0 {
		a.CountryNames = append([]string{}, d.CountryNames...)
	}
}
