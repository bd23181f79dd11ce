package config

import (
	"errors"
	"fmt"

	"code.cloudfoundry.org/clusterauction/auctionrunner"
	"code.cloudfoundry.org/lager"
)

// Validate checks every field after defaults have been applied.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr is required")
	}
	if _, err := c.LagerLevel(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.New("workers must be >= 1")
	}
	if c.MaxQueuedEvents < 1 {
		return errors.New("max_queued_events must be >= 1")
	}
	if c.SessionRetention <= 0 {
		return errors.New("session_retention must be positive")
	}

	return c.Auction.validate("auction")
}

func (a *AuctionConfig) validate(prefix string) error {
	if a.ClusterCount < 1 {
		return fmt.Errorf("%s.cluster_count must be >= 1", prefix)
	}
	if a.AgentsPerCluster < 1 {
		return fmt.Errorf("%s.agents_per_cluster must be >= 1", prefix)
	}
	if a.MaxRounds < 1 {
		return fmt.Errorf("%s.max_rounds must be >= 1", prefix)
	}
	if a.TickInterval <= 0 {
		return fmt.Errorf("%s.tick_interval must be positive", prefix)
	}
	if a.DecisionDelay <= 0 {
		return fmt.Errorf("%s.decision_delay must be positive", prefix)
	}
	if a.VerificationStepInterval <= 0 {
		return fmt.Errorf("%s.verification_step_interval must be positive", prefix)
	}
	if len(a.VerificationSteps) == 0 {
		return fmt.Errorf("%s.verification_steps must name at least one step", prefix)
	}
	if err := validateProbability(prefix+".drop_probability", a.DropProbability); err != nil {
		return err
	}
	if err := validateProbability(prefix+".submit_probability", a.SubmitProbability); err != nil {
		return err
	}
	if a.InitialBidBonus != nil && a.InitialBidBonus.Min > a.InitialBidBonus.Max {
		return fmt.Errorf("%s.initial_bid_bonus.min must be <= max", prefix)
	}
	if a.RebidBonus != nil && a.RebidBonus.Min > a.RebidBonus.Max {
		return fmt.Errorf("%s.rebid_bonus.min must be <= max", prefix)
	}

	pool := auctionrunner.NewCountryPool(a.CountryNames)
	if a.AgentsPerCluster > len(pool) {
		return fmt.Errorf("%s.agents_per_cluster (%d) exceeds the %d distinct country_names", prefix, a.AgentsPerCluster, len(pool))
	}
	return nil
}

func validateProbability(field string, p *float64) error {
	if p == nil {
		return nil
	}
	if *p < 0 || *p > 1 || *p != *p {
		return fmt.Errorf("%s must be between 0 and 1, got %v", field, *p)
	}
	return nil
}

func (c *Config) LagerLevel() (lager.LogLevel, error) {
	switch c.LogLevel {
	case "debug":
		return lager.DEBUG, nil
	case "info":
		return lager.INFO, nil
	case "error":
		return lager.ERROR, nil
	case "fatal":
		return lager.FATAL, nil
	default:
		return lager.INFO, fmt.Errorf("log_level must be one of debug, info, error, fatal, got %q", c.LogLevel)
	}
}
