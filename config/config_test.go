package config_test

import (
	"os"
	"path/filepath"
	"time"

	"code.cloudfoundry.org/clusterauction/auctionrunner"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/config"
	"code.cloudfoundry.org/lager"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var dir string

	writeConfig := func(contents string) string {
		path := filepath.Join(dir, "auctioneer.yml")
		Ω(os.WriteFile(path, []byte(contents), 0644)).Should(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "config")
		Ω(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	Describe("Load", func() {
		It("reads every field", func() {
			path := writeConfig(`
listen_addr: 127.0.0.1:9000
log_level: debug
seed: 12
workers: 4
max_queued_events: 10
session_retention: 15m
auction:
  cluster_count: 2
  agents_per_cluster: 3
  max_rounds: 4
  tick_interval: 250ms
  decision_delay: 2s
  verification_step_interval: 1s
  verification_steps: ["a", "b"]
  drop_probability: 0
  submit_probability: 0.5
  initial_bid_bonus: {min: 1, max: 2}
  rebid_bonus: {min: 3, max: 4}
  country_names: ["Peru", "Chile", "Egypt"]
`)
			cfg, err := config.Load(path)
			Ω(err).ShouldNot(HaveOccurred())

			Ω(cfg.ListenAddr).Should(Equal("127.0.0.1:9000"))
			Ω(cfg.LogLevel).Should(Equal("debug"))
			Ω(cfg.Seed).Should(Equal(int64(12)))
			Ω(cfg.Workers).Should(Equal(4))
			Ω(cfg.MaxQueuedEvents).Should(Equal(10))
			Ω(cfg.SessionRetention).Should(Equal(15 * time.Minute))

			Ω(cfg.Rules()).Should(Equal(auctiontypes.AuctionRules{
				ClusterCount:             2,
				AgentsPerCluster:         3,
				MaxRounds:                4,
				TickInterval:             250 * time.Millisecond,
				DecisionDelay:            2 * time.Second,
				VerificationStepInterval: time.Second,
				VerificationSteps:        []string{"a", "b"},
				DropProbability:          0,
				SubmitProbability:        0.5,
				InitialBidBonus:          auctiontypes.BidRange{Min: 1, Max: 2},
				RebidBonus:               auctiontypes.BidRange{Min: 3, Max: 4},
				CountryNames:             []string{"Peru", "Chile", "Egypt"},
			}))
		})

		It("expands environment variables", func() {
			os.Setenv("AUCTIONEER_TEST_ADDR", "10.0.0.1:7000")
			defer os.Unsetenv("AUCTIONEER_TEST_ADDR")

			cfg, err := config.Load(writeConfig("listen_addr: ${AUCTIONEER_TEST_ADDR}\n"))
			Ω(err).ShouldNot(HaveOccurred())
			Ω(cfg.ListenAddr).Should(Equal("10.0.0.1:7000"))
		})

		It("fails on a missing file", func() {
			_, err := config.Load(filepath.Join(dir, "missing.yml"))
			Ω(err).Should(HaveOccurred())
		})

		It("fails on malformed yaml", func() {
			_, err := config.Load(writeConfig("auction: [unterminated"))
			Ω(err).Should(HaveOccurred())
		})
	})

	Describe("LoadWithDefaults", func() {
		It("falls back to the default rules", func() {
			cfg, err := config.LoadWithDefaults(writeConfig("seed: 5\n"))
			Ω(err).ShouldNot(HaveOccurred())

			Ω(cfg.ListenAddr).Should(Equal(config.DefaultListenAddr))
			Ω(cfg.LogLevel).Should(Equal("info"))
			Ω(cfg.Workers).Should(Equal(config.DefaultWorkers))
			Ω(cfg.SessionRetention).Should(Equal(config.DefaultSessionRetention))
			Ω(cfg.Rules()).Should(Equal(auctionrunner.DefaultRules))
		})

		It("keeps an explicit zero probability", func() {
			cfg, err := config.LoadWithDefaults(writeConfig("auction:\n  drop_probability: 0\n"))
			Ω(err).ShouldNot(HaveOccurred())
			Ω(cfg.Rules().DropProbability).Should(BeZero())
			Ω(cfg.Rules().SubmitProbability).Should(Equal(0.25))
		})
	})

	Describe("LoadAndValidate", func() {
		It("accepts the defaults", func() {
			_, err := config.LoadAndValidate(writeConfig("{}\n"))
			Ω(err).ShouldNot(HaveOccurred())
		})

		It("rejects probabilities above one", func() {
			_, err := config.LoadAndValidate(writeConfig("auction:\n  submit_probability: 1.5\n"))
			Ω(err).Should(MatchError(ContainSubstring("auction.submit_probability must be between 0 and 1")))
		})

		It("rejects more agents than country names", func() {
			_, err := config.LoadAndValidate(writeConfig("auction:\n  agents_per_cluster: 3\n  country_names: [Peru, Chile]\n"))
			Ω(err).Should(MatchError(ContainSubstring("auction.agents_per_cluster")))
		})

		It("rejects a negative session retention", func() {
			_, err := config.LoadAndValidate(writeConfig("session_retention: -1s\n"))
			Ω(err).Should(MatchError("session_retention must be positive"))
		})

		It("rejects inverted bid ranges", func() {
			_, err := config.LoadAndValidate(writeConfig("auction:\n  rebid_bonus: {min: 9, max: 1}\n"))
			Ω(err).Should(MatchError(ContainSubstring("auction.rebid_bonus.min must be <= max")))
		})

		It("rejects negative counts", func() {
			_, err := config.LoadAndValidate(writeConfig("auction:\n  max_rounds: -1\n"))
			Ω(err).Should(MatchError(ContainSubstring("auction.max_rounds must be >= 1")))
		})

		It("rejects unknown log levels", func() {
			_, err := config.LoadAndValidate(writeConfig("log_level: chatty\n"))
			Ω(err).Should(MatchError(ContainSubstring("log_level")))
		})
	})

	Describe("LagerLevel", func() {
		It("maps level names", func() {
			cfg := config.Default()
			cfg.LogLevel = "error"
			level, err := cfg.LagerLevel()
			Ω(err).ShouldNot(HaveOccurred())
			Ω(level).Should(Equal(lager.ERROR))
		})
	})
})
