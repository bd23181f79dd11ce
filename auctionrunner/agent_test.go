package auctionrunner_test

import (
	"time"

	"code.cloudfoundry.org/clusterauction/auctionrunner"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Agent", func() {
	var agent *auctionrunner.Agent
	var now time.Time

	BeforeEach(func() {
		agent = auctionrunner.NewAgent(2, "Chile", 17.5)
		now = time.Unix(1000, 0)
	})

	It("starts out pending", func() {
		Ω(agent.Pending()).Should(BeTrue())
		Ω(agent.Qualifies()).Should(BeFalse())

		state := agent.State()
		Ω(state.CountryID).Should(Equal(2))
		Ω(state.CountryName).Should(Equal("Chile"))
		Ω(state.BidAmount).Should(Equal(17.5))
		Ω(state.Pending()).Should(BeTrue())
	})

	Describe("Submit", func() {
		It("stamps the submission and qualifies the agent", func() {
			Ω(agent.Submit(now)).Should(BeTrue())
			Ω(agent.Submitted()).Should(BeTrue())
			Ω(agent.Qualifies()).Should(BeTrue())
			Ω(agent.State().SubmittedAt).Should(Equal(now))
		})

		It("is terminal", func() {
			agent.Submit(now)
			Ω(agent.DropOut()).Should(BeFalse())
			Ω(agent.Submit(now.Add(time.Second))).Should(BeFalse())

			Ω(agent.DroppedOut()).Should(BeFalse())
			Ω(agent.State().SubmittedAt).Should(Equal(now))
		})
	})

	Describe("DropOut", func() {
		It("is terminal and never qualifies", func() {
			Ω(agent.DropOut()).Should(BeTrue())
			Ω(agent.Submit(now)).Should(BeFalse())

			Ω(agent.DroppedOut()).Should(BeTrue())
			Ω(agent.Submitted()).Should(BeFalse())
			Ω(agent.Qualifies()).Should(BeFalse())
			Ω(agent.Pending()).Should(BeFalse())
		})
	})
})
