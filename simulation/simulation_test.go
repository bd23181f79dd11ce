package simulation_test

import (
	"fmt"
	"sync"
	"time"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/simulation/visualization"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Auction", func() {
	runSession := func(params auctiontypes.SessionParams) (*visualization.Report, []auctiontypes.Event) {
		t := time.Now()

		state, err := registry.CreateSession(params)
		Ω(err).ShouldNot(HaveOccurred())

		subscription, err := registry.Subscribe(state.Guid)
		Ω(err).ShouldNot(HaveOccurred())
		defer subscription.Close()

		Ω(registry.StartVerification(state.Guid)).Should(Succeed())

		events := []auctiontypes.Event{}
		for event := range subscription.Events() {
			events = append(events, event)
		}

		settlement, err := registry.Report(state.Guid)
		Ω(err).ShouldNot(HaveOccurred())

		report := visualization.NewReport(settlement, time.Since(t))
		drawReportCard(report)
		return report, events
	}

	assertSettled := func(report *visualization.Report, params auctiontypes.SessionParams) {
		settlement := report.Settlement

		Ω(report.CompletedRounds()).Should(Equal(params.MaxRounds))
		Ω(settlement.Rounds).Should(HaveLen(params.MaxRounds))
		Ω(settlement.Clusters).Should(HaveLen(params.ClusterCount))
		Ω(settlement.Totals.TotalUnitsSold).Should(Equal(params.TotalUnits * params.MaxRounds))

		roundRevenue := 0.0
		for _, round := range settlement.Rounds {
			Ω(round.Winners).Should(HaveLen(params.ClusterCount))
			roundRevenue += round.Revenue
			for _, winner := range round.Winners {
				if winner.WinningBid != 0 {
					Ω(winner.WinningBid).Should(BeNumerically(">=", params.BasePrice+simulationRules.InitialBidBonus.Min))
				}
			}
		}
		Ω(settlement.Totals.TotalRevenue).Should(BeNumerically("~", roundRevenue, 1e-6))
	}

	Describe("a single session with the default shape", func() {
		It("settles every round and ends its event stream with completion", func() {
			params := auctiontypes.SessionParams{
				ResourceID:       "gpu-h100",
				BasePrice:        40,
				TotalUnits:       100,
				ClusterCount:     6,
				AgentsPerCluster: 7,
				MaxRounds:        5,
			}

			report, events := runSession(params)
			assertSettled(report, params)

			resolved := 0
			for _, event := range events {
				if event.EventType() == auctiontypes.RoundResolvedEventType {
					resolved++
				}
			}
			Ω(resolved).Should(Equal(5))
			Ω(events[len(events)-1].EventType()).Should(Equal(auctiontypes.SessionCompletedEventType))
		})
	})

	Describe("many concurrent sessions", func() {
		It("settles each independently", func() {
			shapes := []auctiontypes.SessionParams{
				{ClusterCount: 1, AgentsPerCluster: 3, MaxRounds: 3},
				{ClusterCount: 4, AgentsPerCluster: 5, MaxRounds: 2},
				{ClusterCount: 12, AgentsPerCluster: 7, MaxRounds: 4},
				{ClusterCount: 24, AgentsPerCluster: 10, MaxRounds: 1},
			}

			wg := &sync.WaitGroup{}
			lock := &sync.Mutex{}
			reports := map[int]*visualization.Report{}

			for i, shape := range shapes {
				i, params := i, shape
				params.ResourceID = fmt.Sprintf("resource-%d", i)
				params.BasePrice = float64(10 * (i + 1))
				params.TotalUnits = 50

				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					report, _ := runSession(params)

					lock.Lock()
					reports[i] = report
					lock.Unlock()
				}()
			}
			wg.Wait()

			for i, shape := range shapes {
				shape.TotalUnits = 50
				shape.BasePrice = float64(10 * (i + 1))
				assertSettled(reports[i], shape)
			}
		})
	})
})
