package auctionrunner_test

import (
	"code.cloudfoundry.org/clusterauction/auctionrunner"
	"code.cloudfoundry.org/clusterauction/util"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("CountryPool", func() {
	It("ships 43 distinct default names", func() {
		Ω(auctionrunner.NewCountryPool(auctionrunner.DefaultCountryNames)).Should(HaveLen(43))
	})

	It("drops duplicates and blanks, keeping first-seen order", func() {
		pool := auctionrunner.NewCountryPool([]string{"Peru", "", "Chile", "Peru", "Egypt"})
		Ω(pool).Should(Equal(auctionrunner.CountryPool{"Peru", "Chile", "Egypt"}))
	})

	Describe("Sample", func() {
		It("draws distinct names", func() {
			pool := auctionrunner.NewCountryPool(auctionrunner.DefaultCountryNames)
			names, err := pool.Sample(util.NewRandomizer(7), 7)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(names).Should(HaveLen(7))

			seen := map[string]bool{}
			for _, name := range names {
				Ω(seen).ShouldNot(HaveKey(name))
				Ω(auctionrunner.DefaultCountryNames).Should(ContainElement(name))
				seen[name] = true
			}
		})

		It("is reproducible for a given seed", func() {
			pool := auctionrunner.NewCountryPool(auctionrunner.DefaultCountryNames)
			first, _ := pool.Sample(util.NewRandomizer(99), 5)
			second, _ := pool.Sample(util.NewRandomizer(99), 5)
			Ω(first).Should(Equal(second))
		})

		It("can take the whole pool", func() {
			pool := BuildCountryPool(3)
			names, err := pool.Sample(util.NewRandomizer(1), 3)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(names).Should(ConsistOf("Brazil", "India", "Germany"))
		})

		It("errors when asked for more names than it holds", func() {
			_, err := BuildCountryPool(3).Sample(util.NewRandomizer(1), 4)
			Ω(err).Should(HaveOccurred())
		})
	})
})
