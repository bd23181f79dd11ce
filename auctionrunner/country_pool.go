package auctionrunner

import (
	"fmt"

	"code.cloudfoundry.org/clusterauction/util"
)

var DefaultCountryNames = []string{
	"Brazil", "India", "Germany", "France", "Japan", "South Korea", "Canada",
	"Australia", "Mexico", "Indonesia", "Turkey", "Netherlands", "Spain",
	"Italy", "Poland", "Thailand", "Malaysia", "Vietnam", "Egypt", "Argentina",
	"Nigeria", "South Africa", "Pakistan", "Bangladesh", "Philippines",
	"Colombia", "Chile", "Peru", "Ukraine", "Romania", "Czech Republic",
	"Belgium", "Sweden", "Austria", "Switzerland", "Norway", "Denmark",
	"Finland", "Portugal", "Greece", "Hungary", "Israel", "Singapore",
}

// CountryPool is a deduplicated, ordered set of country names.
type CountryPool []string

func NewCountryPool(names []string) CountryPool {
	seen := map[string]bool{}
	pool := CountryPool{}
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		pool = append(pool, name)
	}
	return pool
}

// Sample draws n distinct names without replacement.
func (p CountryPool) Sample(r util.Randomizer, n int) ([]string, error) {
	if n > len(p) {
		return nil, fmt.Errorf("cannot sample %d countries from a pool of %d", n, len(p))
	}

	names := make([]string, 0, n)
	for _, i := range r.Perm(len(p))[:n] {
		names = append(names, p[i])
	}
	return names, nil
}
