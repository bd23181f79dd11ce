package visualization

import (
	"fmt"
	"io"
	"strings"
)

const defaultStyle = "\x1b[0m"
const boldStyle = "\x1b[1m"
const redColor = "\x1b[91m"
const greenColor = "\x1b[32m"
const yellowColor = "\x1b[33m"
const cyanColor = "\x1b[36m"
const grayColor = "\x1b[90m"
const purpleColor = "\x1b[35m"

const maxBarLength = 50

var clusterColors = []string{greenColor, cyanColor, yellowColor, purpleColor, redColor}

func clusterID(id int) string {
	return fmt.Sprintf("CLUSTER-%d", id)
}

func PrintReport(w io.Writer, report *Report) {
	settlement := report.Settlement
	if report.CompletedRounds() == 0 {
		fmt.Fprintln(w, "Got no results!")
		return
	}

	fmt.Fprintf(w, "%sSettled %d rounds of %s among %d Clusters in %s%s\n", boldStyle, report.CompletedRounds(), settlement.ResourceID, report.NClusters(), report.Duration, defaultStyle)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Revenue by Cluster")
	maxClusterRevenue := 0.0
	for _, cluster := range settlement.Clusters {
		if cluster.Revenue > maxClusterRevenue {
			maxClusterRevenue = cluster.Revenue
		}
	}

	guidFormat := fmt.Sprintf("%%%ds", len(clusterID(report.NClusters())))
	for i, cluster := range settlement.Clusters {
		color := clusterColors[i%len(clusterColors)]
		filled := barLength(cluster.Revenue, maxClusterRevenue)
		bar := color + strings.Repeat("+", filled) + defaultStyle + grayColor + strings.Repeat(".", maxBarLength-filled) + defaultStyle

		fmt.Fprintf(w, "  %s: %s %10.2f (%d/%d won)\n", fmt.Sprintf(guidFormat, clusterID(cluster.ClusterID)), bar, cluster.Revenue, cluster.RoundsWon, cluster.RoundsContested)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Revenue by Round")
	for _, round := range settlement.Rounds {
		filled := int(round.NormalizedRevenue * maxBarLength)
		bar := cyanColor + strings.Repeat("+", filled) + defaultStyle + grayColor + strings.Repeat(".", maxBarLength-filled) + defaultStyle

		fmt.Fprintf(w, "  %s: %s %10.2f\n", fmt.Sprintf(guidFormat, fmt.Sprintf("ROUND-%d", round.Round)), bar, round.Revenue)
	}
	fmt.Fprintln(w)

	if unsold := report.UnsoldRounds(); unsold > 0 {
		fmt.Fprintf(w, "%s!!!!UNSOLD ROUNDS!!!!  %d of %d rounds had no qualifying bid%s\n", redColor, unsold, len(settlement.Rounds), defaultStyle)
	}

	bids := report.WinningBidStat()
	fmt.Fprintf(w, "%14s  Min: %10.2f | Max: %10.2f | Mean: %10.2f | StdDev: %10.2f\n", "Winning Bids:", bids.Min, bids.Max, bids.Mean, bids.StdDev)

	revenues := report.RoundRevenueStat()
	fmt.Fprintf(w, "%14s  Min: %10.2f | Max: %10.2f | Mean: %10.2f | Total: %10.2f\n", "Round Revenue:", revenues.Min, revenues.Max, revenues.Mean, revenues.Total)

	totals := settlement.Totals
	fmt.Fprintf(w, "%14s  Revenue: %.2f | Avg Winning Bid: %.2f | Units Sold: %d\n", "Totals:", totals.TotalRevenue, totals.AvgWinningBid, totals.TotalUnitsSold)
}

func barLength(value, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(value / max * maxBarLength)
}
