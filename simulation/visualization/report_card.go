package visualization

import (
	"fmt"
	"io"
	"sort"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"github.com/GaryBoone/GoStats/stats"
	svg "github.com/ajstarks/svgo"
)

const border = 5
const clusterBoxSize = 400
const clusterSpacing = 2

const headerHeight = 100

const graphWidth = 300
const graphTextX = 50
const graphBinX = 55
const binHeight = 14
const binSpacing = 2
const maxBinLength = graphWidth - graphBinX

const ReportCardWidth = border*3 + clusterBoxSize + graphWidth
const ReportCardHeight = border*3 + clusterBoxSize

var premiumBoundaries = []float64{-1e9, 5, 10, 15, 20, 25, 30, 40, 1e9}
var premiumLabels = []string{"<5", "5-10", "10-15", "15-20", "20-25", "25-30", "30-40", ">40"}

var revenueBoundaries = []float64{-1, 0, 0.25, 0.5, 0.75, 0.9, 1}
var revenueLabels = []string{"unsold", "<25%", "25-50%", "50-75%", "75-90%", ">90%"}

var clusterFills = []string{"green", "teal", "goldenrod", "purple", "firebrick", "steelblue"}

// SVGReport lays report cards out on a width x height grid below a header.
type SVGReport struct {
	SVG      *svg.SVG
	revenues []float64
	rounds   []float64
	width    int
	height   int
}

func StartSVGReport(w io.Writer, width, height int) *SVGReport {
	s := svg.New(w)
	s.Start(width*ReportCardWidth, headerHeight+height*ReportCardHeight)
	return &SVGReport{
		SVG:    s,
		width:  width,
		height: height,
	}
}

// WriteReportCard renders a single report as a complete SVG document.
func WriteReportCard(w io.Writer, rules auctiontypes.AuctionRules, report *Report) {
	r := StartSVGReport(w, 1, 1)
	r.DrawHeader(report.Settlement.ResourceID, rules)
	r.DrawReportCard(0, 0, report)
	r.Done()
}

func (r *SVGReport) Done() {
	r.drawResults()
	r.SVG.End()
}

func (r *SVGReport) DrawHeader(resourceID string, rules auctiontypes.AuctionRules) {
	header := fmt.Sprintf("%s - %d clusters x %d agents - %d rounds - drop:%.2f submit:%.2f", resourceID, rules.ClusterCount, rules.AgentsPerCluster, rules.MaxRounds, rules.DropProbability, rules.SubmitProbability)
	r.SVG.Text(border, 40, header, `text-anchor:start;font-size:24px;font-family:Helvetica Neue`)
}

func (r *SVGReport) drawResults() {
	r.SVG.Text(border, 90, fmt.Sprintf("Revenue: %.2f | Rounds: %.0f", stats.StatsSum(r.revenues), stats.StatsSum(r.rounds)), `text-anchor:start;font-size:24px;font-family:Helvetica Neue`)
}

func (r *SVGReport) DrawReportCard(x, y int, report *Report) {
	r.SVG.Translate(x*ReportCardWidth, headerHeight+y*ReportCardHeight)

	r.drawClusters(report)
	y = r.drawPremiumHistogram(report)
	y = r.drawRevenueHistogram(report, y+binSpacing*4)
	r.drawText(report, y+binSpacing*4)

	r.revenues = append(r.revenues, report.Settlement.Totals.TotalRevenue)
	r.rounds = append(r.rounds, float64(report.CompletedRounds()))

	r.SVG.Gend()
}

func (r *SVGReport) drawClusters(report *Report) {
	clusters := report.Settlement.Clusters
	if len(clusters) == 0 {
		return
	}

	maxRevenue := 0.0
	for _, cluster := range clusters {
		if cluster.Revenue > maxRevenue {
			maxRevenue = cluster.Revenue
		}
	}

	barHeight := clusterBoxSize/len(clusters) - clusterSpacing
	if barHeight < 1 {
		barHeight = 1
	}

	y := border
	for i, cluster := range clusters {
		r.SVG.Rect(border, y, clusterBoxSize, barHeight, "fill:#f7f7f7")
		if maxRevenue > 0 && cluster.Revenue > 0 {
			width := int(cluster.Revenue / maxRevenue * clusterBoxSize)
			r.SVG.Rect(border, y, width, barHeight, clusterStyle(i))
		}
		y += barHeight + clusterSpacing
	}
}

func (r *SVGReport) drawPremiumHistogram(report *Report) int {
	premiums := report.Premiums()
	sort.Float64s(premiums)

	bins := binUp(premiumBoundaries, premiums)

	r.SVG.Translate(border*2+clusterBoxSize, border)
	yBottom := r.drawHistogram(bins, premiumLabels)
	r.SVG.Gend()

	return yBottom + border
}

func (r *SVGReport) drawRevenueHistogram(report *Report, y int) int {
	normalized := []float64{}
	for _, round := range report.Settlement.Rounds {
		normalized = append(normalized, round.NormalizedRevenue)
	}
	sort.Float64s(normalized)

	bins := binUp(revenueBoundaries, normalized)

	r.SVG.Translate(border*2+clusterBoxSize, y)
	yBottom := r.drawHistogram(bins, revenueLabels)
	r.SVG.Gend()

	return yBottom + y
}

func (r *SVGReport) drawText(report *Report, y int) {
	totals := report.Settlement.Totals
	bids := report.WinningBidStat()

	unsold := ""
	if n := report.UnsoldRounds(); n > 0 {
		unsold = fmt.Sprintf("UNSOLD %d", n)
	}

	lines := []string{
		fmt.Sprintf("%d rounds over %d clusters %s", report.CompletedRounds(), report.NClusters(), unsold),
		fmt.Sprintf("%.2fs (%.2f r/s)", report.Duration.Seconds(), report.RoundsPerSecond()),
		fmt.Sprintf("Revenue: %.2f | %d units", totals.TotalRevenue, totals.TotalUnitsSold),
	}
	statLines := []string{
		"Winning Bids",
		fmt.Sprintf("...%.2f ± %.2f", bids.Mean, bids.StdDev),
		fmt.Sprintf("...%.2f - %.2f", bids.Min, bids.Max),
	}

	r.SVG.Translate(border*2+clusterBoxSize, y)
	r.SVG.Gstyle("font-family:Helvetica Neue")
	r.SVG.Textlines(8, 8, lines, 16, 18, "#333", "start")
	r.SVG.Textlines(8, 70, statLines, 13, 16, "#333", "start")
	r.SVG.Gend()
	r.SVG.Gend()
}

func (r *SVGReport) drawHistogram(bins []float64, labels []string) int {
	y := 0
	for i, percentage := range bins {
		r.SVG.Rect(graphBinX, y, maxBinLength, binHeight, `fill:#eee`)
		r.SVG.Text(graphTextX, y+binHeight-4, labels[i], `text-anchor:end;font-size:10px;font-family:Helvetica Neue`)
		if percentage > 0 {
			r.SVG.Rect(graphBinX, y, int(percentage*float64(maxBinLength)), binHeight, `fill:#333`)
			r.SVG.Text(graphBinX+binSpacing, y+binHeight-4, fmt.Sprintf("%.1f%%", percentage*100.0), `text-anchor:start;font-size:10px;font-family:Helvetica Neue;fill:#fff`)
		}
		y += binHeight + binSpacing
	}

	return y
}

// binUp returns the fraction of sortedData falling in each (lower, upper]
// bin.
func binUp(binBoundaries []float64, sortedData []float64) []float64 {
	bins := make([]float64, len(binBoundaries)-1)
	if len(sortedData) == 0 {
		return bins
	}

	currentBin := 0
	for _, d := range sortedData {
		for currentBin < len(bins)-1 && binBoundaries[currentBin+1] < d {
			currentBin += 1
		}
		bins[currentBin] += 1
	}

	for i := range bins {
		bins[i] = (bins[i] / float64(len(sortedData)))
	}

	return bins
}

func clusterStyle(i int) string {
	return "fill:" + clusterFills[i%len(clusterFills)] + ";" + "stroke:none"
}
