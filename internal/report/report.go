// Package report builds the community summary report from aggregated
// water-point statistics.
package report

import (
	"sort"

	"github.com/dkoosis/wpstat/internal/waterpoint"
)

// WaterPointCount is one entry of the raw counts view.
type WaterPointCount struct {
	Name  string
	Count int
}

// RankedCommunity is one entry of the failure-rate ranking.
type RankedCommunity struct {
	Name       string
	Percentage int
}

// Report is the three-part community summary.
type Report struct {
	NumberFunctional  int
	NumberWaterPoints []WaterPointCount // aggregator order
	CommunityRanking  []RankedCommunity // broken percentage, descending
}

// Build computes the report. stats is read-only: the ranking is sorted on a
// copy so the counts view keeps first-seen order. Communities with equal
// percentages keep their first-seen order.
func Build(stats []waterpoint.Statistic) Report {
	r := Report{
		NumberWaterPoints: make([]WaterPointCount, 0, len(stats)),
		CommunityRanking:  make([]RankedCommunity, 0, len(stats)),
	}

	for _, s := range stats {
		r.NumberFunctional += s.Functional()
		r.NumberWaterPoints = append(r.NumberWaterPoints, WaterPointCount{Name: s.Name, Count: s.Total})
		r.CommunityRanking = append(r.CommunityRanking, RankedCommunity{Name: s.Name, Percentage: s.BrokenPercentage()})
	}

	sort.SliceStable(r.CommunityRanking, func(i, j int) bool {
		return r.CommunityRanking[i].Percentage > r.CommunityRanking[j].Percentage
	})
	return r
}

// TotalWaterPoints returns the sum of all community counts.
func (r Report) TotalWaterPoints() int {
	total := 0
	for _, c := range r.NumberWaterPoints {
		total += c.Count
	}
	return total
}

// Top returns the first n ranking entries, or all of them when n <= 0.
func (r Report) Top(n int) []RankedCommunity {
	if n <= 0 || n >= len(r.CommunityRanking) {
		return r.CommunityRanking
	}
	return r.CommunityRanking[:n]
}
