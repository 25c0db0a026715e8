// Package mapper converts pipeline outcomes into display patterns.
package mapper

import (
	"fmt"

	"github.com/dkoosis/wpstat/internal/pipeline"
	"github.com/dkoosis/wpstat/internal/report"
	"github.com/dkoosis/wpstat/pkg/pattern"
)

const (
	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"
)

// Options controls mapping.
type Options struct {
	Top int // ranking entries to keep; <= 0 keeps all
}

// FromOutcome converts a pipeline outcome into patterns. A failed outcome
// maps to a single Error pattern.
func FromOutcome(out pipeline.Outcome, opts Options) []pattern.Pattern {
	if !out.OK() {
		return []pattern.Pattern{
			&pattern.Error{Source: out.Kind.String(), Message: out.Message},
		}
	}
	return FromReport(out.Report, opts)
}

// FromReport converts a report into a summary, the counts view, the ranking
// and a sparkline of the ranking percentages.
func FromReport(r report.Report, opts Options) []pattern.Pattern {
	total := r.TotalWaterPoints()
	broken := total - r.NumberFunctional

	brokenKind := kindSuccess
	switch {
	case total > 0 && broken*2 >= total:
		brokenKind = kindError
	case broken > 0:
		brokenKind = kindWarning
	}

	summary := &pattern.Summary{
		Label: fmt.Sprintf("REPORT: %d communities, %d water points", len(r.NumberWaterPoints), total),
		Kind:  pattern.SummaryKindReport,
		Metrics: []pattern.SummaryItem{
			{Key: pattern.KeyNumberFunctional, Label: "Functional", Value: r.NumberFunctional, Kind: kindSuccess},
			{Key: pattern.KeyBroken, Label: "Broken", Value: broken, Kind: brokenKind},
			{Key: pattern.KeyTotal, Label: "Water points", Value: total, Kind: kindInfo},
			{Key: pattern.KeyCommunities, Label: "Communities", Value: len(r.NumberWaterPoints), Kind: kindInfo},
		},
	}

	counts := &pattern.Leaderboard{
		Key:        pattern.KeyNumberWaterPoints,
		Label:      "Water points by community",
		Items:      make([]pattern.LeaderboardItem, 0, len(r.NumberWaterPoints)),
		TotalCount: len(r.NumberWaterPoints),
	}
	for i, c := range r.NumberWaterPoints {
		counts.Items = append(counts.Items, pattern.LeaderboardItem{Name: c.Name, Value: c.Count, Rank: i + 1})
	}

	top := r.Top(opts.Top)
	ranking := &pattern.Leaderboard{
		Key:        pattern.KeyCommunityRanking,
		Label:      "Community ranking by broken water points",
		Unit:       "%",
		Items:      make([]pattern.LeaderboardItem, 0, len(top)),
		TotalCount: len(r.CommunityRanking),
		ShowRank:   true,
	}
	for i, c := range top {
		ranking.Items = append(ranking.Items, pattern.LeaderboardItem{Name: c.Name, Value: c.Percentage, Rank: i + 1})
	}

	spark := &pattern.Sparkline{
		Label: "Broken % by rank",
		Min:   0,
		Max:   100,
		Unit:  "%",
	}
	for _, c := range r.CommunityRanking {
		spark.Values = append(spark.Values, float64(c.Percentage))
	}

	return []pattern.Pattern{summary, counts, ranking, spark}
}
