// Package pattern defines the semantic data types for wpstat's report output.
// Patterns are pure data; renderers decide presentation.
package pattern

// PatternType identifies the kind of visualization pattern.
type PatternType string

const (
	PatternTypeSummary     PatternType = "summary"
	PatternTypeLeaderboard PatternType = "leaderboard"
	PatternTypeSparkline   PatternType = "sparkline"
	PatternTypeError       PatternType = "error"
)

// Pattern is the interface all visualization patterns implement.
// Patterns hold data; renderers decide how to present it.
type Pattern interface {
	Type() PatternType
}

// Stable item keys shared by mappers and machine-readable renderers.
const (
	KeyNumberFunctional  = "number_functional"
	KeyNumberWaterPoints = "number_water_points"
	KeyCommunityRanking  = "community_ranking"
	KeyBroken            = "number_broken"
	KeyCommunities       = "number_communities"
	KeyTotal             = "number_total"
)
