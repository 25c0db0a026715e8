package pattern

// Leaderboard represents a ranked or ordered list of items by metric.
type Leaderboard struct {
	Key        string // stable machine name, e.g. "community_ranking"
	Label      string
	Unit       string // suffix for display, e.g. "%"
	Items      []LeaderboardItem
	TotalCount int // total before filtering to top N
	ShowRank   bool
}

// LeaderboardItem is a single entry.
type LeaderboardItem struct {
	Name  string // display name
	Value int
	Rank  int
}

// Truncated reports whether Items holds fewer entries than TotalCount.
func (l *Leaderboard) Truncated() bool { return l.TotalCount > len(l.Items) }

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
