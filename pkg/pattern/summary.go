package pattern

// SummaryKind identifies what a summary describes, for renderer dispatch.
type SummaryKind string

const (
	SummaryKindReport SummaryKind = "report"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string
	Kind    SummaryKind // dispatch key for renderers
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Key   string // stable machine name, e.g. "number_functional"
	Label string // e.g., "Functional", "Broken"
	Value int
	Kind  string // "success", "error", "warning", "info"; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
