package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/wpstat/pkg/pattern"
)

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, one SCOPE line, one entry per line.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Error:
			sb.WriteString("ERROR " + v.Source + ": " + v.Message + "\n")
			return sb.String()
		case *pattern.Summary:
			l.renderSummary(&sb, v)
		case *pattern.Leaderboard:
			l.renderLeaderboard(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	parts := make([]string, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		parts = append(parts, fmt.Sprintf("%d %s", m.Value, strings.ToLower(m.Label)))
	}
	sb.WriteString("SCOPE: " + strings.Join(parts, ", ") + "\n")
}

func (l *LLM) renderLeaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	header := strings.ToUpper(lb.Key)
	if lb.Truncated() {
		header += fmt.Sprintf(" (top %d of %d)", len(lb.Items), lb.TotalCount)
	}
	sb.WriteString("\n## " + header + "\n")
	for _, item := range lb.Items {
		if lb.ShowRank {
			fmt.Fprintf(sb, "  %d. %s %d%s\n", item.Rank, item.Name, item.Value, lb.Unit)
			continue
		}
		fmt.Fprintf(sb, "  %s %d%s\n", item.Name, item.Value, lb.Unit)
	}
}
