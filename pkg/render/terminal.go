package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/wpstat/pkg/pattern"
)

const barWidth = 10

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme   Theme
	width   int
	printer *message.Printer
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width, printer: message.NewPrinter(language.English)}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.Sparkline:
		return t.renderSparkline(v)
	case *pattern.Error:
		return t.renderError(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + t.printer.Sprintf("%d", m.Value)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.Truncated() {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	metrics := make([]string, len(l.Items))
	for i, item := range l.Items {
		metrics[i] = t.printer.Sprintf("%d", item.Value) + l.Unit
		if w := runewidth.StringWidth(item.Name); w > maxName {
			maxName = w
		}
		if len(metrics[i]) > maxMetric {
			maxMetric = len(metrics[i])
		}
	}
	// Leave room for rank, metric and bar on narrow terminals
	if limit := t.width - maxMetric - barWidth - 12; maxName > limit {
		maxName = max(limit, 8)
	}

	for i, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		name := runewidth.Truncate(item.Name, maxName, "...")
		sb.WriteString(t.theme.Primary.Render(runewidth.FillRight(name, maxName)))
		sb.WriteString("  ")
		style := t.theme.Muted
		if l.Unit == "%" {
			style = t.percentStyle(item.Value)
		}
		sb.WriteString(style.Render(padLeft(metrics[i], maxMetric)))
		if l.Unit == "%" {
			sb.WriteString(" ")
			sb.WriteString(style.Render(t.bar(item.Value)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderSparkline(s *pattern.Sparkline) string {
	if len(s.Values) == 0 {
		return ""
	}
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Primary.Render(s.Label + ": "))
	}

	minVal, maxVal := s.Min, s.Max
	if minVal == 0 && maxVal == 0 {
		minVal, maxVal = s.Values[0], s.Values[0]
		for _, v := range s.Values {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	values := s.Values
	if limit := t.width - runewidth.StringWidth(s.Label) - 12; limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	var spark strings.Builder
	for _, v := range values {
		idx := int((v - minVal) / valueRange * 7)
		if idx < 0 {
			idx = 0
		}
		if idx > 7 {
			idx = 7
		}
		spark.WriteRune(blocks[idx])
	}
	sb.WriteString(t.theme.Warning.Render(spark.String()))

	first, last := values[0], values[len(values)-1]
	sb.WriteString(t.theme.Muted.Render(fmt.Sprintf(" %.0f%s → %.0f%s", first, s.Unit, last, s.Unit)))
	sb.WriteString("\n")
	return sb.String()
}

func (t *Terminal) renderError(e *pattern.Error) string {
	return t.theme.Error.Render(t.theme.Icons.Broken+" "+e.Message) + "\n"
}

// bar draws a fixed-width percentage bar.
func (t *Terminal) bar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	full := (pct*barWidth + 50) / 100
	return strings.Repeat(t.theme.Icons.BarFull, full) + strings.Repeat(t.theme.Icons.BarEmpty, barWidth-full)
}

func (t *Terminal) percentStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 50:
		return t.theme.Error
	case pct > 0:
		return t.theme.Warning
	default:
		return t.theme.Success
	}
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Functional, t.theme.Success
	case "error":
		return t.theme.Icons.Broken, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
