package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/wpstat/internal/report"
	"github.com/dkoosis/wpstat/internal/waterpoint"
	"github.com/dkoosis/wpstat/pkg/mapper"
	"github.com/dkoosis/wpstat/pkg/pattern"
)

func samplePatterns(top int) []pattern.Pattern {
	r := report.Build([]waterpoint.Statistic{
		{Name: "village1", Total: 10, Broken: 0},
		{Name: "village2", Total: 7, Broken: 3},
		{Name: "village3", Total: 5, Broken: 5},
	})
	return mapper.FromReport(r, mapper.Options{Top: top})
}

func TestJSON_RenderReport(t *testing.T) {
	out := NewJSON().Render(samplePatterns(0))

	want := `{
  "number_functional": 14,
  "number_water_points": [
    {
      "name": "village1",
      "count": 10
    },
    {
      "name": "village2",
      "count": 7
    },
    {
      "name": "village3",
      "count": 5
    }
  ],
  "community_ranking": [
    {
      "name": "village3",
      "percentage": 100
    },
    {
      "name": "village2",
      "percentage": 42
    },
    {
      "name": "village1",
      "percentage": 0
    }
  ]
}
`
	assert.Equal(t, want, out)
}

func TestJSON_RenderEmptyReport(t *testing.T) {
	out := NewJSON().Render(mapper.FromReport(report.Build(nil), mapper.Options{}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 0.0, doc["number_functional"])
	assert.Equal(t, []any{}, doc["number_water_points"])
	assert.Equal(t, []any{}, doc["community_ranking"])
}

func TestJSON_RenderError(t *testing.T) {
	out := NewJSON().Render([]pattern.Pattern{
		&pattern.Error{Source: "download_failed", Message: "Unable To download Json"},
	})
	assert.JSONEq(t, `{"error":"Unable To download Json"}`, out)
}

func TestLLM_RenderReport(t *testing.T) {
	out := NewLLM().Render(samplePatterns(0))

	assert.Contains(t, out, "SCOPE: 14 functional, 8 broken, 22 water points, 3 communities\n")
	assert.Contains(t, out, "## NUMBER_WATER_POINTS\n  village1 10\n  village2 7\n  village3 5\n")
	assert.Contains(t, out, "## COMMUNITY_RANKING\n  1. village3 100%\n  2. village2 42%\n  3. village1 0%\n")
	assert.NotContains(t, out, "\033[")
}

func TestLLM_RenderTopN(t *testing.T) {
	out := NewLLM().Render(samplePatterns(2))
	assert.Contains(t, out, "## COMMUNITY_RANKING (top 2 of 3)")
	assert.NotContains(t, out, "3. village1")
}

func TestLLM_RenderError(t *testing.T) {
	out := NewLLM().Render([]pattern.Pattern{
		&pattern.Error{Source: "no_community_data", Message: "Json retrieved doesn't have community data"},
	})
	assert.Equal(t, "ERROR no_community_data: Json retrieved doesn't have community data\n", out)
}

func TestTerminal_RenderReport(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(samplePatterns(0))

	assert.Contains(t, out, "REPORT: 3 communities, 22 water points")
	assert.Contains(t, out, "+ Functional: 14")
	assert.Contains(t, out, "! Broken: 8")
	assert.Contains(t, out, "Water points by community")
	assert.Contains(t, out, " 1. village3  100% ##########")
	assert.Contains(t, out, " 2. village2   42% ####......")
	assert.Contains(t, out, " 3. village1    0% ..........")
	assert.Contains(t, out, "Broken % by rank: ")
}

func TestTerminal_ThousandsSeparator(t *testing.T) {
	r := report.Build([]waterpoint.Statistic{{Name: "big", Total: 12345, Broken: 0}})
	out := NewTerminal(MonoTheme(), 80).Render(mapper.FromReport(r, mapper.Options{}))
	assert.Contains(t, out, "Functional: 12,345")
	assert.Contains(t, out, "big  12,345")
}

func TestTerminal_TopHeader(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(samplePatterns(1))
	assert.Contains(t, out, "Community ranking by broken water points (top 1 of 3)")
}

func TestTerminal_WideNamesAlign(t *testing.T) {
	r := report.Build([]waterpoint.Statistic{
		{Name: "Jiniensa", Total: 1, Broken: 0},
		{Name: "水井村", Total: 2, Broken: 0},
	})
	out := NewTerminal(MonoTheme(), 80).Render(mapper.FromReport(r, mapper.Options{}))

	// Both names occupy 8 display columns before the metric
	assert.Contains(t, out, "  Jiniensa  1\n")
	assert.Contains(t, out, "  水井村    2\n")
}

func TestTerminal_SparklineCaptionMatchesDrawnValues(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(100 - i)
	}
	spark := &pattern.Sparkline{Label: "Broken % by rank", Values: values, Min: 0, Max: 100, Unit: "%"}

	// Width 40 leaves room for 40 - 16 - 12 = 12 bars
	out := NewTerminal(MonoTheme(), 40).Render([]pattern.Pattern{spark})

	assert.Contains(t, out, " 100% → 89%")
	assert.NotContains(t, out, "→ 71%")
}

func TestTerminal_RenderError(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{
		&pattern.Error{Source: "download_failed", Message: "Unable To download Json"},
	})
	assert.Equal(t, "x Unable To download Json\n", out)
}

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames {
		assert.Equal(t, name, ThemeByName(name).Name)
	}
	assert.Equal(t, "default", ThemeByName("nope").Name)
}
