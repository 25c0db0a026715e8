package render

import (
	"encoding/json"

	"github.com/dkoosis/wpstat/pkg/pattern"
)

// JSON renders the report as the three-part document consumed by automation:
// number_functional, number_water_points and community_ranking.
// A failed run renders as {"error": "<message>"}.
type JSON struct {
	Indent string
}

// NewJSON creates a pretty-printing JSON renderer.
func NewJSON() *JSON {
	return &JSON{Indent: "  "}
}

type jsonReport struct {
	NumberFunctional  int         `json:"number_functional"`
	NumberWaterPoints []jsonCount `json:"number_water_points"`
	CommunityRanking  []jsonRank  `json:"community_ranking"`
}

type jsonCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type jsonRank struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

type jsonError struct {
	Error string `json:"error"`
}

// Render formats the patterns as JSON.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	var doc any = j.report(patterns)
	for _, p := range patterns {
		if e, ok := p.(*pattern.Error); ok {
			doc = jsonError{Error: e.Message}
			break
		}
	}

	data, err := json.MarshalIndent(doc, "", j.Indent)
	if err != nil {
		errJSON, _ := json.Marshal(jsonError{Error: err.Error()})
		return string(errJSON) + "\n"
	}
	return string(data) + "\n"
}

func (j *JSON) report(patterns []pattern.Pattern) jsonReport {
	out := jsonReport{
		NumberWaterPoints: []jsonCount{},
		CommunityRanking:  []jsonRank{},
	}
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			for _, m := range v.Metrics {
				if m.Key == pattern.KeyNumberFunctional {
					out.NumberFunctional = m.Value
				}
			}
		case *pattern.Leaderboard:
			switch v.Key {
			case pattern.KeyNumberWaterPoints:
				for _, item := range v.Items {
					out.NumberWaterPoints = append(out.NumberWaterPoints, jsonCount{Name: item.Name, Count: item.Value})
				}
			case pattern.KeyCommunityRanking:
				for _, item := range v.Items {
					out.CommunityRanking = append(out.CommunityRanking, jsonRank{Name: item.Name, Percentage: item.Value})
				}
			}
		}
	}
	return out
}
