package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/prepwise/server/internal/model"
)

func TestSplitKeywords(t *testing.T) {
	assert.Nil(t, SplitKeywords(""))
	assert.Equal(t, []string{"budget"}, SplitKeywords("budget"))
	assert.Equal(t, []string{"budget", "roadmap"}, SplitKeywords(" Budget , ROADMAP "))
	assert.Equal(t, []string{"a"}, SplitKeywords("a,, ,"))
}

func TestBoostKeywordsMatch(t *testing.T) {
	cands := []model.ScoredCandidate{
		{
			DiscoveredItem: model.DiscoveredItem{ID: "e1", SourceKind: model.SourceEmail, Title: "Q3 Budget Review"},
			Score:          40,
			Reasoning:      "mentions quarterly planning",
		},
	}

	out := BoostKeywords(cands, "budget")
	require.Len(t, out, 1)
	assert.Equal(t, 70, out[0].Score)
	assert.True(t, out[0].AutoSelected)
	assert.True(t, strings.HasSuffix(out[0].Reasoning, "[+30 keyword match boost]"), "reasoning: %q", out[0].Reasoning)
}

func TestBoostKeywordsNoMatchUnchanged(t *testing.T) {
	cands := []model.ScoredCandidate{
		{DiscoveredItem: model.DiscoveredItem{ID: "e1", Title: "Standup notes"}, Score: 55, Reasoning: "r"},
	}
	out := BoostKeywords(cands, "budget")
	require.Len(t, out, 1)
	assert.Equal(t, cands[0], out[0])
}

func TestBoostKeywordsClampsAt100(t *testing.T) {
	cands := []model.ScoredCandidate{
		{DiscoveredItem: model.DiscoveredItem{ID: "f1", Title: "Budget model"}, Score: 85, AutoSelected: true},
	}
	out := BoostKeywords(cands, "budget")
	assert.Equal(t, 100, out[0].Score)
	assert.True(t, out[0].AutoSelected)
}

func TestBoostKeywordsEmptyListIsNoOp(t *testing.T) {
	cands := []model.ScoredCandidate{
		{DiscoveredItem: model.DiscoveredItem{ID: "e1", Title: "Budget"}, Score: 40},
	}
	out := BoostKeywords(cands, "")
	assert.Equal(t, cands, out)

	// Re-application with an empty keyword list stays a no-op.
	assert.Equal(t, out, BoostKeywords(out, ""))
}

func TestBoostKeywordsDeterministic(t *testing.T) {
	cands := []model.ScoredCandidate{
		{DiscoveredItem: model.DiscoveredItem{ID: "a", Title: "Budget review"}, Score: 10, Reasoning: "x"},
		{DiscoveredItem: model.DiscoveredItem{ID: "b", Title: "Roadmap sync"}, Score: 90, Reasoning: "y"},
	}
	first := BoostKeywords(cands, "budget, roadmap")
	second := BoostKeywords(cands, "budget, roadmap")
	assert.Equal(t, first, second)
}

func TestBoostKeywordsAppliesSingleBoostPerCandidate(t *testing.T) {
	// Two matching tokens must still yield exactly one +30.
	cands := []model.ScoredCandidate{
		{DiscoveredItem: model.DiscoveredItem{ID: "a", Title: "Q3 budget roadmap"}, Score: 20},
	}
	out := BoostKeywords(cands, "budget,roadmap")
	assert.Equal(t, 50, out[0].Score)
	assert.Equal(t, "[+30 keyword match boost]", out[0].Reasoning)
}
