package discovery

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/prepwise/prepwise/server/internal/model"
)

// Classifier is the external relevance oracle. Expensive and rate-limited:
// it is invoked at most once per category per request, never with zero
// items.
type Classifier interface {
	Classify(ctx context.Context, targetTitle string, items []model.ClassifyItem, category model.SourceKind, keywords string) ([]model.Classification, error)
}

// scoreAll classifies the four deduplicated per-kind lists concurrently.
// A failed category call scores that whole category zero rather than
// aborting the request; items missing from the oracle response default to
// score 0 with empty reasoning.
func scoreAll(ctx context.Context, cls Classifier, targetTitle, keywords string, byKind map[model.SourceKind][]model.DiscoveredItem) map[model.SourceKind][]model.ScoredCandidate {
	out := make(map[model.SourceKind][]model.ScoredCandidate, len(byKind))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for kind, items := range byKind {
		wg.Add(1)
		go func(kind model.SourceKind, items []model.DiscoveredItem) {
			defer wg.Done()
			scored := scoreCategory(ctx, cls, targetTitle, keywords, kind, items)
			mu.Lock()
			out[kind] = scored
			mu.Unlock()
		}(kind, items)
	}
	wg.Wait()
	return out
}

func scoreCategory(ctx context.Context, cls Classifier, targetTitle, keywords string, kind model.SourceKind, items []model.DiscoveredItem) []model.ScoredCandidate {
	if len(items) == 0 {
		return []model.ScoredCandidate{}
	}

	batch := make([]model.ClassifyItem, 0, len(items))
	for _, it := range items {
		batch = append(batch, model.ClassifyItem{ID: it.ID, Title: it.Title, Metadata: it.Origin})
	}

	byID := make(map[string]model.Classification)
	results, err := cls.Classify(ctx, targetTitle, batch, kind, keywords)
	if err != nil {
		log.Warn().Err(err).Str("category", string(kind)).Int("items", len(items)).
			Msg("classification failed, scoring category zero")
	} else {
		for _, r := range results {
			byID[r.ID] = r
		}
	}

	scored := make([]model.ScoredCandidate, 0, len(items))
	for _, it := range items {
		r := byID[it.ID] // zero value gives score 0, empty reasoning
		score := model.ClampScore(r.Score)
		scored = append(scored, model.ScoredCandidate{
			DiscoveredItem: it,
			Score:          score,
			Reasoning:      r.Reasoning,
			AutoSelected:   score >= model.AutoSelectThreshold,
		})
	}
	return scored
}
