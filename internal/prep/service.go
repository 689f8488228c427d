// Package prep generates preparation briefs from user-confirmed candidates.
// Per-item summaries are cached as artifacts so repeated brief generation
// never re-summarizes the same item.
package prep

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepwise/prepwise/server/internal/model"
	"github.com/prepwise/prepwise/server/internal/store"
)

// ContentSource fetches full item content for summarization.
type ContentSource interface {
	GetMeeting(ctx context.Context, id string) (*model.DiscoveredItem, error)
	GetItemContent(ctx context.Context, kind model.SourceKind, id string) (string, error)
}

// Summarizer is the summarization side of the oracle. Returns the summary
// text and the model name that produced it.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, string, error)
}

// Service builds briefs from confirmed item refs.
type Service struct {
	source     ContentSource
	summarizer Summarizer
	store      store.Store
	now        func() time.Time
}

func NewService(source ContentSource, summarizer Summarizer, st store.Store) *Service {
	return &Service{source: source, summarizer: summarizer, store: st, now: time.Now}
}

// GenerateBrief fetches content and summaries for the confirmed items of a
// target meeting. Existing artifacts are reused; new summaries are upserted
// so later requests hit the artifact store. An item whose fetch or
// summarization fails is skipped with a warning rather than failing the
// brief.
func (s *Service) GenerateBrief(ctx context.Context, meetingID string, refs []model.ItemRef) (*model.PrepBrief, error) {
	target, err := s.source.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("items: %w", model.ErrValidation)
	}

	brief := &model.PrepBrief{
		MeetingID:    meetingID,
		MeetingTitle: target.Title,
		GeneratedAt:  s.now().UTC(),
	}

	for _, ref := range refs {
		artifact, err := s.artifactFor(ctx, ref)
		if err != nil {
			log.Warn().Err(err).Str("itemId", ref.ID).Str("kind", string(ref.SourceKind)).
				Msg("skipping item in brief")
			continue
		}
		brief.Items = append(brief.Items, *artifact)
		if brief.Model == "" {
			brief.Model = artifact.Model
		}
	}
	return brief, nil
}

// artifactFor returns the cached artifact for an item, summarizing and
// upserting on miss.
func (s *Service) artifactFor(ctx context.Context, ref model.ItemRef) (*model.PreparationArtifact, error) {
	cached, err := s.store.Artifacts().Get(ctx, ref.ID)
	if err != nil {
		log.Warn().Err(err).Str("itemId", ref.ID).Msg("artifact read failed, regenerating")
	}
	if cached != nil {
		return cached, nil
	}

	content, err := s.source.GetItemContent(ctx, ref.SourceKind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	summary, modelName, err := s.summarizer.Summarize(ctx, ref.ID, content)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	artifact := &model.PreparationArtifact{
		ItemID:      ref.ID,
		SourceKind:  ref.SourceKind,
		Summary:     summary,
		Model:       modelName,
		GeneratedAt: s.now().UTC(),
	}
	if err := s.store.Artifacts().Upsert(ctx, artifact); err != nil {
		// Best-effort: a failed artifact write only costs a future
		// re-summarization.
		log.Warn().Err(err).Str("itemId", ref.ID).Msg("artifact write failed")
	}
	return artifact, nil
}

// ClearArtifacts removes all cached summaries; callers needing fresh
// summaries invoke this explicitly.
func (s *Service) ClearArtifacts(ctx context.Context) error {
	return s.store.Artifacts().Clear(ctx)
}
