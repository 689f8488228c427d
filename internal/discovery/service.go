// Package discovery implements the signal discovery and ranking pipeline:
// concurrent source fan-out, deduplication, oracle relevance scoring,
// keyword boosting, candidate assembly and TTL-cached results.
package discovery

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepwise/prepwise/server/internal/model"
	"github.com/prepwise/prepwise/server/internal/store"
)

// DefaultTTLMinutes is the discovery-result cache lifetime.
const DefaultTTLMinutes = 30

// DefaultLookbackDays bounds the meeting/mail time window.
const DefaultLookbackDays = 30

// DefaultFetchLimit caps each document-source fetch.
const DefaultFetchLimit = 25

// Options tunes the pipeline; zero values fall back to the defaults above.
type Options struct {
	TTLMinutes   int
	LookbackDays int
	FetchLimit   int
}

// Service orchestrates one discovery run per request: cache lookup, fan-out,
// dedup, scoring, boosting, assembly, best-effort cache write.
type Service struct {
	source     Source
	classifier Classifier
	store      store.Store
	opts       Options
	now        func() time.Time
}

func NewService(source Source, classifier Classifier, st store.Store, opts Options) *Service {
	if opts.TTLMinutes <= 0 {
		opts.TTLMinutes = DefaultTTLMinutes
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultFetchLimit
	}
	return &Service{source: source, classifier: classifier, store: st, opts: opts, now: time.Now}
}

// CacheKey derives the cache key for a meeting/keyword pair. Different
// keyword queries for the same meeting are independent cache entries.
func CacheKey(meetingID, keywords string) string {
	tokens := SplitKeywords(keywords)
	if len(tokens) == 0 {
		return meetingID
	}
	return meetingID + "|" + strings.Join(tokens, ",")
}

// Discover runs the pipeline for one target meeting. The bool result
// reports whether the response was served from cache. Returns
// model.ErrNotFound (wrapped) when the target meeting does not exist.
func (s *Service) Discover(ctx context.Context, meetingID, keywords string) (*model.DiscoveryResult, bool, error) {
	key := CacheKey(meetingID, keywords)

	if entry, err := s.store.Discovery().Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discovery cache read failed")
	} else if entry != nil {
		var res model.DiscoveryResult
		if err := json.Unmarshal(entry.Payload, &res); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		} else {
			return &res, true, nil
		}
	}

	target, err := s.source.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, false, err
	}

	since := s.now().UTC().AddDate(0, 0, -s.opts.LookbackDays)
	fetched := fetchAll(ctx, s.source, target.Title, keywords, since, s.opts.FetchLimit)

	// Per-source counts are reported pre-dedup; totals post-dedup.
	preDedupCounts := make(map[string]int, len(fetched.filesBySource))
	for source, items := range fetched.filesBySource {
		preDedupCounts[source] = len(items)
	}

	byKind := map[model.SourceKind][]model.DiscoveredItem{
		model.SourceMeeting: filterComplete(ExcludeTarget(fetched.meetings, meetingID)),
		model.SourceEmail:   filterComplete(CollapseConversations(fetched.emails)),
		model.SourceTeam:    filterComplete(fetched.teams),
		model.SourceFile:    filterComplete(DedupeFiles(fetched.filesBySource)),
	}

	scored := scoreAll(ctx, s.classifier, target.Title, keywords, byKind)
	for kind := range scored {
		scored[kind] = BoostKeywords(scored[kind], keywords)
	}

	candidates, stats := assemble(ctx, s.source, scored, preDedupCounts)

	res := &model.DiscoveryResult{
		TargetMeeting: *target,
		Candidates:    candidates,
		Stats:         stats,
		CachedAt:      s.now().UTC(),
	}

	// Cache write is best-effort: the freshly computed result is returned
	// regardless.
	if payload, err := json.Marshal(res); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discovery result marshal failed, skipping cache write")
	} else if err := s.store.Discovery().Put(ctx, key, payload, s.opts.TTLMinutes); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discovery cache write failed")
	}

	return res, false, nil
}

// ClearCache removes all cached discovery results.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.store.Discovery().Clear(ctx)
}
