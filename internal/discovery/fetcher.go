package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepwise/prepwise/server/internal/model"
)

// Source is the Workspace Graph collaborator boundary. Every method may
// fail with a transport error; the fetcher degrades each failure to an
// empty list.
type Source interface {
	GetMeeting(ctx context.Context, id string) (*model.DiscoveredItem, error)
	ListMeetings(ctx context.Context, since time.Time) ([]model.DiscoveredItem, error)
	ListMessages(ctx context.Context, since time.Time) ([]model.DiscoveredItem, error)
	ListJoinedTeams(ctx context.Context) ([]model.DiscoveredItem, error)
	ListTeamChannels(ctx context.Context, teamID string) ([]model.ChannelCandidate, error)
	ListRecentFiles(ctx context.Context, limit int) ([]model.DiscoveredItem, error)
	ListTrendingDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error)
	ListUsedDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error)
	ListSharedDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error)
	SearchContent(ctx context.Context, query string, limit int) ([]model.DiscoveredItem, error)
}

// fetchSet holds the raw, normalized output of one fan-out round.
// filesBySource keeps the per-source lists separate so the deduplicator can
// apply its precedence order and stats can report pre-dedup counts.
type fetchSet struct {
	meetings      []model.DiscoveredItem
	emails        []model.DiscoveredItem
	teams         []model.DiscoveredItem
	filesBySource map[string][]model.DiscoveredItem
}

// fetchAll issues all source calls concurrently. Each call is isolated: a
// failing source logs a warning and contributes an empty list; overall
// latency is bounded by the slowest source.
func fetchAll(ctx context.Context, src Source, targetTitle, keywords string, since time.Time, limit int) fetchSet {
	fs := fetchSet{filesBySource: make(map[string][]model.DiscoveredItem)}

	var wg sync.WaitGroup
	var mu sync.Mutex

	run := func(name string, fetch func(context.Context) ([]model.DiscoveredItem, error), sink func([]model.DiscoveredItem)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := fetch(ctx)
			if err != nil {
				log.Warn().Err(err).Str("source", name).Msg("source fetch failed, degrading to empty")
				return
			}
			mu.Lock()
			sink(items)
			mu.Unlock()
		}()
	}

	run("meetings", func(ctx context.Context) ([]model.DiscoveredItem, error) {
		return src.ListMeetings(ctx, since)
	}, func(v []model.DiscoveredItem) { fs.meetings = v })

	run("emails", func(ctx context.Context) ([]model.DiscoveredItem, error) {
		return src.ListMessages(ctx, since)
	}, func(v []model.DiscoveredItem) { fs.emails = v })

	run("teams", func(ctx context.Context) ([]model.DiscoveredItem, error) {
		return src.ListJoinedTeams(ctx)
	}, func(v []model.DiscoveredItem) { fs.teams = v })

	fileFetches := map[string]func(context.Context) ([]model.DiscoveredItem, error){
		"trending": func(ctx context.Context) ([]model.DiscoveredItem, error) { return src.ListTrendingDocuments(ctx, limit) },
		"used":     func(ctx context.Context) ([]model.DiscoveredItem, error) { return src.ListUsedDocuments(ctx, limit) },
		"shared":   func(ctx context.Context) ([]model.DiscoveredItem, error) { return src.ListSharedDocuments(ctx, limit) },
		"recent":   func(ctx context.Context) ([]model.DiscoveredItem, error) { return src.ListRecentFiles(ctx, limit) },
		"search": func(ctx context.Context) ([]model.DiscoveredItem, error) {
			return src.SearchContent(ctx, searchQuery(targetTitle, keywords), limit)
		},
	}
	// Seed every source key before the fan-out so a failed fetch still
	// reports a zero count instead of disappearing from the stats.
	for name := range fileFetches {
		fs.filesBySource[name] = nil
	}
	for name, fetch := range fileFetches {
		source := name
		run(source, fetch, func(v []model.DiscoveredItem) { fs.filesBySource[source] = v })
	}

	wg.Wait()
	return fs
}

// searchQuery seeds the free-text content search with the target meeting
// title plus the user's keyword tokens.
func searchQuery(targetTitle, keywords string) string {
	parts := append([]string{targetTitle}, SplitKeywords(keywords)...)
	return strings.Join(parts, " ")
}
