package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prepwise/prepwise/server/internal/model"
	"github.com/prepwise/prepwise/server/internal/store"
)

// mockSource is a configurable Workspace Graph double.
type mockSource struct {
	target        *model.DiscoveredItem
	meetings      []model.DiscoveredItem
	emails        []model.DiscoveredItem
	teams         []model.DiscoveredItem
	filesBySource map[string][]model.DiscoveredItem
	channels      map[string][]model.ChannelCandidate

	fail        map[string]bool // source name -> force transport error
	channelErr  error
	searchQuery string
}

func (m *mockSource) GetMeeting(ctx context.Context, id string) (*model.DiscoveredItem, error) {
	if m.target == nil || m.target.ID != id {
		return nil, fmt.Errorf("meeting %s: %w", id, model.ErrNotFound)
	}
	t := *m.target
	return &t, nil
}

func (m *mockSource) list(name string, items []model.DiscoveredItem) ([]model.DiscoveredItem, error) {
	if m.fail[name] {
		return nil, fmt.Errorf("%s: transport error", name)
	}
	return items, nil
}

func (m *mockSource) ListMeetings(ctx context.Context, since time.Time) ([]model.DiscoveredItem, error) {
	return m.list("meetings", m.meetings)
}

func (m *mockSource) ListMessages(ctx context.Context, since time.Time) ([]model.DiscoveredItem, error) {
	return m.list("emails", m.emails)
}

func (m *mockSource) ListJoinedTeams(ctx context.Context) ([]model.DiscoveredItem, error) {
	return m.list("teams", m.teams)
}

func (m *mockSource) ListTeamChannels(ctx context.Context, teamID string) ([]model.ChannelCandidate, error) {
	if m.channelErr != nil {
		return nil, m.channelErr
	}
	return m.channels[teamID], nil
}

func (m *mockSource) ListRecentFiles(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return m.list("recent", m.filesBySource["recent"])
}

func (m *mockSource) ListTrendingDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return m.list("trending", m.filesBySource["trending"])
}

func (m *mockSource) ListUsedDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return m.list("used", m.filesBySource["used"])
}

func (m *mockSource) ListSharedDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return m.list("shared", m.filesBySource["shared"])
}

func (m *mockSource) SearchContent(ctx context.Context, query string, limit int) ([]model.DiscoveredItem, error) {
	m.searchQuery = query
	return m.list("search", m.filesBySource["search"])
}

// mockClassifier scores items from a fixed table; everything else defaults
// to zero via the scorer's fallback.
type mockClassifier struct {
	mu         sync.Mutex
	calls      int
	categories []model.SourceKind
	scores     map[string]model.Classification
	errFor     map[model.SourceKind]error
}

func (m *mockClassifier) Classify(ctx context.Context, targetTitle string, items []model.ClassifyItem, category model.SourceKind, keywords string) ([]model.Classification, error) {
	m.mu.Lock()
	m.calls++
	m.categories = append(m.categories, category)
	m.mu.Unlock()

	if len(items) == 0 {
		return nil, fmt.Errorf("classify called with zero items")
	}
	if err := m.errFor[category]; err != nil {
		return nil, err
	}
	var out []model.Classification
	for _, it := range items {
		if c, ok := m.scores[it.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClassifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// memStore is an in-memory store.Store with injectable failures.
type memStore struct {
	mu        sync.Mutex
	cache     map[string]store.CacheEntry
	artifacts map[string]model.PreparationArtifact
	putErr    error
	getErr    error
}

func newMemStore() *memStore {
	return &memStore{
		cache:     make(map[string]store.CacheEntry),
		artifacts: make(map[string]model.PreparationArtifact),
	}
}

func (s *memStore) Discovery() store.DiscoveryCache { return &memCache{s} }
func (s *memStore) Artifacts() store.Artifacts      { return &memArtifacts{s} }

type memCache struct{ s *memStore }

func (c *memCache) Get(ctx context.Context, key string) (*store.CacheEntry, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.getErr != nil {
		return nil, c.s.getErr
	}
	e, ok := c.s.cache[key]
	if !ok {
		return nil, nil
	}
	if time.Since(e.CreatedAt) > time.Duration(e.TTLMinutes)*time.Minute {
		return nil, nil
	}
	cp := e
	return &cp, nil
}

func (c *memCache) Put(ctx context.Context, key string, payload []byte, ttlMinutes int) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.putErr != nil {
		return c.s.putErr
	}
	c.s.cache[key] = store.CacheEntry{Key: key, Payload: payload, CreatedAt: time.Now().UTC(), TTLMinutes: ttlMinutes}
	return nil
}

func (c *memCache) Clear(ctx context.Context) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.cache = make(map[string]store.CacheEntry)
	return nil
}

type memArtifacts struct{ s *memStore }

func (a *memArtifacts) Get(ctx context.Context, itemID string) (*model.PreparationArtifact, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	art, ok := a.s.artifacts[itemID]
	if !ok {
		return nil, nil
	}
	cp := art
	return &cp, nil
}

func (a *memArtifacts) Upsert(ctx context.Context, art *model.PreparationArtifact) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.artifacts[art.ItemID] = *art
	return nil
}

func (a *memArtifacts) Clear(ctx context.Context) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.artifacts = make(map[string]model.PreparationArtifact)
	return nil
}
