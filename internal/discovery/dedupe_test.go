package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/prepwise/server/internal/model"
)

func fileItem(id, resourceID, source string) model.DiscoveredItem {
	return model.DiscoveredItem{
		ID:         id,
		SourceKind: model.SourceFile,
		Title:      "doc-" + resourceID,
		ResourceID: resourceID,
		FileSource: source,
	}
}

func TestDedupeFilesPrecedence(t *testing.T) {
	bySource := map[string][]model.DiscoveredItem{
		"trending": {fileItem("t1", "res-a", "trending")},
		"shared":   {fileItem("s1", "res-a", "shared"), fileItem("s2", "res-b", "shared")},
		"used":     {fileItem("u1", "res-b", "used"), fileItem("u2", "res-c", "used")},
		"recent":   {fileItem("r1", "res-c", "recent")},
	}

	out := DedupeFiles(bySource)
	require.Len(t, out, 3)

	bySourceKept := make(map[string]string)
	for _, it := range out {
		bySourceKept[it.ResourceID] = it.FileSource
	}
	// trending beats shared, shared beats used, used beats recent
	assert.Equal(t, "trending", bySourceKept["res-a"])
	assert.Equal(t, "shared", bySourceKept["res-b"])
	assert.Equal(t, "used", bySourceKept["res-c"])
}

func TestDedupeFilesNoDuplicateContentKeys(t *testing.T) {
	bySource := map[string][]model.DiscoveredItem{
		"trending": {fileItem("a", "x", "trending"), fileItem("b", "y", "trending")},
		"search":   {fileItem("c", "x", "search"), fileItem("d", "y", "search"), fileItem("e", "z", "search")},
		"recent":   {fileItem("f", "z", "recent")},
	}
	out := DedupeFiles(bySource)
	seen := make(map[string]bool)
	for _, it := range out {
		key := it.ContentKey()
		assert.False(t, seen[key], "duplicate content key %s", key)
		seen[key] = true
	}
	assert.Len(t, out, 3)
}

func TestCollapseConversationsKeepsLatest(t *testing.T) {
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	emails := make([]model.DiscoveredItem, 0, 5)
	for i := 0; i < 5; i++ {
		emails = append(emails, model.DiscoveredItem{
			ID:             string(rune('a' + i)),
			SourceKind:     model.SourceEmail,
			Title:          "RE: contract",
			ConversationID: "conv-1",
			Timestamp:      base.Add(time.Duration(i) * time.Hour),
		})
	}

	out := CollapseConversations(emails)
	require.Len(t, out, 1)
	assert.Equal(t, "e", out[0].ID)
	assert.Equal(t, base.Add(4*time.Hour), out[0].Timestamp)
}

func TestCollapseConversationsPassesThreadlessThrough(t *testing.T) {
	emails := []model.DiscoveredItem{
		{ID: "x", SourceKind: model.SourceEmail, Timestamp: time.Now()},
		{ID: "y", SourceKind: model.SourceEmail, ConversationID: "c1", Timestamp: time.Now()},
	}
	out := CollapseConversations(emails)
	assert.Len(t, out, 2)
}

func TestExcludeTarget(t *testing.T) {
	items := []model.DiscoveredItem{
		{ID: "m1", SourceKind: model.SourceMeeting},
		{ID: "target", SourceKind: model.SourceMeeting},
		{ID: "m2", SourceKind: model.SourceMeeting},
	}
	out := ExcludeTarget(items, "target")
	require.Len(t, out, 2)
	for _, it := range out {
		assert.NotEqual(t, "target", it.ID)
	}
}
