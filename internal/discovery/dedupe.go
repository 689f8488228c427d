package discovery

import (
	"github.com/prepwise/prepwise/server/internal/model"
)

// filePrecedence is the deterministic cross-source trust order for document
// dedup. When the same resource surfaces from several discovery sources the
// occurrence from the earliest source in this list wins.
var filePrecedence = []string{"trending", "shared", "search", "used", "recent"}

// DedupeFiles unifies documents from the per-source lists by content
// identity. Output contains no two items with the same ContentKey.
func DedupeFiles(bySource map[string][]model.DiscoveredItem) []model.DiscoveredItem {
	seen := make(map[string]bool)
	var out []model.DiscoveredItem
	for _, source := range filePrecedence {
		for _, item := range bySource[source] {
			key := item.ContentKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}

// CollapseConversations reduces email threads to the single most recent
// message per conversation id. Messages without a conversation id pass
// through untouched. Output order follows first appearance of each thread.
func CollapseConversations(emails []model.DiscoveredItem) []model.DiscoveredItem {
	latest := make(map[string]model.DiscoveredItem)
	var order []string
	var out []model.DiscoveredItem

	for _, e := range emails {
		if e.ConversationID == "" {
			out = append(out, e)
			continue
		}
		cur, ok := latest[e.ConversationID]
		if !ok {
			latest[e.ConversationID] = e
			order = append(order, e.ConversationID)
			continue
		}
		if e.Timestamp.After(cur.Timestamp) {
			latest[e.ConversationID] = e
		}
	}

	for _, cid := range order {
		out = append(out, latest[cid])
	}
	return out
}

// ExcludeTarget drops the candidate identical to the target meeting itself.
func ExcludeTarget(items []model.DiscoveredItem, targetID string) []model.DiscoveredItem {
	out := items[:0:0]
	for _, it := range items {
		if it.ID == targetID {
			continue
		}
		out = append(out, it)
	}
	return out
}
