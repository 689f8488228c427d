package model

import "time"

// SourceKind identifies which workplace signal a discovered item came from.
type SourceKind string

const (
	SourceMeeting SourceKind = "meeting"
	SourceEmail   SourceKind = "email"
	SourceTeam    SourceKind = "team"
	SourceFile    SourceKind = "file"
)

// AutoSelectThreshold is the score at or above which a candidate is
// included in the prep set by default.
const AutoSelectThreshold = 70

// DiscoveredItem is the normalized form of a raw provider record. Provider
// shapes never travel past the graph package; everything downstream works
// on this type.
type DiscoveredItem struct {
	ID         string     `json:"id"`
	SourceKind SourceKind `json:"sourceKind"`
	Title      string     `json:"title"`

	// ResourceID is the stable content identifier for documents surfaced
	// by multiple discovery sources (trending, shared, search, used,
	// recent). Empty for non-file kinds.
	ResourceID string `json:"resourceId,omitempty"`

	// FileSource records which discovery source produced a file item.
	FileSource string `json:"fileSource,omitempty"`

	// ConversationID groups email messages belonging to one thread.
	ConversationID string `json:"conversationId,omitempty"`

	// Timestamp is receivedDateTime for emails, start time for meetings,
	// last-modified for files. Zero when the provider omitted it.
	Timestamp time.Time `json:"timestamp,omitempty"`

	// Origin carries provider metadata (webUrl, organizer, preview, ...)
	// that the oracle and the prep brief may want but the pipeline never
	// branches on.
	Origin map[string]interface{} `json:"origin,omitempty"`
}

// ContentKey returns the identity used for cross-source deduplication.
// Files dedupe on their underlying resource id; everything else on its
// provider id.
func (d DiscoveredItem) ContentKey() string {
	if d.SourceKind == SourceFile && d.ResourceID != "" {
		return string(SourceFile) + ":" + d.ResourceID
	}
	return string(d.SourceKind) + ":" + d.ID
}

// ScoredCandidate is a discovered item annotated with oracle relevance.
// Invariant: AutoSelected == (Score >= AutoSelectThreshold) and Score is
// clamped to [0,100].
type ScoredCandidate struct {
	DiscoveredItem
	Score        int    `json:"score"`
	Reasoning    string `json:"reasoning"`
	AutoSelected bool   `json:"autoSelected"`
}

// ClampScore bounds a raw oracle or boosted score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ChannelCandidate is a channel of a relevant team, fetched in the
// assembler's second stage.
type ChannelCandidate struct {
	ID       string `json:"id"`
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// TeamCandidate extends a scored team with its channels.
type TeamCandidate struct {
	ScoredCandidate
	Channels []ChannelCandidate `json:"channels"`
}

// CandidateSet holds the four typed, score-descending candidate lists.
type CandidateSet struct {
	Meetings []ScoredCandidate `json:"meetings"`
	Emails   []ScoredCandidate `json:"emails"`
	Teams    []TeamCandidate   `json:"teams"`
	Files    []ScoredCandidate `json:"files"`
}

// DiscoveryStats summarizes a pipeline run. Per-file-source counts are
// pre-dedup; TotalCandidates is post-dedup.
type DiscoveryStats struct {
	MeetingCount      int            `json:"meetingCount"`
	EmailCount        int            `json:"emailCount"`
	TeamCount         int            `json:"teamCount"`
	FileCount         int            `json:"fileCount"`
	FileSources       map[string]int `json:"fileSources"`
	AutoSelectedCount int            `json:"autoSelectedCount"`
	TotalCandidates   int            `json:"totalCandidates"`
}

// DiscoveryResult is the assembled, cacheable output of one pipeline run.
// Immutable once written to the cache; re-computed wholesale on miss.
type DiscoveryResult struct {
	TargetMeeting DiscoveredItem `json:"targetMeeting"`
	Candidates    CandidateSet   `json:"candidates"`
	Stats         DiscoveryStats `json:"stats"`
	CachedAt      time.Time      `json:"cachedAt"`
}

// ClassifyItem is the per-item input handed to the relevance oracle.
type ClassifyItem struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Classification is one oracle verdict.
type Classification struct {
	ID        string `json:"id"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// ItemRef identifies one user-confirmed candidate for brief generation.
type ItemRef struct {
	ID         string     `json:"id"`
	SourceKind SourceKind `json:"sourceKind"`
}

// PreparationArtifact is the cached generated summary for one source item.
// Upserted by item id; latest write wins.
type PreparationArtifact struct {
	ItemID      string     `json:"itemId"`
	SourceKind  SourceKind `json:"sourceKind"`
	Summary     string     `json:"summary"`
	Model       string     `json:"model"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// PrepBrief is the composed preparation output for a target meeting.
type PrepBrief struct {
	MeetingID    string                `json:"meetingId"`
	MeetingTitle string                `json:"meetingTitle"`
	Items        []PreparationArtifact `json:"items"`
	Model        string                `json:"model"`
	GeneratedAt  time.Time             `json:"generatedAt"`
}
