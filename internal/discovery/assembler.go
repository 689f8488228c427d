package discovery

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/prepwise/prepwise/server/internal/model"
)

// ChannelFetchThreshold is the team score at or above which the assembler
// performs the second-stage channel fetch.
const ChannelFetchThreshold = 50

// filterComplete drops items missing required identity/time fields so the
// scorer and assembler never deal with partial records. Meetings and emails
// need a timestamp; every kind needs an id and a title.
func filterComplete(items []model.DiscoveredItem) []model.DiscoveredItem {
	out := items[:0:0]
	for _, it := range items {
		if it.ID == "" || it.Title == "" {
			continue
		}
		if (it.SourceKind == model.SourceMeeting || it.SourceKind == model.SourceEmail) && it.Timestamp.IsZero() {
			continue
		}
		out = append(out, it)
	}
	return out
}

// assemble builds the four typed, score-descending candidate lists plus the
// run stats. For teams scoring at least ChannelFetchThreshold it fetches
// channels, pre-selecting them when the parent team auto-selected.
func assemble(ctx context.Context, src Source, scored map[model.SourceKind][]model.ScoredCandidate, preDedupFileCounts map[string]int) (model.CandidateSet, model.DiscoveryStats) {
	set := model.CandidateSet{
		Meetings: sortByScore(scored[model.SourceMeeting]),
		Emails:   sortByScore(scored[model.SourceEmail]),
		Files:    sortByScore(scored[model.SourceFile]),
	}

	teams := sortByScore(scored[model.SourceTeam])
	set.Teams = make([]model.TeamCandidate, 0, len(teams))
	for _, tc := range teams {
		team := model.TeamCandidate{ScoredCandidate: tc, Channels: []model.ChannelCandidate{}}
		if tc.Score >= ChannelFetchThreshold {
			channels, err := src.ListTeamChannels(ctx, tc.ID)
			if err != nil {
				log.Warn().Err(err).Str("teamId", tc.ID).Msg("channel fetch failed, continuing without channels")
			} else {
				for i := range channels {
					channels[i].Selected = tc.AutoSelected
				}
				team.Channels = channels
			}
		}
		set.Teams = append(set.Teams, team)
	}

	stats := model.DiscoveryStats{
		MeetingCount: len(set.Meetings),
		EmailCount:   len(set.Emails),
		TeamCount:    len(set.Teams),
		FileCount:    len(set.Files),
		FileSources:  preDedupFileCounts,
	}
	stats.TotalCandidates = stats.MeetingCount + stats.EmailCount + stats.TeamCount + stats.FileCount

	for _, c := range set.Meetings {
		if c.AutoSelected {
			stats.AutoSelectedCount++
		}
	}
	for _, c := range set.Emails {
		if c.AutoSelected {
			stats.AutoSelectedCount++
		}
	}
	for _, c := range set.Teams {
		if c.AutoSelected {
			stats.AutoSelectedCount++
		}
	}
	for _, c := range set.Files {
		if c.AutoSelected {
			stats.AutoSelectedCount++
		}
	}

	return set, stats
}

// sortByScore orders candidates score-descending, breaking ties by title
// so runs are deterministic.
func sortByScore(cands []model.ScoredCandidate) []model.ScoredCandidate {
	if cands == nil {
		return []model.ScoredCandidate{}
	}
	out := make([]model.ScoredCandidate, len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Title < out[j].Title
	})
	return out
}
