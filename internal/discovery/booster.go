package discovery

import (
	"strings"

	"github.com/prepwise/prepwise/server/internal/model"
)

// KeywordBoost is the fixed score bump for a keyword-title match.
const KeywordBoost = 30

const boostNote = "[+30 keyword match boost]"

// SplitKeywords normalizes a user-supplied keyword string: split on commas,
// trim, lowercase, drop empty tokens.
func SplitKeywords(keywords string) []string {
	if keywords == "" {
		return nil
	}
	parts := strings.Split(keywords, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tok := strings.ToLower(strings.TrimSpace(p))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// BoostKeywords applies the deterministic local score adjustment after
// oracle scoring. A candidate whose title contains any keyword token
// (case-insensitive substring) gains KeywordBoost, clamped to 100, and the
// boost note is appended to its reasoning. Candidates with no match are
// returned unchanged. Pure function: no I/O, same input gives same output.
func BoostKeywords(cands []model.ScoredCandidate, keywords string) []model.ScoredCandidate {
	tokens := SplitKeywords(keywords)
	if len(tokens) == 0 {
		return cands
	}

	out := make([]model.ScoredCandidate, len(cands))
	for i, c := range cands {
		title := strings.ToLower(c.Title)
		for _, tok := range tokens {
			if strings.Contains(title, tok) {
				c.Score = model.ClampScore(c.Score + KeywordBoost)
				if c.Reasoning != "" {
					c.Reasoning += " "
				}
				c.Reasoning += boostNote
				c.AutoSelected = c.Score >= model.AutoSelectThreshold
				break
			}
		}
		out[i] = c
	}
	return out
}
