package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepwise/prepwise/server/internal/api/respond"
	"github.com/prepwise/prepwise/server/internal/api/validate"
	"github.com/prepwise/prepwise/server/internal/discovery"
	"github.com/prepwise/prepwise/server/internal/model"
)

// DiscoveryRunner is the discovery pipeline surface the handler needs.
type DiscoveryRunner interface {
	Discover(ctx context.Context, meetingID, keywords string) (*model.DiscoveryResult, bool, error)
	ClearCache(ctx context.Context) error
}

// DiscoveryHandler serves GET /api/discovery and the admin cache clear.
type DiscoveryHandler struct {
	svc DiscoveryRunner
}

func NewDiscoveryHandler(svc DiscoveryRunner) *DiscoveryHandler {
	return &DiscoveryHandler{svc: svc}
}

// discoveryResponse wraps the pipeline result with request-level metadata.
type discoveryResponse struct {
	model.DiscoveryResult
	Cached           bool  `json:"cached"`
	CacheAge         int   `json:"cacheAge"`
	KeywordsApplied  bool  `json:"keywordsApplied"`
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// HandleDiscovery processes GET /api/discovery?meetingId=&keywords=
func (h *DiscoveryHandler) HandleDiscovery(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	meetingID := r.URL.Query().Get("meetingId")
	keywords := r.URL.Query().Get("keywords")
	if err := validate.MeetingID(meetingID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Keywords(keywords); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	res, cached, err := h.svc.Discover(r.Context(), meetingID, keywords)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "target meeting not found")
			return
		}
		log.Error().Stack().Err(err).Str("meetingId", meetingID).Msg("discovery failed")
		respond.WriteInternalError(w, "discovery failed")
		return
	}

	cacheAge := 0
	if cached {
		if age := int(time.Since(res.CachedAt).Seconds()); age > 0 {
			cacheAge = age
		}
	}

	elapsed := time.Since(started)
	log.Info().
		Str("meetingId", meetingID).
		Bool("cached", cached).
		Int("candidates", res.Stats.TotalCandidates).
		Dur("elapsed", elapsed).
		Msg("discovery request served")

	respond.WriteJSON(w, http.StatusOK, discoveryResponse{
		DiscoveryResult:  *res,
		Cached:           cached,
		CacheAge:         cacheAge,
		KeywordsApplied:  len(discovery.SplitKeywords(keywords)) > 0,
		ProcessingTimeMs: elapsed.Milliseconds(),
	})
}

// HandleClearCache processes DELETE /api/cache/discovery
func (h *DiscoveryHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCache(r.Context()); err != nil {
		log.Error().Stack().Err(err).Msg("discovery cache clear failed")
		respond.WriteInternalError(w, "cache clear failed")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}
