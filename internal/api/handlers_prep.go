package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/prepwise/prepwise/server/internal/api/respond"
	"github.com/prepwise/prepwise/server/internal/api/validate"
	"github.com/prepwise/prepwise/server/internal/model"
)

// BriefGenerator is the preparation pipeline surface the handler needs.
type BriefGenerator interface {
	GenerateBrief(ctx context.Context, meetingID string, refs []model.ItemRef) (*model.PrepBrief, error)
	ClearArtifacts(ctx context.Context) error
}

// PrepHandler serves POST /api/prep and the artifact cache clear.
type PrepHandler struct {
	svc BriefGenerator
}

func NewPrepHandler(svc BriefGenerator) *PrepHandler {
	return &PrepHandler{svc: svc}
}

// HandleGenerateBrief processes POST /api/prep
func (h *PrepHandler) HandleGenerateBrief(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MeetingID string          `json:"meetingId"`
		Items     []model.ItemRef `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.MeetingID(req.MeetingID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if len(req.Items) == 0 {
		respond.WriteBadRequest(w, "items is required")
		return
	}
	for _, ref := range req.Items {
		if err := validate.NonEmpty("items[].id", ref.ID); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		if err := validate.SourceKind(string(ref.SourceKind)); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}

	brief, err := h.svc.GenerateBrief(r.Context(), req.MeetingID, req.Items)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "target meeting not found")
			return
		}
		if errors.Is(err, model.ErrValidation) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		log.Error().Stack().Err(err).Str("meetingId", req.MeetingID).Msg("brief generation failed")
		respond.WriteInternalError(w, "brief generation failed")
		return
	}
	respond.WriteJSON(w, http.StatusOK, brief)
}

// HandleClearArtifacts processes DELETE /api/cache/artifacts
func (h *PrepHandler) HandleClearArtifacts(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearArtifacts(r.Context()); err != nil {
		log.Error().Stack().Err(err).Msg("artifact cache clear failed")
		respond.WriteInternalError(w, "cache clear failed")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}
