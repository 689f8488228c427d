package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/prepwise/server/internal/model"
)

type mockPrep struct {
	brief    *model.PrepBrief
	err      error
	clearErr error

	gotMeetingID string
	gotRefs      []model.ItemRef
}

func (m *mockPrep) GenerateBrief(ctx context.Context, meetingID string, refs []model.ItemRef) (*model.PrepBrief, error) {
	m.gotMeetingID = meetingID
	m.gotRefs = refs
	return m.brief, m.err
}

func (m *mockPrep) ClearArtifacts(ctx context.Context) error { return m.clearErr }

func doPrep(t *testing.T, svc *mockPrep, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewPrepHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/prep", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.HandleGenerateBrief(rr, req)
	return rr
}

func TestHandleGenerateBriefOK(t *testing.T) {
	svc := &mockPrep{brief: &model.PrepBrief{
		MeetingID:    "mt-1",
		MeetingTitle: "Q3 Planning",
		Items: []model.PreparationArtifact{
			{ItemID: "e1", SourceKind: model.SourceEmail, Summary: "budget notes", Model: "oracle-v1"},
		},
		Model:       "oracle-v1",
		GeneratedAt: time.Now().UTC(),
	}}

	rr := doPrep(t, svc, `{"meetingId":"mt-1","items":[{"id":"e1","sourceKind":"email"}]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "mt-1", svc.gotMeetingID)
	require.Len(t, svc.gotRefs, 1)
	assert.Equal(t, model.SourceEmail, svc.gotRefs[0].SourceKind)

	var body model.PrepBrief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "budget notes", body.Items[0].Summary)
}

func TestHandleGenerateBriefBadJSON(t *testing.T) {
	rr := doPrep(t, &mockPrep{}, `{"meetingId":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGenerateBriefMissingMeetingID(t *testing.T) {
	rr := doPrep(t, &mockPrep{}, `{"items":[{"id":"e1","sourceKind":"email"}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGenerateBriefEmptyItems(t *testing.T) {
	rr := doPrep(t, &mockPrep{}, `{"meetingId":"mt-1","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGenerateBriefInvalidSourceKind(t *testing.T) {
	rr := doPrep(t, &mockPrep{}, `{"meetingId":"mt-1","items":[{"id":"f1","sourceKind":"file"}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGenerateBriefMeetingNotFound(t *testing.T) {
	svc := &mockPrep{err: fmt.Errorf("meeting mt-9: %w", model.ErrNotFound)}
	rr := doPrep(t, svc, `{"meetingId":"mt-9","items":[{"id":"e1","sourceKind":"email"}]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleGenerateBriefInternalError(t *testing.T) {
	svc := &mockPrep{err: fmt.Errorf("store unavailable")}
	rr := doPrep(t, svc, `{"meetingId":"mt-1","items":[{"id":"e1","sourceKind":"email"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandleClearArtifacts(t *testing.T) {
	h := NewPrepHandler(&mockPrep{})
	req := httptest.NewRequest(http.MethodDelete, "/api/cache/artifacts", nil)
	rr := httptest.NewRecorder()
	h.HandleClearArtifacts(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	h = NewPrepHandler(&mockPrep{clearErr: fmt.Errorf("store down")})
	rr = httptest.NewRecorder()
	h.HandleClearArtifacts(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
