package httpapi

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

func TestListTemplates(t *testing.T) {
	h, _ := setupTestAPI(t)

	rec := do(t, h, http.MethodGet, "/v1/templates", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]domain.Template](t, rec)
	require.Len(t, list, 3)
	for _, tpl := range list {
		assert.True(t, tpl.IsTemplate)
		assert.NotEmpty(t, tpl.Sections)
	}
}

func TestGenerateTemplate(t *testing.T) {
	h, _ := setupTestAPI(t)

	rec := do(t, h, http.MethodPost, "/v1/templates/generate", generateRequest{Description: "Weekly restaurant check"})

	require.Equal(t, http.StatusOK, rec.Code)
	tpl := decode[domain.Template](t, rec)
	assert.Equal(t, "food-service", tpl.Industry)
	assert.Len(t, tpl.Sections, 3)
}

func TestGenerateTemplate_RejectsBadPrompts(t *testing.T) {
	h, _ := setupTestAPI(t)

	for _, description := range []string{"   ", strings.Repeat("x", 1001)} {
		rec := do(t, h, http.MethodPost, "/v1/templates/generate", generateRequest{Description: description})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestModifyTemplate(t *testing.T) {
	h, _ := setupTestAPI(t)
	rec := do(t, h, http.MethodPost, "/v1/templates/generate", generateRequest{Description: "restaurant"})
	tpl := decode[domain.Template](t, rec)

	rec = do(t, h, http.MethodPost, "/v1/templates/modify", modifyRequest{Template: &tpl, Instruction: "add safety checks"})

	require.Equal(t, http.StatusOK, rec.Code)
	modified := decode[domain.Template](t, rec)
	assert.Len(t, modified.Sections, len(tpl.Sections)+1)
	assert.Equal(t, tpl.Version+1, modified.Version)
}

func TestModifyTemplate_MissingTemplate(t *testing.T) {
	h, _ := setupTestAPI(t)

	rec := do(t, h, http.MethodPost, "/v1/templates/modify", modifyRequest{Instruction: "add safety"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptTemplate_StoresForm(t *testing.T) {
	h, forms := setupTestAPI(t)
	rec := do(t, h, http.MethodPost, "/v1/templates/generate", generateRequest{Description: "apartment cleaning"})
	tpl := decode[domain.Template](t, rec)

	rec = do(t, h, http.MethodPost, "/v1/templates/accept", acceptRequest{Template: tpl})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	form := decode[domain.Form](t, rec)
	assert.NotEqual(t, tpl.ID, form.ID)
	assert.Equal(t, "inspector", form.CreatedBy)
	assert.False(t, form.IsTemplate)
	assert.Len(t, form.Sections, len(tpl.Sections))

	stored, err := forms.GetForm(t.Context(), form.ID)
	require.NoError(t, err)
	assert.Equal(t, form.Title, stored.Title)
}

func TestSessions_Conversation(t *testing.T) {
	h, forms := setupTestAPI(t)

	rec := do(t, h, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[sessionView](t, rec).ID
	require.NotEmpty(t, id)

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+id+"/messages", messageRequest{Message: "apartment cleaning"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[sessionView](t, rec)
	require.NotNil(t, view.Draft)
	assert.Equal(t, "User: apartment cleaning", view.Transcript)
	initial := len(view.Draft.Sections)

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+id+"/messages", messageRequest{Message: "add a dining section"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[sessionView](t, rec)
	require.Len(t, view.Draft.Sections, initial+1)

	last := view.Draft.Sections[len(view.Draft.Sections)-1]
	rec = do(t, h, http.MethodDelete, "/v1/sessions/"+id+"/sections/"+last.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[sessionView](t, rec).Draft.Sections, initial)

	rec = do(t, h, http.MethodDelete, "/v1/sessions/"+id+"/sections/"+last.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	first := view.Draft.Sections[0]
	rec = do(t, h, http.MethodDelete, "/v1/sessions/"+id+"/sections/"+first.ID+"/fields/"+first.Fields[0].ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[sessionView](t, rec).Draft.Sections[0].Fields, len(first.Fields)-1)

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+id+"/accept", acceptBody("alice"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	form := decode[domain.Form](t, rec)
	assert.Equal(t, "alice", form.CreatedBy)
	_, err := forms.GetForm(t.Context(), form.ID)
	require.NoError(t, err)

	rec = do(t, h, http.MethodGet, "/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[sessionView](t, rec)
	assert.Nil(t, view.Draft)
	assert.Empty(t, view.Transcript)
}

func acceptBody(owner string) *sessionAcceptRequest {
	return &sessionAcceptRequest{Owner: owner}
}

func TestSessions_AcceptWithoutDraft(t *testing.T) {
	h, _ := setupTestAPI(t)
	rec := do(t, h, http.MethodPost, "/v1/sessions", nil)
	id := decode[sessionView](t, rec).ID

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+id+"/accept", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessions_EmptyMessage(t *testing.T) {
	h, _ := setupTestAPI(t)
	rec := do(t, h, http.MethodPost, "/v1/sessions", nil)
	id := decode[sessionView](t, rec).ID

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+id+"/messages", messageRequest{Message: "  "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessions_DeleteAndUnknown(t *testing.T) {
	h, _ := setupTestAPI(t)
	rec := do(t, h, http.MethodPost, "/v1/sessions", nil)
	id := decode[sessionView](t, rec).ID

	rec = do(t, h, http.MethodDelete, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubSession struct{ driving.GenerationSession }

func TestSessionRegistry_ExpiresIdleSessions(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	reg := newSessionRegistry(func() driving.GenerationSession { return stubSession{} },
		time.Minute, func() time.Time { return now })

	kept := reg.create()
	dropped := reg.create()

	now = now.Add(50 * time.Second)
	_, ok := reg.get(kept)
	require.True(t, ok)

	now = now.Add(30 * time.Second)
	_, ok = reg.get(kept)
	assert.True(t, ok, "touched session stays alive")
	_, ok = reg.get(dropped)
	assert.False(t, ok, "idle session expires")

	now = now.Add(2 * time.Minute)
	reg.create()
	assert.Equal(t, 1, reg.count())
}

func TestSessionRegistry_DefaultIdle(t *testing.T) {
	reg := newSessionRegistry(func() driving.GenerationSession { return stubSession{} }, 0, time.Now)

	assert.Equal(t, DefaultSessionIdle, reg.idle)
}
