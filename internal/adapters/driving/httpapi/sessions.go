package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

// DefaultSessionIdle is how long an untouched synthesis session is kept.
const DefaultSessionIdle = 30 * time.Minute

type sessionEntry struct {
	session    driving.GenerationSession
	lastActive time.Time
}

// sessionRegistry holds synthesis conversations keyed by id. Idle sessions
// are dropped lazily when looked up or when a new one is created.
type sessionRegistry struct {
	newSession func() driving.GenerationSession
	idle       time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func newSessionRegistry(
	newSession func() driving.GenerationSession, idle time.Duration, now func() time.Time,
) *sessionRegistry {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &sessionRegistry{
		newSession: newSession,
		idle:       idle,
		now:        now,
		sessions:   make(map[string]*sessionEntry),
	}
}

func (reg *sessionRegistry) create() string {
	id := uuid.NewString()
	now := reg.now()

	reg.mu.Lock()
	defer reg.mu.Unlock()
	for key, e := range reg.sessions {
		if now.Sub(e.lastActive) > reg.idle {
			delete(reg.sessions, key)
		}
	}
	reg.sessions[id] = &sessionEntry{session: reg.newSession(), lastActive: now}
	return id
}

func (reg *sessionRegistry) get(id string) (driving.GenerationSession, bool) {
	now := reg.now()

	reg.mu.Lock()
	defer reg.mu.Unlock()
	e, ok := reg.sessions[id]
	if !ok {
		return nil, false
	}
	if now.Sub(e.lastActive) > reg.idle {
		delete(reg.sessions, id)
		return nil, false
	}
	e.lastActive = now
	return e.session, true
}

func (reg *sessionRegistry) remove(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.sessions[id]
	delete(reg.sessions, id)
	return ok
}

func (reg *sessionRegistry) count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.sessions)
}

type sessionView struct {
	ID         string           `json:"id"`
	Draft      *domain.Template `json:"draft"`
	Transcript string           `json:"transcript"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type sessionAcceptRequest struct {
	Owner string `json:"owner"`
}

// CreateSession starts a synthesis conversation.
func (h *Handler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	if h.sessions == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{ID: h.sessions.create()})
}

// GetSession returns the draft and transcript of a conversation.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, session))
}

// DeleteSession ends a conversation.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	if !h.sessions.remove(chi.URLParam(r, "sessionID")) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage generates or modifies the draft from a chat message.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req messageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := session.Send(r.Context(), req.Message); err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, session))
}

// RemoveSessionSection drops a section from the draft.
func (h *Handler) RemoveSessionSection(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	if !session.RemoveSection(chi.URLParam(r, "sectionID")) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "section not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, session))
}

// RemoveSessionField drops a field from the draft.
func (h *Handler) RemoveSessionField(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	if !session.RemoveField(chi.URLParam(r, "sectionID"), chi.URLParam(r, "fieldID")) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "field not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, session))
}

// AcceptSession stores the draft as a new form and clears the conversation.
func (h *Handler) AcceptSession(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	var req sessionAcceptRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	owner := req.Owner
	if owner == "" {
		owner = h.owner
	}
	form, err := session.Accept(owner)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	h.create(w, r, form)
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (string, driving.GenerationSession, bool) {
	if h.sessions == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return "", nil, false
	}
	id := chi.URLParam(r, "sessionID")
	session, ok := h.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return "", nil, false
	}
	return id, session, true
}

func viewOf(id string, session driving.GenerationSession) sessionView {
	return sessionView{
		ID:         id,
		Draft:      session.Current(),
		Transcript: session.Transcript(),
	}
}
