package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sagechat/sage/internal/chat"
	"github.com/sagechat/sage/internal/log"
)

// SessionHandler manages conversation sessions over HTTP.
type SessionHandler struct {
	sessions *chat.Manager
	logger   log.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions *chat.Manager, logger log.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// RegisterRoutes registers session routes on the given mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.create)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.remove)
	mux.HandleFunc("GET /api/sessions/{id}/history", h.history)
}

// createSessionResponse is the body returned by POST /api/sessions.
type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	Greeting  string `json:"greeting"`
}

// create starts a new conversation. The greeting is display-only for the
// front end; it is not part of the conversation history.
func (h *SessionHandler) create(w http.ResponseWriter, _ *http.Request) {
	id, orch := h.sessions.Create()
	h.logger.Debug("session created", "session_id", id)

	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: id.String(),
		Greeting:  orch.Persona().Greeting,
	})
}

// remove ends a session. Removing an unknown session succeeds; the end
// state is the same.
func (h *SessionHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session_id", err.Error())
		return
	}
	h.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// turnResponse is one history entry.
type turnResponse struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// history returns the session transcript.
func (h *SessionHandler) history(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session_id", err.Error())
		return
	}

	orch, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	turns := orch.History()
	resp := make([]turnResponse, len(turns))
	for i, t := range turns {
		resp[i] = turnResponse{Role: string(t.Role), Text: t.Text}
	}
	writeJSON(w, http.StatusOK, map[string]any{"turns": resp})
}
