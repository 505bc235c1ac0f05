package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sagechat/sage/internal/chat"
	"github.com/sagechat/sage/internal/log"
)

// maxQuestionBytes bounds the chat request body.
const maxQuestionBytes = 64 * 1024

// ChatHandler serves one question/answer turn per request.
type ChatHandler struct {
	sessions *chat.Manager
	logger   log.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(sessions *chat.Manager, logger log.Logger) *ChatHandler {
	return &ChatHandler{sessions: sessions, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
}

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

// chatResponse is one completed turn. Sources is present only when
// retrieval grounded the answer.
type chatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// handleChat runs a full turn against the session's orchestrator.
// Provider failures still return 200: the orchestrator answers in the
// persona's degraded voice rather than failing the surface.
func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuestionBytes))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session_id", err.Error())
		return
	}

	orch, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	answer, err := orch.Submit(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_question", err.Error())
		case r.Context().Err() != nil:
			// Client went away; nothing useful to write.
			h.logger.Debug("chat request cancelled", "session_id", id)
		default:
			h.logger.Error("chat turn failed", "session_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "chat_failed", "failed to process question")
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:  answer.Answer,
		Sources: answer.Sources,
	})
}
