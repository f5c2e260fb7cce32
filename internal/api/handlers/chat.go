package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/api/middleware"
	"github.com/dvloznov/finance-assistant/internal/chat"
)

// Answerer answers a question about the current dataset.
type Answerer interface {
	Answer(ctx context.Context, question string) (chat.Reply, error)
}

// ChatHandler handles chatbot questions.
type ChatHandler struct {
	answerer Answerer
	log      zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(answerer Answerer, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		answerer: answerer,
		log:      log,
	}
}

// Ask handles POST /chatbot/
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.answerer.Answer(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyQuestion) {
			middleware.WriteError(w, http.StatusBadRequest, "query is required")
			return
		}
		h.log.Error().Err(err).Msg("Failed to answer question")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, reply)
}
