package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/classdesk/classdesk-be/internal/services"
)

// AIHandler handles the AI tutor question endpoint.
type AIHandler struct {
	service services.AIServiceProvider
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(service services.AIServiceProvider) *AIHandler {
	return &AIHandler{service: service}
}

// Ask forwards the question to the completion provider and relays the
// answer. The route is session-protected; validation and upstream failures
// map to 400 and 500.
func (h *AIHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.service.Ask(r.Context(), payload.Question)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
