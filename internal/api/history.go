package api

import (
	"net/http"
	"strings"

	"github.com/windforest/windforest/internal/session"
)

type historyResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []session.Message `json:"messages"`
}

func handleHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SESSION_ID_REQUIRED", "session_id query parameter is required")
		return
	}
	if deps.Sessions == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "SESSIONS_UNAVAILABLE", "session store is not configured")
		return
	}

	messages, err := deps.Sessions.History(r.Context(), sessionID)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "HISTORY_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{SessionID: sessionID, Messages: messages})
}
