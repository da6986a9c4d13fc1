package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/windforest/windforest/internal/engine"
	"github.com/windforest/windforest/internal/observability"
	"github.com/windforest/windforest/internal/render"
	"github.com/windforest/windforest/internal/session"
)

const defaultSessionID = "default"

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Sources   string `json:"sources,omitempty"`
	SessionID string `json:"session_id"`
}

// handleChat runs one question through the pipeline and renders the
// envelope. Pipeline failures still answer 200; the error text is the
// assistant's reply.
func handleChat(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { observability.ObserveChatRequest(time.Since(start)) }()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "MESSAGE_REQUIRED", "message is required")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	envelope := deps.Processor.ProcessQuery(r.Context(), req.Message)
	responseText := renderEnvelope(envelope)

	if deps.Sessions != nil {
		ctx := r.Context()
		if err := deps.Sessions.Append(ctx, sessionID, session.Message{Text: req.Message, FromUser: true}); err != nil {
			logSessionError(deps.Logger, r, err)
		}
		if err := deps.Sessions.Append(ctx, sessionID, session.Message{Text: responseText, FromUser: false}); err != nil {
			logSessionError(deps.Logger, r, err)
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  responseText,
		Sources:   envelope.Query,
		SessionID: sessionID,
	})
}

func renderEnvelope(envelope engine.Envelope) string {
	if envelope.Failed() {
		return "I encountered an error: " + envelope.Error
	}
	return fmt.Sprintf("%s\n\n```sql\n%s\n```\n\n%s",
		envelope.Rationale,
		render.WrapSQL(envelope.Query, 60),
		render.ResultsTable(envelope.Columns, envelope.Results),
	)
}

func logSessionError(logger *slog.Logger, r *http.Request, err error) {
	if logger == nil {
		return
	}
	logger.ErrorContext(r.Context(), "failed to record chat message",
		slog.String("error", err.Error()),
		slog.String("trace_id", observability.TraceIDFromContext(r.Context())))
}
