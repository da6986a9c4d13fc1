package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/windforest/windforest/internal/session"
)

func TestHistoryReturnsMessagesInOrder(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()
	_ = store.Append(ctx, "s1", session.Message{Text: "question", FromUser: true})
	_ = store.Append(ctx, "s1", session.Message{Text: "answer", FromUser: false})

	handler := NewHandler(testConfig(t), Dependencies{Processor: &fakeProcessor{}, Sessions: store})

	req := httptest.NewRequest(http.MethodGet, "/v1/history?session_id=s1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != "s1" || len(resp.Messages) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Messages[0].Text != "question" || !resp.Messages[0].FromUser {
		t.Fatalf("first message = %+v", resp.Messages[0])
	}
}

func TestHistoryRequiresSessionID(t *testing.T) {
	handler := NewHandler(testConfig(t), Dependencies{Processor: &fakeProcessor{}, Sessions: session.NewMemoryStore()})

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryUnknownSessionIsEmptyList(t *testing.T) {
	handler := NewHandler(testConfig(t), Dependencies{Processor: &fakeProcessor{}, Sessions: session.NewMemoryStore()})

	req := httptest.NewRequest(http.MethodGet, "/v1/history?session_id=missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Messages) != 0 {
		t.Fatalf("messages = %+v", resp.Messages)
	}
}
