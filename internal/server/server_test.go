package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raphaelgruber/docchat/internal/chatbot"
	"github.com/raphaelgruber/docchat/internal/models"
)

type stubPipeline struct {
	history []models.Message
	err     error
	calls   int

	lastSession  string
	lastQuestion string
}

func (s *stubPipeline) Answer(_ context.Context, sessionID, question string) ([]models.Message, error) {
	s.calls++
	s.lastSession = sessionID
	s.lastQuestion = question
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func doRequest(t *testing.T, pipeline *stubPipeline, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(pipeline, nil)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (body: %s)", err, rec.Body.String())
	}
	return body["error"]
}

func TestHandleAsk_Success(t *testing.T) {
	pipeline := &stubPipeline{history: []models.Message{
		{Role: models.RoleHuman, Content: "What is the capital of France?"},
		{Role: models.RoleAssistant, Content: "Paris."},
	}}

	rec := doRequest(t, pipeline, http.MethodPost, "/api/questions",
		`{"session_id": "s1", "question": "What is the capital of France?"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var got []models.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("response has %d messages, want 2", len(got))
	}
	if got[0].Role != models.RoleHuman || got[0].Content != "What is the capital of France?" {
		t.Errorf("messages[0] = %+v, want human question", got[0])
	}
	if got[1].Role != models.RoleAssistant || got[1].Content != "Paris." {
		t.Errorf("messages[1] = %+v, want assistant answer", got[1])
	}
	if pipeline.lastSession != "s1" {
		t.Errorf("session = %q, want %q", pipeline.lastSession, "s1")
	}
}

func TestHandleAsk_RouteAliases(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"questions subpath", "/api/questions/v2", `{"session_id": "s1", "question": "hi"}`},
		{"askme with sessionID", "/askme", `{"sessionID": "s1", "question": "hi"}`},
		{"askme accepts session_id too", "/askme", `{"session_id": "s1", "question": "hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &stubPipeline{history: []models.Message{}}
			rec := doRequest(t, pipeline, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusCreated {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
			}
			if pipeline.calls != 1 {
				t.Errorf("pipeline calls = %d, want 1", pipeline.calls)
			}
		})
	}
}

func TestHandleAsk_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing session", `{"question": "hi"}`},
		{"missing question", `{"session_id": "s1"}`},
		{"empty body object", `{}`},
		{"empty values", `{"session_id": "", "question": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &stubPipeline{}
			rec := doRequest(t, pipeline, http.MethodPost, "/api/questions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if got := decodeError(t, rec); got != "session_id and question are required" {
				t.Errorf("error = %q, want required-fields message", got)
			}
			if pipeline.calls != 0 {
				t.Error("pipeline was invoked despite missing fields")
			}
		})
	}
}

func TestHandleAsk_MalformedBody(t *testing.T) {
	pipeline := &stubPipeline{}
	rec := doRequest(t, pipeline, http.MethodPost, "/api/questions", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if pipeline.calls != 0 {
		t.Error("pipeline was invoked for a malformed body")
	}
}

func TestHandleAsk_EmptyQuestionFromPipeline(t *testing.T) {
	// Whitespace passes the presence check and is rejected by the pipeline.
	pipeline := &stubPipeline{err: chatbot.ErrEmptyQuestion}
	rec := doRequest(t, pipeline, http.MethodPost, "/api/questions",
		`{"session_id": "s1", "question": "   "}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleAsk_PipelineFailure(t *testing.T) {
	pipeline := &stubPipeline{err: errors.New("surrealdb: connection refused")}
	rec := doRequest(t, pipeline, http.MethodPost, "/api/questions",
		`{"session_id": "s1", "question": "hi"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	got := decodeError(t, rec)
	if got != "Internal server error" {
		t.Errorf("error = %q, want generic message", got)
	}
	if strings.Contains(got, "surrealdb") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestHandleAsk_MethodNotAllowed(t *testing.T) {
	pipeline := &stubPipeline{}
	rec := doRequest(t, pipeline, http.MethodGet, "/api/questions", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if pipeline.calls != 0 {
		t.Error("pipeline was invoked for a GET request")
	}
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, &stubPipeline{}, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
