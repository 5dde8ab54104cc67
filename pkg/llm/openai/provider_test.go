package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-blueprint-be/pkg/llm"
)

const fakeResponse = `{
	"id": "resp_99",
	"status": "completed",
	"output": [
		{"type": "reasoning", "content": []},
		{"type": "message", "role": "assistant", "content": [
			{"type": "output_text", "text": "Hello "},
			{"type": "output_text", "text": "there."}
		]}
	]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIProvider(srv.URL, "test-key", "gpt-test")
}

func captureRequest(t *testing.T, got *openaiRequest, gotHeader *http.Header, gotPath *string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*gotPath = r.URL.Path
		*gotHeader = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fakeResponse))
	}
}

func TestChatFreshThreadSendsFullHistory(t *testing.T) {
	var got openaiRequest
	var gotHeader http.Header
	var gotPath string
	provider := newTestProvider(t, captureRequest(t, &got, &gotHeader, &gotPath))

	history := []llm.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "an idea"},
		{Role: "model", Content: "tell me more"},
		{Role: "user", Content: "for parents"},
	}
	reply, err := provider.Chat(context.Background(), history)
	if err != nil {
		t.Fatalf("Chat returned %v", err)
	}

	if gotPath != "/v1/responses" {
		t.Errorf("path = %q", gotPath)
	}
	if auth := gotHeader.Get("Authorization"); auth != "Bearer test-key" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Model != "gpt-test" {
		t.Errorf("model = %q", got.Model)
	}
	if got.PreviousResponseID != "" || got.Instructions != "" {
		t.Errorf("fresh thread sent continuation fields: prev=%q instructions=%q", got.PreviousResponseID, got.Instructions)
	}
	if len(got.Input) != 4 {
		t.Fatalf("input has %d messages, want 4", len(got.Input))
	}
	wantRoles := []string{"system", "user", "assistant", "user"}
	for i, want := range wantRoles {
		if got.Input[i].Role != want {
			t.Errorf("input[%d].Role = %q, want %q", i, got.Input[i].Role, want)
		}
	}

	if reply.Text != "Hello there." {
		t.Errorf("Text = %q", reply.Text)
	}
	if reply.ThreadID != "resp_99" {
		t.Errorf("ThreadID = %q, want response id", reply.ThreadID)
	}
}

func TestChatContinuesThread(t *testing.T) {
	var got openaiRequest
	var gotHeader http.Header
	var gotPath string
	provider := newTestProvider(t, captureRequest(t, &got, &gotHeader, &gotPath))

	history := []llm.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "next question"},
	}
	_, err := provider.Chat(context.Background(), history, llm.WithThread("resp_41"))
	if err != nil {
		t.Fatalf("Chat returned %v", err)
	}

	if got.PreviousResponseID != "resp_41" {
		t.Errorf("previous_response_id = %q", got.PreviousResponseID)
	}
	// System content rides the instructions field, input holds only
	// the new user message
	if got.Instructions != "You are helpful." {
		t.Errorf("instructions = %q", got.Instructions)
	}
	if len(got.Input) != 1 || got.Input[0].Role != "user" || got.Input[0].Content != "next question" {
		t.Errorf("input = %+v", got.Input)
	}
}

func TestChatSendsReasoningEffort(t *testing.T) {
	var got openaiRequest
	var gotHeader http.Header
	var gotPath string
	provider := newTestProvider(t, captureRequest(t, &got, &gotHeader, &gotPath))

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.WithEffort("low"))
	if err != nil {
		t.Fatalf("Chat returned %v", err)
	}

	if got.Reasoning == nil || got.Reasoning.Effort != "low" {
		t.Errorf("reasoning = %+v", got.Reasoning)
	}
}

func TestChatSurfacesAPIError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp_1","error":{"code":"rate_limit_exceeded","message":"slow down"}}`))
	})

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "slow down") {
		t.Errorf("Chat error = %v, want API error surfaced", err)
	}
}

func TestChatRejectsNon200(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Errorf("Chat error = %v, want status error", err)
	}
}
