package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/janus/pkg/auth"
	"mercator-hq/janus/pkg/llm"
	"mercator-hq/janus/pkg/quota"
)

func chatRequest(t *testing.T, body ChatRequest, authenticated bool) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(payload))
	if authenticated {
		ctx := auth.ContextWithIdentity(req.Context(), &auth.Identity{SubjectID: "user-1", Tier: quota.TierFree})
		req = req.WithContext(ctx)
	}
	return req
}

func TestCompletions(t *testing.T) {
	h := NewChatHandler(&llm.MockCompleter{})

	t.Run("requires identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Completions(w, chatRequest(t, ChatRequest{Messages: []llm.Message{{Role: "user", Content: "hi"}}}, false))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("requires messages", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Completions(w, chatRequest(t, ChatRequest{Model: "mock-gpt-4"}, true))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("returns completion with usage", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Completions(w, chatRequest(t, ChatRequest{
			Messages: []llm.Message{{Role: "user", Content: "tell me a joke please"}},
		}, true))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var resp ChatResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(resp.ID, "chatcmpl-") {
			t.Errorf("id = %q, want chatcmpl- prefix", resp.ID)
		}
		if resp.Object != "chat.completion" {
			t.Errorf("object = %q", resp.Object)
		}
		if resp.Model != DefaultModel {
			t.Errorf("model = %q, want default %q", resp.Model, DefaultModel)
		}
		if len(resp.Choices) != 1 {
			t.Fatalf("choices = %d, want 1", len(resp.Choices))
		}
		choice := resp.Choices[0]
		if choice.FinishReason != "stop" || choice.Message.Role != "assistant" {
			t.Errorf("choice = %+v", choice)
		}
		if !strings.Contains(choice.Message.Content, "dark mode") {
			t.Errorf("content = %q, want joke response", choice.Message.Content)
		}
		if resp.Usage.PromptTokens != 5 {
			t.Errorf("prompt_tokens = %d, want 5 words", resp.Usage.PromptTokens)
		}
		if resp.Usage.TotalTokens != resp.Usage.PromptTokens+resp.Usage.CompletionTokens {
			t.Errorf("usage does not add up: %+v", resp.Usage)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader("{broken"))
		ctx := auth.ContextWithIdentity(req.Context(), &auth.Identity{SubjectID: "user-1", Tier: quota.TierFree})
		w := httptest.NewRecorder()
		h.Completions(w, req.WithContext(ctx))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestCompletionsStreaming(t *testing.T) {
	h := NewChatHandler(&llm.MockCompleter{}) // zero token delay

	w := httptest.NewRecorder()
	h.Completions(w, chatRequest(t, ChatRequest{
		Model:    "mock-gpt-4",
		Messages: []llm.Message{{Role: "user", Content: "tell me a joke"}},
		Stream:   true,
	}, true))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n\n")
	if len(lines) < 4 {
		t.Fatalf("expected role chunk, content chunks, finish chunk and [DONE]; got %d events", len(lines))
	}

	if lines[len(lines)-1] != "data: [DONE]" {
		t.Errorf("last event = %q, want data: [DONE]", lines[len(lines)-1])
	}

	decode := func(line string) StreamChunk {
		t.Helper()
		var chunk StreamChunk
		payload := strings.TrimPrefix(line, "data: ")
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		return chunk
	}

	first := decode(lines[0])
	if first.Choices[0].Delta.Role != "assistant" {
		t.Errorf("first chunk delta role = %q, want assistant", first.Choices[0].Delta.Role)
	}
	if first.Object != "chat.completion.chunk" {
		t.Errorf("object = %q", first.Object)
	}

	var content strings.Builder
	for _, line := range lines[1 : len(lines)-2] {
		content.WriteString(decode(line).Choices[0].Delta.Content)
	}
	if !strings.Contains(content.String(), "dark mode") {
		t.Errorf("reassembled content = %q, want joke text", content.String())
	}

	finish := decode(lines[len(lines)-2])
	if finish.Choices[0].FinishReason == nil || *finish.Choices[0].FinishReason != "stop" {
		t.Errorf("finish chunk = %+v, want finish_reason stop", finish.Choices[0])
	}

	// Every chunk shares one completion ID.
	id := first.ID
	for _, line := range lines[:len(lines)-1] {
		if decode(line).ID != id {
			t.Errorf("chunk ID mismatch in %q", line)
		}
	}
}

func TestHealthAndRoot(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHealthHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("health rejects POST", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHealthHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", w.Code)
		}
	})

	t.Run("root banner", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRootHandler("1.2.3").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var resp map[string]any
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp["service"] != "janus" || resp["version"] != "1.2.3" {
			t.Errorf("banner = %v", resp)
		}
	})

	t.Run("root 404s unknown path", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRootHandler("1.2.3").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
