package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/janus/pkg/auth"
	"mercator-hq/janus/pkg/llm"
)

// DefaultModel is used when a request omits the model field.
const DefaultModel = "mock-gpt-4"

// ChatHandler serves POST /v1/chat/completions against a Completer.
type ChatHandler struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(completer llm.Completer) *ChatHandler {
	return &ChatHandler{
		completer: completer,
		logger:    slog.Default().With("component", "handlers.chat"),
	}
}

// Completions handles POST /v1/chat/completions. Requires authentication.
// With stream=true the response is Server-Sent Events; otherwise a single
// JSON completion.
func (h *ChatHandler) Completions(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required.")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "Request body must be valid JSON.")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request", "At least one message is required.")
		return
	}
	if req.Model == "" {
		req.Model = DefaultModel
	}

	id := "chatcmpl-" + uuid.NewString()
	h.logger.InfoContext(r.Context(), "completion requested",
		"completion_id", id,
		"user_id", identity.SubjectID,
		"model", req.Model,
		"stream", req.Stream,
		"messages", len(req.Messages),
	)

	if req.Stream {
		h.streamCompletion(w, r, id, req)
		return
	}

	content, err := h.completer.Complete(r.Context(), req.Messages, req.Model)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "completion failed", "error", err, "completion_id", id)
		writeError(w, http.StatusBadGateway, "completion failed", "The model backend did not produce a response.")
		return
	}

	promptWords := 0
	for _, m := range req.Messages {
		promptWords += len(strings.Fields(m.Content))
	}
	completionWords := len(strings.Fields(content))

	writeJSON(w, http.StatusOK, ChatResponse{
		ID:      id,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      llm.Message{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: Usage{
			PromptTokens:     promptWords,
			CompletionTokens: completionWords,
			TotalTokens:      promptWords + completionWords,
		},
	})
}

// streamCompletion writes the completion as SSE chunks: a role prelude,
// one content chunk per token, a finish chunk, then the [DONE] sentinel.
func (h *ChatHandler) streamCompletion(w http.ResponseWriter, r *http.Request, id string, req ChatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal server error", "Streaming is not supported by this connection.")
		return
	}

	tokens, err := h.completer.Stream(r.Context(), req.Messages, req.Model)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "stream start failed", "error", err, "completion_id", id)
		writeError(w, http.StatusBadGateway, "completion failed", "The model backend did not produce a response.")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	created := time.Now().Unix()

	writeChunk := func(chunk StreamChunk) {
		payload, err := json.Marshal(chunk)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	writeChunk(StreamChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   req.Model,
		Choices: []StreamChoice{{Index: 0, Delta: Delta{Role: "assistant"}}},
	})

	for token := range tokens {
		writeChunk(StreamChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   req.Model,
			Choices: []StreamChoice{{Index: 0, Delta: Delta{Content: token}}},
		})
	}

	stop := "stop"
	writeChunk(StreamChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   req.Model,
		Choices: []StreamChoice{{Index: 0, FinishReason: &stop}},
	})

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
