package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdesk/classdesk-be/internal/config"
)

func newTestAIService(upstreamURL string) *AIService {
	return NewAIService(&config.Config{
		AIAPIKey:  "test-key",
		AIBaseURL: upstreamURL,
		AIModel:   "test-model",
		AITimeout: 5 * time.Second,
	})
}

func TestAIService_Ask(t *testing.T) {
	var gotReq chatRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "A goroutine is a lightweight thread."}},
			},
		})
	}))
	defer upstream.Close()

	svc := newTestAIService(upstream.URL)

	answer, err := svc.Ask(context.Background(), "What is a goroutine?")
	require.NoError(t, err)
	assert.Equal(t, "A goroutine is a lightweight thread.", answer)

	// The fixed tutor instruction is always prepended
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "tutor")
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "What is a goroutine?", gotReq.Messages[1].Content)
}

func TestAIService_AskEmptyQuestion(t *testing.T) {
	svc := newTestAIService("http://localhost:0")

	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAIService_AskUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "overloaded"},
		})
	}))
	defer upstream.Close()

	svc := newTestAIService(upstream.URL)

	_, err := svc.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAIService_AskUnreachableUpstream(t *testing.T) {
	svc := newTestAIService("http://127.0.0.1:1")

	_, err := svc.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUpstream)
}
