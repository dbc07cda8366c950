package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 0.3, req.Options["temperature"])
		assert.Equal(t, float64(300), req.Options["num_predict"])

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: chatMessage{Role: "assistant", Content: "pong"},
			Done:    true,
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3.2",
		WithOllamaTemperature(0.3), WithOllamaMaxTokens(300))
	got, err := c.Complete(context.Background(), "system", "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
}

func TestOllamaCompleteJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json", req.Format)

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: chatMessage{Role: "assistant", Content: `{"topics": ["roadmap"]}`},
			Done:    true,
		})
	}))
	defer srv.Close()

	var got struct {
		Topics []string `json:"topics"`
	}
	c := NewOllamaClient(srv.URL, "llama3.2")
	require.NoError(t, c.CompleteJSON(context.Background(), "classify", "text", &got))
	assert.Equal(t, []string{"roadmap"}, got.Topics)
}

func TestOllamaServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "missing")
	_, err := c.Complete(context.Background(), "", "ping")
	assert.ErrorContains(t, err, "404")
}
