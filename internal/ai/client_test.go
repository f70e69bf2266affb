package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gemini-2.0-flash", body.Model)
		assert.False(t, body.Stream)

		fmt.Fprint(w, `{"choices":[{"message":{"content":"xin chào"}}]}`)
	}))
	defer srv.Close()

	c := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "gemini-2.0-flash"}

	answer, err := c.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "chào"}})
	require.NoError(t, err)
	assert.Equal(t, "xin chào", answer)
}

func TestCompleteUpstreamStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: srv.URL, Model: "gemini-2.0-flash"}

	_, err := c.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "chào"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestEmbedBatchKeepsInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)

		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		resp := struct {
			Data []map[string][]float32 `json:"data"`
		}{}
		for i := range body.Input {
			resp.Data = append(resp.Data, map[string][]float32{
				"embedding": {float32(i), float32(i)},
			})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := NewOpenAICompatibleClient()
	cfg := EmbeddingConfig{BaseURL: srv.URL, Model: "text-embedding-004"}

	vectors, err := c.EmbedBatch(context.Background(), cfg, []string{"son môi", "phấn nền", "kẻ mắt"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{0, 0}, vectors[0])
	assert.Equal(t, []float32{2, 2}, vectors[2])
}

func TestEmbedBatchRejectsWhitespaceOnlyElement(t *testing.T) {
	c := NewOpenAICompatibleClient()
	cfg := EmbeddingConfig{BaseURL: "http://127.0.0.1:1", Model: "text-embedding-004"}

	_, err := c.EmbedBatch(context.Background(), cfg, []string{"son môi", "  \n\t ", "kẻ mắt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input 1 is empty")
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	c := NewOpenAICompatibleClient()
	cfg := EmbeddingConfig{BaseURL: "http://127.0.0.1:1", Model: "text-embedding-004"}

	_, err := c.Embed(context.Background(), cfg, "   ")
	require.Error(t, err)
}
