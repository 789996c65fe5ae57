package aiprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/donation-gateway/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.Gemini{
		APIKey:  "gm_test_xxx",
		Model:   "gemini-2.0-flash",
		APIURL:  url,
		Timeout: 5 * time.Second,
	})
}

func TestGenerateContent_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "gm_test_xxx", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "John 3:16")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "an insight"}}}},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	text, err := client.GenerateContent(context.Background(), "Insight for John 3:16")
	require.NoError(t, err)
	assert.Equal(t, "an insight", text)
}

func TestGenerateContent_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GenerateContent(context.Background(), "prompt")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestGenerateContent_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GenerateContent(context.Background(), "prompt")
	assert.ErrorContains(t, err, "empty response")
}

func TestGenerateContent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GenerateContent(context.Background(), "prompt")
	assert.Error(t, err)
}
