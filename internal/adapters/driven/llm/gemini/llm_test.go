package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medalpine/medrag/internal/core/ports/driven"
)

func newService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return s
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestGenerate_ReturnsCandidateText(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "First-line therapy is "},
					{"text": "an ACE inhibitor."},
				}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	text, err := s.Generate(context.Background(), "What is first-line therapy?", driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "First-line therapy is an ACE inhibitor.", text)
	assert.Contains(t, gotPath, "models/"+DefaultModel)
	assert.Contains(t, gotBody, "generationConfig")
}

func TestGenerate_APIError(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "key invalid", "status": "PERMISSION_DENIED"},
		})
	})

	_, err := s.Generate(context.Background(), "x", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key invalid")
}

func TestGenerate_NoCandidates(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := s.Generate(context.Background(), "x", driven.GenerateOptions{})
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
	})

	require.NoError(t, s.Ping(context.Background()))
}
