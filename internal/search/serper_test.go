package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerperSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mercado telemedicina Brasil", body["q"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic": [
				{"title": "Panorama da telemedicina", "link": "https://example.com/a", "snippet": "crescimento de 40%", "position": 1},
				{"title": "Mercado digital de saúde", "link": "https://example.com/b", "snippet": "dados do setor", "position": 2}
			]
		}`))
	}))
	defer ts.Close()

	s := NewSerper("test-key", 5*time.Second)
	s.endpoint = ts.URL

	results, err := s.Search(context.Background(), "mercado telemedicina Brasil", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Panorama da telemedicina", results[0].Title)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, 1, results[0].Position)
}

func TestSerperSearchCapsResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": [
			{"title": "a", "link": "https://example.com/a"},
			{"title": "b", "link": "https://example.com/b"},
			{"title": "c", "link": "https://example.com/c"}
		]}`))
	}))
	defer ts.Close()

	s := NewSerper("test-key", 5*time.Second)
	s.endpoint = ts.URL

	results, err := s.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	// positions are filled in when the provider omits them
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 2, results[1].Position)
}

func TestSerperSearchErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer ts.Close()

	s := NewSerper("test-key", 5*time.Second)
	s.endpoint = ts.URL

	_, err := s.Search(context.Background(), "q", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestGoogleCSESearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "test-cx", q.Get("cx"))
		assert.Equal(t, "mercado telemedicina", q.Get("q"))

		_, _ = w.Write([]byte(`{"items": [
			{"title": "Saúde digital", "link": "https://example.com/x", "snippet": "expansão do setor"}
		]}`))
	}))
	defer ts.Close()

	g := NewGoogleCSE("test-key", "test-cx", 5*time.Second)
	g.endpoint = ts.URL

	results, err := g.Search(context.Background(), "mercado telemedicina", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/x", results[0].URL)
	assert.Equal(t, 1, results[0].Position)
}
