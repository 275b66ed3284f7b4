package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktud1/arq503/apimodels"
	"github.com/mktud1/arq503/internal/analyzer"
	"github.com/mktud1/arq503/internal/config"
	"github.com/mktud1/arq503/internal/extractor"
	"github.com/mktud1/arq503/internal/llm"
	"github.com/mktud1/arq503/internal/search"
	"github.com/mktud1/arq503/internal/storage"
)

type stubSearch struct {
	results []search.Result
}

func (s *stubSearch) Search(_ context.Context, _ string, _ int) ([]search.Result, error) {
	return s.results, nil
}

type stubExtractor struct{}

func (s *stubExtractor) Extract(_ context.Context, pageURL string) (*extractor.Page, error) {
	content := strings.Repeat("Conteúdo real extraído sobre o mercado analisado. ", 20)
	return &extractor.Page{URL: pageURL, Content: content, Length: len(content)}, nil
}

type stubLLM struct {
	response string
}

func (s *stubLLM) Generate(_ context.Context, _ []string, _ []string, _ ...llm.Option) (*llm.Response, error) {
	return &llm.Response{Content: s.response, Model: "test-model"}, nil
}

func stubResults(n int) []search.Result {
	out := make([]search.Result, n)
	for i := range out {
		out[i] = search.Result{
			Title:   fmt.Sprintf("Resultado %d", i+1),
			URL:     fmt.Sprintf("https://example.com/%d", i+1),
			Snippet: "dados do mercado",
		}
	}
	return out
}

func validResponse(t *testing.T) string {
	t.Helper()
	doc := map[string]any{
		"avatar":              map[string]any{"nome_ficticio": "Dra. Ana"},
		"insights_exclusivos": []string{"insight um", "insight dois"},
		"analise_completa":    strings.Repeat("Análise detalhada do segmento em questão. ", 400),
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	require.Greater(t, len(b), 15000)
	return string(b)
}

func newTestServer(t *testing.T, results []search.Result, llmResponse string) (*httptest.Server, storage.Store) {
	t.Helper()

	cfg := config.Config{
		Pipeline: config.PipelineConfig{
			MinSearchResults: 5,
			MinUsablePages:   3,
			MinReportLength:  15000,
		},
		Extractor: config.ExtractorConfig{MinPageLength: 200, MaxPages: 10},
		Search:    config.SearchConfig{MaxResults: 10},
	}

	store := storage.NewMemory()
	a := analyzer.New(store, &stubSearch{results: results}, &stubExtractor{}, &stubLLM{response: llmResponse}, &cfg)

	s := New(cfg, a, store)
	ts := httptest.NewServer(s.server.Handler)
	t.Cleanup(ts.Close)
	return ts, store
}

func postAnalyze(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleAnalyzeCompleted(t *testing.T) {
	ts, _ := newTestServer(t, stubResults(6), validResponse(t))

	resp := postAnalyze(t, ts, `{"segmento": "telemedicina", "produto": "consultas online"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analysis apimodels.Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	assert.Equal(t, apimodels.StatusCompleted, analysis.Status)
	require.NotNil(t, analysis.Report)
	assert.GreaterOrEqual(t, analysis.Report.Metadata.ReportLength, 15000)
}

func TestHandleAnalyzeInvalidInput(t *testing.T) {
	ts, store := newTestServer(t, stubResults(6), validResponse(t))

	resp := postAnalyze(t, ts, `{"segmento": ""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "segmento")

	list, err := store.ListAnalyses(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHandleAnalyzeMalformedBody(t *testing.T) {
	ts, _ := newTestServer(t, stubResults(6), validResponse(t))

	resp := postAnalyze(t, ts, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleAnalyzeGateFailure(t *testing.T) {
	ts, _ := newTestServer(t, stubResults(4), validResponse(t))

	resp := postAnalyze(t, ts, `{"segmento": "telemedicina"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "4 found, 5 required")
	assert.Equal(t, analyzer.StageSearchingWeb, body.Stage)
	assert.Equal(t, 4, body.Observed)
	assert.Equal(t, 5, body.Required)
	assert.NotEmpty(t, body.ID, "failed analyses are persisted and addressable")
}

func TestHandleGetAnalysis(t *testing.T) {
	ts, store := newTestServer(t, stubResults(6), validResponse(t))

	created, err := store.CreateAnalysis(context.Background(), apimodels.AnalysisRequest{Segmento: "telemedicina"})
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/api/v1/analyses/" + created.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analysis apimodels.Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	assert.Equal(t, created.ID, analysis.ID)
}

func TestHandleGetAnalysisNotFound(t *testing.T) {
	ts, _ := newTestServer(t, stubResults(6), validResponse(t))

	resp, err := http.Get(ts.URL + "/api/v1/analyses/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleListAnalyses(t *testing.T) {
	ts, store := newTestServer(t, stubResults(6), validResponse(t))

	for i := 0; i < 3; i++ {
		_, err := store.CreateAnalysis(context.Background(), apimodels.AnalysisRequest{Segmento: "telemedicina"})
		require.NoError(t, err)
	}

	resp, err := http.Get(ts.URL + "/api/v1/analyses?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []*apimodels.Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 2)
}

func TestHandleHealth(t *testing.T) {
	ts, _ := newTestServer(t, stubResults(6), validResponse(t))

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
