package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktud1/arq503/apimodels"
)

func TestMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	a, err := store.CreateAnalysis(ctx, apimodels.AnalysisRequest{Segmento: "telemedicina"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, apimodels.StatusPending, a.Status)

	require.NoError(t, store.SetProcessing(ctx, a.ID))
	got, err := store.GetAnalysis(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, apimodels.StatusProcessing, got.Status)

	report := &apimodels.AnalysisReport{
		Avatar:             json.RawMessage(`{"nome": "Ana"}`),
		InsightsExclusivos: json.RawMessage(`["insight"]`),
	}
	require.NoError(t, store.SaveReport(ctx, a.ID, report))

	got, err = store.GetAnalysis(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, apimodels.StatusCompleted, got.Status)
	require.NotNil(t, got.Report)
	assert.Empty(t, got.Error)
}

func TestMemoryMarkFailed(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	a, err := store.CreateAnalysis(ctx, apimodels.AnalysisRequest{Segmento: "telemedicina"})
	require.NoError(t, err)

	require.NoError(t, store.MarkFailed(ctx, a.ID, "insufficient search data: 4 found, 5 required"))

	got, err := store.GetAnalysis(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, apimodels.StatusFailed, got.Status)
	assert.Contains(t, got.Error, "4 found, 5 required")
}

func TestMemoryNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.GetAnalysis(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.SetProcessing(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, store.MarkFailed(ctx, "missing", "x"), ErrNotFound)
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	first, err := store.CreateAnalysis(ctx, apimodels.AnalysisRequest{Segmento: "a"})
	require.NoError(t, err)
	second, err := store.CreateAnalysis(ctx, apimodels.AnalysisRequest{Segmento: "b"})
	require.NoError(t, err)

	list, err := store.ListAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	list, err = store.ListAnalyses(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
