package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mktud1/arq503/apimodels"
)

// Memory is a mutex-guarded in-memory Store. Used when no database is
// configured, and by tests.
type Memory struct {
	mu       sync.RWMutex
	analyses map[string]*apimodels.Analysis
	order    []string
}

func NewMemory() *Memory {
	return &Memory{
		analyses: make(map[string]*apimodels.Analysis),
	}
}

func (m *Memory) CreateAnalysis(_ context.Context, req apimodels.AnalysisRequest) (*apimodels.Analysis, error) {
	now := time.Now().UTC()
	a := &apimodels.Analysis{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    apimodels.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = a
	m.order = append(m.order, a.ID)

	cp := *a
	return &cp, nil
}

func (m *Memory) SetProcessing(_ context.Context, id string) error {
	return m.update(id, func(a *apimodels.Analysis) {
		a.Status = apimodels.StatusProcessing
	})
}

func (m *Memory) SaveReport(_ context.Context, id string, report *apimodels.AnalysisReport) error {
	return m.update(id, func(a *apimodels.Analysis) {
		a.Status = apimodels.StatusCompleted
		a.Report = report
		a.Error = ""
	})
}

func (m *Memory) MarkFailed(_ context.Context, id string, reason string) error {
	return m.update(id, func(a *apimodels.Analysis) {
		a.Status = apimodels.StatusFailed
		a.Error = reason
	})
}

func (m *Memory) GetAnalysis(_ context.Context, id string) (*apimodels.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.analyses[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *Memory) ListAnalyses(_ context.Context, limit int) ([]*apimodels.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*apimodels.Analysis, 0, limit)
	// newest first
	for i := len(m.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		cp := *m.analyses[m.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) update(id string, fn func(*apimodels.Analysis)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.analyses[id]
	if !ok {
		return ErrNotFound
	}
	fn(a)
	a.UpdatedAt = time.Now().UTC()
	return nil
}
