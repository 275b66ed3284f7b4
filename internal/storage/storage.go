package storage

import (
	"context"
	"errors"

	"github.com/mktud1/arq503/apimodels"
)

// ErrNotFound is returned when no analysis exists for the given id.
var ErrNotFound = errors.New("analysis not found")

// Store persists analysis requests and their outcomes. Implementations must
// be safe for concurrent use; each pipeline run touches only its own record.
type Store interface {
	// CreateAnalysis inserts a new record in pending status and returns it.
	CreateAnalysis(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.Analysis, error)

	// SetProcessing transitions the record from pending to processing.
	SetProcessing(ctx context.Context, id string) error

	// SaveReport stores the completed report and marks the record completed.
	SaveReport(ctx context.Context, id string, report *apimodels.AnalysisReport) error

	// MarkFailed records the terminal failure reason.
	MarkFailed(ctx context.Context, id string, reason string) error

	GetAnalysis(ctx context.Context, id string) (*apimodels.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]*apimodels.Analysis, error)

	Close() error
}
