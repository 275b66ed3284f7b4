package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/mktud1/arq503/apimodels"
	"github.com/mktud1/arq503/internal/config"
)

// Postgres persists analyses in a single table with JSONB payloads.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(cfg config.DatabaseConfig) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Postgres{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		segmento TEXT NOT NULL,
		produto TEXT,
		request JSONB NOT NULL,
		status TEXT NOT NULL,
		report JSONB,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute query %s: %w", query, err)
	}
	return nil
}

func (s *Postgres) CreateAnalysis(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.Analysis, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	now := time.Now().UTC()
	a := &apimodels.Analysis{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    apimodels.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, segmento, produto, request, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, req.Segmento, req.Produto, reqJSON, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert analysis: %w", err)
	}

	return a, nil
}

func (s *Postgres) SetProcessing(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, apimodels.StatusProcessing)
}

func (s *Postgres) SaveReport(ctx context.Context, id string, report *apimodels.AnalysisReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE analyses
		SET status = $2, report = $3, error_message = '', updated_at = $4
		WHERE id = $1`,
		id, apimodels.StatusCompleted, reportJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return checkAffected(res)
}

func (s *Postgres) MarkFailed(ctx context.Context, id string, reason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE analyses
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1`,
		id, apimodels.StatusFailed, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark analysis failed: %w", err)
	}
	return checkAffected(res)
}

func (s *Postgres) GetAnalysis(ctx context.Context, id string) (*apimodels.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, request, status, report, error_message, created_at, updated_at
		FROM analyses WHERE id = $1`, id)

	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

func (s *Postgres) ListAnalyses(ctx context.Context, limit int) ([]*apimodels.Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request, status, report, error_message, created_at, updated_at
		FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []*apimodels.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) setStatus(ctx context.Context, id string, status apimodels.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE analyses SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*apimodels.Analysis, error) {
	var (
		a          apimodels.Analysis
		reqJSON    []byte
		reportJSON sql.NullString
		errMsg     sql.NullString
	)
	if err := row.Scan(&a.ID, &reqJSON, &a.Status, &reportJSON, &errMsg, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reqJSON, &a.Request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	if reportJSON.Valid && reportJSON.String != "" {
		var report apimodels.AnalysisReport
		if err := json.Unmarshal([]byte(reportJSON.String), &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		a.Report = &report
	}
	a.Error = errMsg.String
	return &a, nil
}
