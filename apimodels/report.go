package apimodels

import (
	"encoding/json"
	"time"
)

// Status tracks an analysis through its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Section keys that must be present and non-empty in every completed report.
const (
	SectionAvatar   = "avatar"
	SectionInsights = "insights_exclusivos"
)

// AnalysisReport is the structured document produced by a completed pipeline
// run. Each section is an arbitrary nested document generated by the AI
// provider; the pipeline validates presence and total size, not shape.
type AnalysisReport struct {
	Avatar              json.RawMessage `json:"avatar"`
	Posicionamento      json.RawMessage `json:"posicionamento,omitempty"`
	Concorrencia        json.RawMessage `json:"concorrencia,omitempty"`
	Marketing           json.RawMessage `json:"marketing,omitempty"`
	Metricas            json.RawMessage `json:"metricas,omitempty"`
	FunilVendas         json.RawMessage `json:"funil_vendas,omitempty"`
	InteligenciaMercado json.RawMessage `json:"inteligencia_mercado,omitempty"`
	PlanoAcao           json.RawMessage `json:"plano_acao,omitempty"`
	InsightsExclusivos  json.RawMessage `json:"insights_exclusivos"`
	AnaliseCompleta     json.RawMessage `json:"analise_completa,omitempty"`

	Metadata AnalysisMetadata `json:"metadata"`
}

// AnalysisMetadata records how the report was produced.
type AnalysisMetadata struct {
	// Time taken for the full pipeline run
	Duration string `json:"duration"`

	// Model used for generation
	Model string `json:"model"`

	// Tokens used across all LLM calls
	TokensUsed int64 `json:"tokensUsed"`

	// Serialized report length in characters
	ReportLength int `json:"reportLength"`

	// Search results that passed the search gate
	SearchResults int `json:"searchResults"`

	// Pages that passed the extraction gate
	PagesExtracted int `json:"pagesExtracted"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Analysis is the persisted record of one request and its outcome.
type Analysis struct {
	ID        string          `json:"id"`
	Request   AnalysisRequest `json:"request"`
	Status    Status          `json:"status"`
	Report    *AnalysisReport `json:"report,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
