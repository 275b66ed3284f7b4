package apimodels

// AnalysisRequest carries the market data submitted by the client. Field
// names follow the public API contract, which is in Portuguese.
type AnalysisRequest struct {
	// Segmento is the market segment to analyze. Required.
	Segmento string `json:"segmento"`

	// Produto is the product or service name. Optional.
	Produto string `json:"produto,omitempty"`

	// Descricao is a free-text description of the product.
	Descricao string `json:"descricao,omitempty"`

	// Preco is the planned price. Must be positive when set.
	Preco float64 `json:"preco,omitempty"`

	// Publico describes the target audience.
	Publico string `json:"publico,omitempty"`

	// Concorrentes lists known competitors.
	Concorrentes string `json:"concorrentes,omitempty"`

	// DadosAdicionais is any extra context the client wants considered.
	DadosAdicionais string `json:"dados_adicionais,omitempty"`

	// ObjetivoReceita is the revenue goal.
	ObjetivoReceita float64 `json:"objetivo_receita,omitempty"`

	// OrcamentoMarketing is the marketing budget.
	OrcamentoMarketing float64 `json:"orcamento_marketing,omitempty"`

	// PrazoLancamento is the launch timeline.
	PrazoLancamento string `json:"prazo_lancamento,omitempty"`
}
