package analyzer

import (
	"fmt"
	"strings"

	"github.com/mktud1/arq503/apimodels"
	"github.com/mktud1/arq503/internal/extractor"
	"github.com/mktud1/arq503/internal/search"
)

const maxSearchQueries = 8

// buildSearchQueries derives a set of market research queries from the
// request. Queries are in Portuguese because the service targets the
// Brazilian market.
func buildSearchQueries(req apimodels.AnalysisRequest) []string {
	segmento := strings.TrimSpace(req.Segmento)
	queries := []string{
		fmt.Sprintf("análise mercado %s Brasil dados estatísticas crescimento", segmento),
		fmt.Sprintf("mercado %s Brasil tendências", segmento),
		fmt.Sprintf("concorrentes %s principais players", segmento),
		fmt.Sprintf("público-alvo %s perfil demográfico", segmento),
		fmt.Sprintf("preços %s ticket médio mercado", segmento),
		fmt.Sprintf("oportunidades %s gaps mercado", segmento),
	}

	if produto := strings.TrimSpace(req.Produto); produto != "" {
		queries = append(queries,
			fmt.Sprintf("%s mercado brasileiro análise", produto),
			fmt.Sprintf("%s concorrentes principais", produto),
			fmt.Sprintf("%s preço médio Brasil", produto),
		)
	}

	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}
	return queries
}

const systemPrompt = `Você é um especialista em análise de mercado e psicologia do consumidor.
Sua resposta deve ser um único objeto JSON válido, sem nenhum texto fora dele e sem marcação markdown.
Baseie TODA a análise exclusivamente nos dados de pesquisa fornecidos. Nunca invente dados.`

const reportSchema = `{
  "avatar": { "perfil_demografico": {...}, "perfil_psicografico": {...}, "dores_viscerais": [...], "desejos_secretos": [...] },
  "posicionamento": { "proposta_valor": "...", "diferenciais": [...], "mensagem_central": "..." },
  "concorrencia": { "concorrentes_diretos": [...], "gaps_oportunidade": [...] },
  "marketing": { "canais_prioritarios": [...], "estrategia_conteudo": "...", "palavras_chave": [...] },
  "metricas": { "ticket_medio": "...", "cac_estimado": "...", "ltv_estimado": "...", "roi_projetado": "..." },
  "funil_vendas": { "topo": "...", "meio": "...", "fundo": "..." },
  "inteligencia_mercado": { "tamanho_mercado": "...", "tendencias": [...], "riscos": [...] },
  "plano_acao": { "primeiros_30_dias": [...], "dias_31_60": [...], "dias_61_90": [...] },
  "insights_exclusivos": [ "lista de no mínimo 15 insights acionáveis baseados na pesquisa" ],
  "analise_completa": "análise consolidada em texto corrido, extremamente detalhada"
}`

// buildAnalysisPrompt assembles the user message from the request, search
// snippets and extracted page content.
func buildAnalysisPrompt(req apimodels.AnalysisRequest, results []search.Result, pages []*extractor.Page) string {
	var sb strings.Builder

	sb.WriteString("DADOS DO PROJETO:\n")
	fmt.Fprintf(&sb, "- Segmento: %s\n", req.Segmento)
	if req.Produto != "" {
		fmt.Fprintf(&sb, "- Produto: %s\n", req.Produto)
	}
	if req.Descricao != "" {
		fmt.Fprintf(&sb, "- Descrição: %s\n", req.Descricao)
	}
	if req.Preco > 0 {
		fmt.Fprintf(&sb, "- Preço: R$ %.2f\n", req.Preco)
	}
	if req.Publico != "" {
		fmt.Fprintf(&sb, "- Público-alvo: %s\n", req.Publico)
	}
	if req.Concorrentes != "" {
		fmt.Fprintf(&sb, "- Concorrentes conhecidos: %s\n", req.Concorrentes)
	}
	if req.ObjetivoReceita > 0 {
		fmt.Fprintf(&sb, "- Objetivo de receita: R$ %.2f\n", req.ObjetivoReceita)
	}
	if req.OrcamentoMarketing > 0 {
		fmt.Fprintf(&sb, "- Orçamento de marketing: R$ %.2f\n", req.OrcamentoMarketing)
	}
	if req.PrazoLancamento != "" {
		fmt.Fprintf(&sb, "- Prazo de lançamento: %s\n", req.PrazoLancamento)
	}
	if req.DadosAdicionais != "" {
		fmt.Fprintf(&sb, "- Dados adicionais: %s\n", req.DadosAdicionais)
	}

	sb.WriteString("\nRESULTADOS DE PESQUISA REAL:\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}

	sb.WriteString("\nCONTEÚDO EXTRAÍDO DAS PÁGINAS:\n")
	for i, p := range pages {
		content := p.Content
		if len(content) > 4000 {
			content = content[:4000]
		}
		fmt.Fprintf(&sb, "--- Página %d (%s) ---\n%s\n\n", i+1, p.URL, content)
	}

	sb.WriteString("\nGere a análise de mercado completa no seguinte formato JSON:\n")
	sb.WriteString(reportSchema)
	sb.WriteString("\n\nIMPORTANTE: a análise deve ser EXTREMAMENTE detalhada e específica para o segmento. Todas as seções são obrigatórias.")

	return sb.String()
}
