package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mktud1/arq503/apimodels"
	"github.com/mktud1/arq503/internal/config"
	"github.com/mktud1/arq503/internal/extractor"
	"github.com/mktud1/arq503/internal/llm"
	"github.com/mktud1/arq503/internal/search"
	"github.com/mktud1/arq503/internal/storage"
)

const (
	// hard cap on collected search records across all queries
	maxCollectedResults = 30

	// report generation needs room for 15k+ characters
	generationMaxTokens = 8000
)

// ProgressFunc receives stage transitions while a pipeline runs.
type ProgressFunc func(stage Stage, percent int)

// Analyzer runs the analysis validation pipeline: a strict sequence of
// gates over real search, extraction and AI collaborators. The first gate
// that fails terminates the request; no stage ever substitutes placeholder
// content for missing data.
type Analyzer struct {
	store          storage.Store
	searchProvider search.Provider
	extractor      extractor.Extractor
	llmProvider    llm.Provider

	minSearchResults int
	minUsablePages   int
	minReportLength  int
	minPageLength    int
	maxPages         int
	searchMaxResults int

	// OnProgress, when set, is invoked on every stage transition.
	OnProgress ProgressFunc
}

func New(store storage.Store, searchProvider search.Provider, ext extractor.Extractor, llmProvider llm.Provider, cfg *config.Config) *Analyzer {
	return &Analyzer{
		store:            store,
		searchProvider:   searchProvider,
		extractor:        ext,
		llmProvider:      llmProvider,
		minSearchResults: cfg.Pipeline.MinSearchResults,
		minUsablePages:   cfg.Pipeline.MinUsablePages,
		minReportLength:  cfg.Pipeline.MinReportLength,
		minPageLength:    cfg.Extractor.MinPageLength,
		maxPages:         cfg.Extractor.MaxPages,
		searchMaxResults: cfg.Search.MaxResults,
	}
}

// Analyze runs one request through the full pipeline and persists the
// outcome. The returned Analysis reflects the final stored state; a non-nil
// error is always one of the gate errors or a storage/collaborator failure.
func (a *Analyzer) Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.Analysis, error) {
	slog.Info("Starting analysis", "segmento", req.Segmento, "produto", req.Produto)
	startTime := time.Now()

	// Input gate runs before any record is created or network call issued.
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if a.searchProvider == nil || a.llmProvider == nil {
		return nil, detailFailure(StagePending, ErrProviderUnavailable, "no configured AI or search provider")
	}

	analysis, err := a.store.CreateAnalysis(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis record: %w", err)
	}

	if err := a.store.SetProcessing(ctx, analysis.ID); err != nil {
		return nil, fmt.Errorf("failed to mark analysis processing: %w", err)
	}
	analysis.Status = apimodels.StatusProcessing

	report, err := a.runPipeline(ctx, req, startTime)
	if err != nil {
		slog.Error("Pipeline failed", "id", analysis.ID, "error", err)
		if serr := a.store.MarkFailed(ctx, analysis.ID, err.Error()); serr != nil {
			slog.Error("Failed to record pipeline failure", "id", analysis.ID, "error", serr)
		}
		analysis.Status = apimodels.StatusFailed
		analysis.Error = err.Error()
		return analysis, err
	}

	if err := a.store.SaveReport(ctx, analysis.ID, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	analysis.Status = apimodels.StatusCompleted
	analysis.Report = report

	slog.Info("Analysis completed", "id", analysis.ID,
		"duration", time.Since(startTime), "reportLength", report.Metadata.ReportLength)
	return analysis, nil
}

func (a *Analyzer) runPipeline(ctx context.Context, req apimodels.AnalysisRequest, startTime time.Time) (*apimodels.AnalysisReport, error) {
	// Stage 1: web search
	a.notify(StageSearchingWeb, 10)
	results, err := a.searchWeb(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := gateSearchResults(results, a.minSearchResults); err != nil {
		return nil, err
	}
	slog.Info("Search gate passed", "results", len(results))

	// Stage 2: content extraction
	a.notify(StageExtractingContent, 35)
	pages := a.extractPages(ctx, results)
	if err := gateExtractedContent(pages, a.minUsablePages); err != nil {
		return nil, err
	}
	slog.Info("Extraction gate passed", "usablePages", len(pages))

	// Stage 3: AI generation
	a.notify(StageGeneratingAnalysis, 60)
	resp, err := a.llmProvider.Generate(ctx,
		[]string{systemPrompt},
		[]string{buildAnalysisPrompt(req, results, pages)},
		func(o *llm.Options) { o.MaxTokens = generationMaxTokens },
	)
	if err != nil {
		return nil, fmt.Errorf("AI generation failed: %w", err)
	}

	doc, err := parseStructuredDocument(resp.Content)
	if err != nil {
		return nil, err
	}
	slog.Info("AI response parsed", "sections", len(doc), "tokens", resp.Usage.TotalTokens)

	// Stage 4: output validation
	a.notify(StageValidatingOutput, 85)
	serialized, err := json.Marshal(doc)
	if err != nil {
		return nil, detailFailure(StageValidatingOutput, ErrInvalidAIResponse, "failed to reserialize document: %v", err)
	}
	if err := gateReportLength(serialized, a.minReportLength); err != nil {
		return nil, err
	}
	if err := gateRequiredSections(doc); err != nil {
		return nil, err
	}

	report := reportFromDocument(doc)
	report.Metadata = apimodels.AnalysisMetadata{
		Duration:       time.Since(startTime).String(),
		Model:          resp.Model,
		TokensUsed:     resp.Usage.TotalTokens,
		ReportLength:   len(serialized),
		SearchResults:  len(results),
		PagesExtracted: len(pages),
		GeneratedAt:    time.Now().UTC(),
	}

	a.notify(StageCompleted, 100)
	return report, nil
}

// searchWeb runs the derived queries against the search provider and
// deduplicates records by URL. Individual query errors only reduce the
// collected count; the search gate decides whether enough remain.
func (a *Analyzer) searchWeb(ctx context.Context, req apimodels.AnalysisRequest) ([]search.Result, error) {
	queries := buildSearchQueries(req)

	seen := make(map[string]bool)
	var results []search.Result

	for _, query := range queries {
		if len(results) >= maxCollectedResults {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := a.searchProvider.Search(ctx, query, a.searchMaxResults)
		if err != nil {
			slog.Warn("Search query failed", "query", query, "error", err)
			continue
		}
		for _, r := range found {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			results = append(results, r)
			if len(results) >= maxCollectedResults {
				break
			}
		}
	}

	return results, nil
}

// extractPages fetches result URLs in order until enough usable pages are
// collected. Extraction failures and thin pages are skipped, never faked.
func (a *Analyzer) extractPages(ctx context.Context, results []search.Result) []*extractor.Page {
	var pages []*extractor.Page

	for _, r := range results {
		if len(pages) >= a.maxPages {
			break
		}
		if ctx.Err() != nil {
			break
		}

		page, err := a.extractor.Extract(ctx, r.URL)
		if err != nil {
			slog.Warn("Extraction failed", "url", r.URL, "error", err)
			continue
		}
		if page.Length < a.minPageLength {
			slog.Debug("Page below usable threshold", "url", r.URL, "length", page.Length)
			continue
		}
		pages = append(pages, page)
	}

	return pages
}

func (a *Analyzer) notify(stage Stage, percent int) {
	slog.Debug("Pipeline stage", "stage", stage, "percent", percent)
	if a.OnProgress != nil {
		a.OnProgress(stage, percent)
	}
}

// reportFromDocument maps the parsed AI document onto the report sections.
// Unknown keys are dropped; section shape is the AI's responsibility.
func reportFromDocument(doc map[string]json.RawMessage) *apimodels.AnalysisReport {
	return &apimodels.AnalysisReport{
		Avatar:              doc[apimodels.SectionAvatar],
		Posicionamento:      doc["posicionamento"],
		Concorrencia:        doc["concorrencia"],
		Marketing:           doc["marketing"],
		Metricas:            doc["metricas"],
		FunilVendas:         doc["funil_vendas"],
		InteligenciaMercado: doc["inteligencia_mercado"],
		PlanoAcao:           doc["plano_acao"],
		InsightsExclusivos:  doc[apimodels.SectionInsights],
		AnaliseCompleta:     doc["analise_completa"],
	}
}
