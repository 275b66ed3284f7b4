package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/mktud1/arq503/apimodels"
	"github.com/mktud1/arq503/internal/extractor"
	"github.com/mktud1/arq503/internal/search"
)

// validateRequest rejects requests before any network call is issued.
func validateRequest(req apimodels.AnalysisRequest) error {
	if strings.TrimSpace(req.Segmento) == "" {
		return detailFailure(StagePending, ErrInvalidInput, "segmento is required")
	}
	if req.Preco < 0 {
		return detailFailure(StagePending, ErrInvalidInput, "preco must be positive, got %v", req.Preco)
	}
	return nil
}

// gateSearchResults enforces the minimum number of real search records.
func gateSearchResults(results []search.Result, min int) error {
	if len(results) < min {
		return countFailure(StageSearchingWeb, ErrInsufficientSearchData, len(results), min, "found")
	}
	return nil
}

// usablePages filters out pages whose extracted text is below the per-page
// minimum. A page with trivial content counts as if extraction had failed.
func usablePages(pages []*extractor.Page, minLength int) []*extractor.Page {
	usable := make([]*extractor.Page, 0, len(pages))
	for _, p := range pages {
		if p != nil && p.Length >= minLength {
			usable = append(usable, p)
		}
	}
	return usable
}

// gateExtractedContent enforces the minimum count of usable pages. The
// boundary is inclusive: exactly min pages passes.
func gateExtractedContent(usable []*extractor.Page, min int) error {
	if len(usable) < min {
		return countFailure(StageExtractingContent, ErrInsufficientExtraction, len(usable), min, "usable pages")
	}
	return nil
}

// parseStructuredDocument requires the AI response to be one well-formed
// JSON object. Markdown code fences around the object are tolerated;
// anything short of a full parse is a failure, never a partial success.
func parseStructuredDocument(raw string) (map[string]json.RawMessage, error) {
	clean := stripCodeFences(raw)
	if clean == "" {
		return nil, detailFailure(StageGeneratingAnalysis, ErrInvalidAIResponse, "empty response")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &doc); err != nil {
		return nil, detailFailure(StageGeneratingAnalysis, ErrInvalidAIResponse, "response is not a JSON object: %v", err)
	}
	return doc, nil
}

func stripCodeFences(s string) string {
	clean := strings.TrimSpace(s)
	if idx := strings.Index(clean, "```json"); idx >= 0 {
		clean = clean[idx+len("```json"):]
	} else {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// gateReportLength enforces the minimum serialized size of the report.
func gateReportLength(serialized []byte, min int) error {
	if len(serialized) < min {
		return countFailure(StageValidatingOutput, ErrReportTooShort, len(serialized), min, "chars")
	}
	return nil
}

// gateRequiredSections verifies the avatar and insights sections are
// present and carry actual content.
func gateRequiredSections(doc map[string]json.RawMessage) error {
	for _, section := range []string{apimodels.SectionAvatar, apimodels.SectionInsights} {
		if emptySection(doc[section]) {
			return detailFailure(StageValidatingOutput, ErrMissingSection, "section %q is absent or empty", section)
		}
	}
	return nil
}

func emptySection(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "{}", "[]", `""`:
		return true
	}
	return false
}
