package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSerperEndpoint = "https://google.serper.dev/search"

// Serper queries the Serper.dev Google search API.
type Serper struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewSerper(apiKey string, timeout time.Duration) *Serper {
	return &Serper{
		apiKey:   apiKey,
		endpoint: defaultSerperEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type serperRequest struct {
	Query string `json:"q"`
	Gl    string `json:"gl"`
	Hl    string `json:"hl"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
}

func (s *Serper) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	reqBody := serperRequest{
		Query: query,
		Gl:    "br",
		Hl:    "pt-br",
		Num:   maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("serper returned status %d: %s", resp.StatusCode, string(body))
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(sr.Organic))
	for i, item := range sr.Organic {
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
		pos := item.Position
		if pos == 0 {
			pos = i + 1
		}
		results = append(results, Result{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  item.Snippet,
			Position: pos,
		})
	}

	return results, nil
}
