package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultGoogleEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE queries the Google Custom Search JSON API.
type GoogleCSE struct {
	apiKey     string
	cx         string
	endpoint   string
	httpClient *http.Client
}

func NewGoogleCSE(apiKey, cx string, timeout time.Duration) *GoogleCSE {
	return &GoogleCSE{
		apiKey:   apiKey,
		cx:       cx,
		endpoint: defaultGoogleEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (g *GoogleCSE) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	// The CSE API caps num at 10 per call.
	num := maxResults
	if num <= 0 || num > 10 {
		num = 10
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	params.Set("gl", "br")
	params.Set("lr", "lang_pt")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("google cse returned status %d: %s", resp.StatusCode, string(body))
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(gr.Items))
	for i, item := range gr.Items {
		results = append(results, Result{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  item.Snippet,
			Position: i + 1,
		})
	}

	return results, nil
}
