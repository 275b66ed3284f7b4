package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Page is the cleaned text content of one fetched URL.
type Page struct {
	URL     string `json:"url"`
	Content string `json:"content"`
	Length  int    `json:"length"`
}

// Extractor turns a URL into readable text content.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*Page, error)
}

// Readability fetches pages and strips them down to article text.
type Readability struct {
	httpClient *http.Client
}

func NewReadability(timeout time.Duration) *Readability {
	return &Readability{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *Readability) Extract(ctx context.Context, pageURL string) (*Page, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; arq503/1.0)")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s returned status %d", pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	content := strings.TrimSpace(article.TextContent)
	return &Page{
		URL:     pageURL,
		Content: content,
		Length:  len(content),
	}, nil
}
