package search

import "context"

// Provider is the common interface over web search backends.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Result is a single retrieved search record.
type Result struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}
