package search

import (
	"fmt"

	"github.com/mktud1/arq503/internal/config"
)

// NewProvider builds the configured search backend. With no explicit
// provider it falls back to whichever backend has credentials.
func NewProvider(cfg config.SearchConfig) (Provider, error) {
	provider := cfg.Provider
	if provider == "" {
		switch {
		case cfg.SerperAPIKey != "":
			provider = "serper"
		case cfg.GoogleAPIKey != "" && cfg.GoogleCX != "":
			provider = "google"
		default:
			return nil, fmt.Errorf("search provider not configured")
		}
	}

	switch provider {
	case "serper":
		if cfg.SerperAPIKey == "" {
			return nil, fmt.Errorf("serper api key is missing")
		}
		return NewSerper(cfg.SerperAPIKey, cfg.Timeout), nil

	case "google":
		if cfg.GoogleAPIKey == "" || cfg.GoogleCX == "" {
			return nil, fmt.Errorf("google cse key or cx is missing")
		}
		return NewGoogleCSE(cfg.GoogleAPIKey, cfg.GoogleCX, cfg.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
