package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	OpenAI    OpenAIConfig
	Search    SearchConfig
	Extractor ExtractorConfig
	Database  DatabaseConfig
	Pipeline  PipelineConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"300s"`
}

type OpenAIConfig struct {
	Provider    string `envconfig:"OPENAI_PROVIDER" default:"openai"`
	APIKey      string `envconfig:"OPENAI_API_KEY"`
	APIEndpoint string `envconfig:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1"`
	Model       string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	APIVersion  string `envconfig:"OPENAI_API_VERSION" default:"2023-05-15"`
}

type SearchConfig struct {
	Provider     string        `envconfig:"SEARCH_PROVIDER"`
	SerperAPIKey string        `envconfig:"SERPER_API_KEY"`
	GoogleAPIKey string        `envconfig:"GOOGLE_SEARCH_API_KEY"`
	GoogleCX     string        `envconfig:"GOOGLE_SEARCH_CX"`
	Timeout      time.Duration `envconfig:"SEARCH_TIMEOUT" default:"30s"`
	MaxResults   int           `envconfig:"SEARCH_MAX_RESULTS" default:"10"`
}

type ExtractorConfig struct {
	Timeout       time.Duration `envconfig:"EXTRACTOR_TIMEOUT" default:"30s"`
	MinPageLength int           `envconfig:"EXTRACTOR_MIN_PAGE_LENGTH" default:"200"`
	MaxPages      int           `envconfig:"EXTRACTOR_MAX_PAGES" default:"10"`
}

// DatabaseConfig selects the persistence backend. When Host is empty the
// service falls back to the in-memory store.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"arq503"`
}

type PipelineConfig struct {
	MinSearchResults     int `envconfig:"PIPELINE_MIN_SEARCH_RESULTS" default:"5"`
	MinUsablePages       int `envconfig:"PIPELINE_MIN_USABLE_PAGES" default:"3"`
	MinReportLength      int `envconfig:"PIPELINE_MIN_REPORT_LENGTH" default:"15000"`
	LLMRequestsPerMinute int `envconfig:"PIPELINE_LLM_RPM" default:"20"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
