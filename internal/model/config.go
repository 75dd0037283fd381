package model

import "time"

// Config holds all tunable pipeline settings. Every heuristic threshold and
// penalty lives here rather than as a hard-coded constant; defaults follow
// DefaultConfig.
type Config struct {
	Input      InputConfig      `mapstructure:"input" yaml:"input"`
	Recognizer RecognizerConfig `mapstructure:"recognizer" yaml:"recognizer"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge" yaml:"knowledge"`
	Verify     VerifyConfig     `mapstructure:"verify" yaml:"verify"`
	Score      ScoreConfig      `mapstructure:"score" yaml:"score"`
	Report     ReportConfig     `mapstructure:"report" yaml:"report"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
}

// InputConfig bounds what the pipeline will accept.
type InputConfig struct {
	MaxBytes int `mapstructure:"max_bytes" yaml:"max_bytes"` // reject larger inputs as client errors
}

// RecognizerConfig selects and configures the entity recognizer.
type RecognizerConfig struct {
	// Provider is "openai", "regex", or "" for auto (openai when an API key
	// is present and the endpoint answers, regex otherwise).
	Provider string        `mapstructure:"provider" yaml:"provider"`
	Model    string        `mapstructure:"model" yaml:"model"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// KnowledgeConfig configures the external knowledge-source client.
type KnowledgeConfig struct {
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	SourceName string        `mapstructure:"source_name" yaml:"source_name"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RatePerSec float64       `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
	Burst      int           `mapstructure:"burst" yaml:"burst"`
}

// VerifyConfig bounds the verification phase.
type VerifyConfig struct {
	Workers            int           `mapstructure:"workers" yaml:"workers"`                         // concurrent in-flight lookups
	LookupTimeout      time.Duration `mapstructure:"lookup_timeout" yaml:"lookup_timeout"`           // per-lookup bound
	Budget             time.Duration `mapstructure:"budget" yaml:"budget"`                           // whole-phase bound
	RelevanceThreshold float64       `mapstructure:"relevance_threshold" yaml:"relevance_threshold"` // minimum token overlap for corroboration
	CacheTTL           time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// ScoreConfig holds the deterministic scoring penalties.
type ScoreConfig struct {
	UnverifiablePenalty float64 `mapstructure:"unverifiable_penalty" yaml:"unverifiable_penalty"` // scaled by claim confidence
	ContradictedPenalty float64 `mapstructure:"contradicted_penalty" yaml:"contradicted_penalty"` // scaled by claim confidence
	StylePenalty        float64 `mapstructure:"style_penalty" yaml:"style_penalty"`               // per style issue, scaled by confidence
	EntityPenalty       float64 `mapstructure:"entity_penalty" yaml:"entity_penalty"`             // per unresolved entity
	EntityPenaltyCap    float64 `mapstructure:"entity_penalty_cap" yaml:"entity_penalty_cap"`     // absolute cap on entity deductions
}

// ReportConfig shapes the assembled report.
type ReportConfig struct {
	MaxSources int `mapstructure:"max_sources" yaml:"max_sources"`
}

// ServerConfig configures the analyze HTTP service.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxBytes: 200_000,
		},
		Recognizer: RecognizerConfig{
			Provider: "",
			Model:    "gpt-4o-mini",
			Timeout:  10 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			BaseURL:    "https://en.wikipedia.org/api/rest_v1",
			SourceName: "Wikipedia",
			UserAgent:  "Veracity/0.1 (+https://github.com/ppiankov/veracity)",
			Timeout:    3 * time.Second,
			RatePerSec: 10,
			Burst:      5,
		},
		Verify: VerifyConfig{
			Workers:            8,
			LookupTimeout:      3 * time.Second,
			Budget:             8 * time.Second,
			RelevanceThreshold: 0.3,
			CacheTTL:           5 * time.Minute,
		},
		Score: ScoreConfig{
			UnverifiablePenalty: 15,
			ContradictedPenalty: 25,
			StylePenalty:        4,
			EntityPenalty:       5,
			EntityPenaltyCap:    30,
		},
		Report: ReportConfig{
			MaxSources: 10,
		},
		Server: ServerConfig{
			Addr:           ":8085",
			RequestTimeout: 15 * time.Second,
		},
	}
}
