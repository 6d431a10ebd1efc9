package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures input locations, stage thresholds, the back-fill fetcher and
// the translation collaborator.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Community   CommunityConfig   `yaml:"community"`
	Duplicates  DuplicatesConfig  `yaml:"duplicates"`
	Trend       TrendConfig       `yaml:"trend"`
	Backfill    BackfillConfig    `yaml:"backfill"`
	Translation TranslationConfig `yaml:"translation"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type InputConfig struct {
	// Twitter records, JSON array or one JSON object per line
	TweetsPath string `yaml:"tweetsPath"`
	// Telegram message and participant dumps
	TelegramMessagesPath     string `yaml:"telegramMessagesPath"`
	TelegramParticipantsPath string `yaml:"telegramParticipantsPath"`
	// CSV corpora with a "keywords" / "hashtags" column
	KeywordsPath string `yaml:"keywordsPath"`
	HashtagsPath string `yaml:"hashtagsPath"`
}

type OutputConfig struct {
	ExportPath string `yaml:"exportPath"`
	// Optional SQLite dump of per-account rows; empty disables it
	DBPath string `yaml:"dbPath"`
}

type CommunityConfig struct {
	// auto, girvan_newman or leiden
	Algorithm         string  `yaml:"algorithm"`
	AutoThreshold     int     `yaml:"autoThreshold"`
	GirvanNewmanLevel int     `yaml:"girvanNewmanLevel"`
	Resolution        float64 `yaml:"resolution"`
	MaxIterations     int     `yaml:"maxIterations"`
}

type DuplicatesConfig struct {
	DTWThreshold     float64 `yaml:"dtwThreshold"`
	OverlapThreshold float64 `yaml:"overlapThreshold"`
}

type TrendConfig struct {
	ZScore  float64 `yaml:"zScore"`
	MinDays int     `yaml:"minDays"`
}

type CredentialsConfig struct {
	ConsumerKey    string `yaml:"consumerKey"`
	ConsumerSecret string `yaml:"consumerSecret"`
	AccessToken    string `yaml:"accessToken"`
	AccessSecret   string `yaml:"accessSecret"`
}

type BackfillConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Credentials []CredentialsConfig `yaml:"credentials"`
	MaxAttempts int                 `yaml:"maxAttempts"`
	PageSize    int                 `yaml:"pageSize"`
	RPS         float64             `yaml:"rps"`
	Burst       int                 `yaml:"burst"`
}

type TranslationConfig struct {
	Provider string `yaml:"provider"` // "openai" or "none"
	Model    string `yaml:"model"`
	// If empty, read from env OPENAI_API_KEY
	APIKey string `yaml:"apiKey"`
	Target string `yaml:"target"`
}

type LoggingConfig struct {
	Mode string `yaml:"mode"` // prod or dev
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Input: InputConfig{
			TweetsPath:   "./data/tweets.jsonl",
			KeywordsPath: "./data/keywords.csv",
			HashtagsPath: "./data/hashtags.csv",
		},
		Output:     OutputConfig{ExportPath: "./out/graph.json"},
		Community:  CommunityConfig{Algorithm: "auto", AutoThreshold: 1000, GirvanNewmanLevel: 2, Resolution: 1.0, MaxIterations: 32},
		Duplicates: DuplicatesConfig{DTWThreshold: 12600, OverlapThreshold: 3e-5},
		Trend:      TrendConfig{ZScore: 1.64, MinDays: 5},
		Backfill:   BackfillConfig{Enabled: false, MaxAttempts: 5, PageSize: 200, RPS: 1, Burst: 5},
		Translation: TranslationConfig{Provider: "none", Model: "gpt-4o-mini", Target: "en"},
		Logging:    LoggingConfig{Mode: "dev"},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if len(c.Backfill.Credentials) == 0 {
		cred := CredentialsConfig{
			ConsumerKey:    os.Getenv("X_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("X_CONSUMER_SECRET"),
			AccessToken:    os.Getenv("X_ACCESS_TOKEN"),
			AccessSecret:   os.Getenv("X_ACCESS_SECRET"),
		}
		if cred.ConsumerKey != "" {
			c.Backfill.Credentials = []CredentialsConfig{cred}
		}
	}
	if c.Translation.APIKey == "" && c.Translation.Provider == "openai" {
		c.Translation.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
}

// Load reads YAML config from path. Fields absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
