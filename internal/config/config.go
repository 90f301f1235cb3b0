package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "FILING_SCANNER_CONFIG"
	databaseDSNEnv   = "POSTGRES_CONNECTION"
	enrichURLEnv     = "ENRICH_API_URL"
	userAgentEnv     = "USER_AGENT"
	regulatorIDEnv   = "REGULATOR_FILER_ID"
	repositoryURLEnv = "REPOSITORY_DOC_URL"
	noticeFeedEnv    = "NOTICE_FEED_URL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Source kinds selectable from configuration.
const (
	KindRegulator  = "regulator"
	KindRepository = "repository"
	KindNoticeFeed = "feed"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Enrichment    EnrichmentConfig   `yaml:"enrichment"`
	HTTP          HTTPConfig         `yaml:"http"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN is
// legal: persistence becomes a logged no-op.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// EnrichmentConfig defines how to contact the enrichment service.
type EnrichmentConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the request ceiling for enrichment calls.
func (e EnrichmentConfig) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// HTTPConfig groups outbound request settings shared by all sources.
type HTTPConfig struct {
	UserAgent            string `yaml:"userAgent"`
	SourceTimeoutSeconds int    `yaml:"sourceTimeoutSeconds"`
}

// SourceTimeout is the per-adapter ceiling for one Fetch.
func (h HTTPConfig) SourceTimeout() time.Duration {
	if h.SourceTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(h.SourceTimeoutSeconds) * time.Second
}

// SchedulerConfig controls recurring runs; zero interval means one-shot.
type SchedulerConfig struct {
	IntervalMinutes int `yaml:"intervalMinutes"`
}

// Interval resolves the recurring-run period.
func (s SchedulerConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digests.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SourceConfig describes a single filing source and the adapter kind that
// serves it. Fields beyond Kind are kind-specific.
type SourceConfig struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`

	// regulator
	FilerID    string `yaml:"filerId"`
	IndexURL   string `yaml:"indexUrl"`
	ArchiveURL string `yaml:"archiveUrl"`

	// repository and feed
	URL string `yaml:"url"`

	// repository metadata, supplied by the caller because the source has no
	// structured index
	Company    string `yaml:"company"`
	FilingType string `yaml:"filingType"`
	FilingDate string `yaml:"filingDate"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(enrichURLEnv); v != "" {
		c.Enrichment.BaseURL = v
	}

	if v := os.Getenv(userAgentEnv); v != "" {
		c.HTTP.UserAgent = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(regulatorIDEnv); v != "" {
		c.setSourceField(KindRegulator, func(s *SourceConfig) { s.FilerID = v })
	}

	if v := os.Getenv(noticeFeedEnv); v != "" {
		c.setSourceField(KindNoticeFeed, func(s *SourceConfig) { s.URL = v })
	}

	if v := os.Getenv(repositoryURLEnv); v != "" {
		c.setSourceField(KindRepository, func(s *SourceConfig) { s.URL = v })
	}
}

// setSourceField updates the first source of the given kind, appending a new
// entry when none is configured yet.
func (c *Config) setSourceField(kind string, set func(*SourceConfig)) {
	for i := range c.Sources {
		if c.Sources[i].Kind == kind {
			set(&c.Sources[i])
			return
		}
	}
	src := SourceConfig{Kind: kind, Name: kind + "-env"}
	if kind == KindRepository {
		src.Company = "Unknown"
		src.FilingType = "Prospectus"
	}
	set(&src)
	c.Sources = append(c.Sources, src)
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Enrichment.BaseURL != "" {
		base.Enrichment.BaseURL = override.Enrichment.BaseURL
	}
	if override.Enrichment.TimeoutSeconds > 0 {
		base.Enrichment.TimeoutSeconds = override.Enrichment.TimeoutSeconds
	}

	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.SourceTimeoutSeconds > 0 {
		base.HTTP.SourceTimeoutSeconds = override.HTTP.SourceTimeoutSeconds
	}

	if override.Scheduler.IntervalMinutes > 0 {
		base.Scheduler = override.Scheduler
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:    LoggingConfig{Level: "info"},
		Database:   DatabaseConfig{DSN: ""},
		Enrichment: EnrichmentConfig{BaseURL: "http://localhost:7071", TimeoutSeconds: 30},
		HTTP:       HTTPConfig{UserAgent: "FilingScanner/1.0", SourceTimeoutSeconds: 60},
		Scheduler:  SchedulerConfig{IntervalMinutes: 0},
		Sources: []SourceConfig{
			{
				Kind:       KindRegulator,
				Name:       "regulator-default",
				FilerID:    "0000320193",
				IndexURL:   "https://data.regulator.example/submissions",
				ArchiveURL: "https://archive.regulator.example/Archives",
			},
			{
				Kind: KindNoticeFeed,
				Name: "notices-default",
				URL:  "https://notices.example.org/feed.xml",
			},
		},
	}
}
