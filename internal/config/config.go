package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

const (
	configPathEnv     = "REVIEWHARVEST_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	translatorKeyEnv  = "TRANSLATOR_API_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Harvest       HarvestConfig      `yaml:"harvest"`
	Sources       SourcesConfig      `yaml:"sources"`
	Subjects      []SubjectConfig    `yaml:"subjects"`
	Database      DatabaseConfig     `yaml:"database"`
	Translator    TranslatorConfig   `yaml:"translator"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HarvestConfig drives the quota-balanced collection loop.
type HarvestConfig struct {
	Source            string  `yaml:"source"`
	TablePath         string  `yaml:"tablePath"`
	TargetPerSubject  int     `yaml:"targetPerSubject"`
	MinWords          int     `yaml:"minWords"`
	MaxPages          int     `yaml:"maxPages"`
	PositiveMin       float64 `yaml:"positiveMin"`
	NegativeMax       float64 `yaml:"negativeMax"`
	PageCooldownMs    int     `yaml:"pageCooldownMs"`
	SubjectCooldownMs int     `yaml:"subjectCooldownMs"`
	BackoffSeconds    int     `yaml:"backoffSeconds"`
}

// Thresholds resolves the configured score-to-category bounds.
func (h HarvestConfig) Thresholds() domain.ScoreThresholds {
	t := domain.DefaultThresholds()
	if h.PositiveMin > 0 {
		t.PositiveMin = h.PositiveMin
	}
	if h.NegativeMax > 0 {
		t.NegativeMax = h.NegativeMax
	}
	return t
}

// SourcesConfig groups per-source endpoints.
type SourcesConfig struct {
	Steam      SteamConfig      `yaml:"steam"`
	Metacritic MetacriticConfig `yaml:"metacritic"`
}

// SteamConfig points at the Steam review and store APIs.
type SteamConfig struct {
	ReviewsURL string `yaml:"reviewsUrl"`
	StoreURL   string `yaml:"storeUrl"`
}

// MetacriticConfig points at the Metacritic game pages.
type MetacriticConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// SubjectConfig describes one game to harvest, with per-source locators.
type SubjectConfig struct {
	ID   string            `yaml:"id"`
	Name string            `yaml:"name"`
	Refs map[string]string `yaml:"refs"`
}

// DatabaseConfig describes the optional Postgres archive.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// TranslatorConfig defines the text-transformation service endpoint and its
// generation constraints.
type TranslatorConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	MinWords int    `yaml:"minWords"`
	MaxWords int    `yaml:"maxWords"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Subjects converts configured subjects to domain entities, preserving order.
func (c Config) DomainSubjects() []domain.Subject {
	subjects := make([]domain.Subject, 0, len(c.Subjects))
	for _, s := range c.Subjects {
		subjects = append(subjects, domain.Subject{ID: s.ID, Name: s.Name, Refs: s.Refs})
	}
	return subjects
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
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(translatorKeyEnv); v != "" {
		c.Translator.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Harvest.Source != "" {
		base.Harvest.Source = override.Harvest.Source
	}
	if override.Harvest.TablePath != "" {
		base.Harvest.TablePath = override.Harvest.TablePath
	}
	if override.Harvest.TargetPerSubject > 0 {
		base.Harvest.TargetPerSubject = override.Harvest.TargetPerSubject
	}
	if override.Harvest.MinWords > 0 {
		base.Harvest.MinWords = override.Harvest.MinWords
	}
	if override.Harvest.MaxPages > 0 {
		base.Harvest.MaxPages = override.Harvest.MaxPages
	}
	if override.Harvest.PositiveMin > 0 {
		base.Harvest.PositiveMin = override.Harvest.PositiveMin
	}
	if override.Harvest.NegativeMax > 0 {
		base.Harvest.NegativeMax = override.Harvest.NegativeMax
	}
	if override.Harvest.PageCooldownMs > 0 {
		base.Harvest.PageCooldownMs = override.Harvest.PageCooldownMs
	}
	if override.Harvest.SubjectCooldownMs > 0 {
		base.Harvest.SubjectCooldownMs = override.Harvest.SubjectCooldownMs
	}
	if override.Harvest.BackoffSeconds > 0 {
		base.Harvest.BackoffSeconds = override.Harvest.BackoffSeconds
	}

	if override.Sources.Steam.ReviewsURL != "" {
		base.Sources.Steam.ReviewsURL = override.Sources.Steam.ReviewsURL
	}
	if override.Sources.Steam.StoreURL != "" {
		base.Sources.Steam.StoreURL = override.Sources.Steam.StoreURL
	}
	if override.Sources.Metacritic.BaseURL != "" {
		base.Sources.Metacritic.BaseURL = override.Sources.Metacritic.BaseURL
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Translator.Endpoint != "" {
		base.Translator.Endpoint = override.Translator.Endpoint
	}
	if override.Translator.APIKey != "" {
		base.Translator.APIKey = override.Translator.APIKey
	}
	if override.Translator.MinWords > 0 {
		base.Translator.MinWords = override.Translator.MinWords
	}
	if override.Translator.MaxWords > 0 {
		base.Translator.MaxWords = override.Translator.MaxWords
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Subjects) > 0 {
		base.Subjects = override.Subjects
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Harvest: HarvestConfig{
			Source:            "steam",
			TablePath:         "data/cleaned_reviews.csv",
			TargetPerSubject:  104,
			MinWords:          5,
			MaxPages:          50,
			PositiveMin:       7,
			NegativeMax:       4,
			PageCooldownMs:    500,
			SubjectCooldownMs: 1000,
			BackoffSeconds:    15,
		},
		Sources: SourcesConfig{
			Steam: SteamConfig{
				ReviewsURL: "https://store.steampowered.com/appreviews",
				StoreURL:   "https://store.steampowered.com/api/appdetails",
			},
			Metacritic: MetacriticConfig{
				BaseURL: "https://www.metacritic.com/game",
			},
		},
		Database:   DatabaseConfig{DSN: ""},
		Translator: TranslatorConfig{Endpoint: "", MinWords: 5, MaxWords: 300},
	}
}
