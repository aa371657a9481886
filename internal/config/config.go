package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/preprocess"
)

const (
	configPathEnv     = "NEWS_RISK_CONFIG"
	groqAPIKeyEnv     = "GROQ_API_KEY"
	groqModelEnv      = "GROQ_MODEL"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	hfTokenEnv        = "HF_API_TOKEN"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"
)

// Scoring providers understood by the application.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Keywords      []string           `yaml:"keywords"`
	TargetCount   int                `yaml:"targetCount"`
	Sources       []SourceConfig     `yaml:"sources"`
	Browser       BrowserConfig      `yaml:"browser"`
	Collector     CollectorConfig    `yaml:"collector"`
	RSS           RSSConfig          `yaml:"rss"`
	Fetcher       FetcherConfig      `yaml:"fetcher"`
	Preprocess    PreprocessConfig   `yaml:"preprocess"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Summarizer    SummarizerConfig   `yaml:"summarizer"`
	Output        OutputConfig       `yaml:"output"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	// RequiredEnv lists extra variables that must be present before a run starts.
	RequiredEnv []string `yaml:"requiredEnv"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig binds a name to a registered scanner strategy.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	Options map[string]string `yaml:"options"`
}

// BrowserConfig describes how Chrome sessions are launched.
type BrowserConfig struct {
	Headless      bool          `yaml:"headless"`
	ExecPath      string        `yaml:"execPath"`
	ActionTimeout time.Duration `yaml:"actionTimeout"`
}

// CollectorConfig tunes the scrolling Google News collector.
type CollectorConfig struct {
	HomeURL     string          `yaml:"homeUrl"`
	BaseURL     string          `yaml:"baseUrl"`
	SettleDelay time.Duration   `yaml:"settleDelay"`
	ScrollDelay time.Duration   `yaml:"scrollDelay"`
	Patience    int             `yaml:"patience"`
	Selectors   SelectorsConfig `yaml:"selectors"`
}

// SelectorsConfig holds the CSS selectors of the listing page.
type SelectorsConfig struct {
	SearchInput string `yaml:"searchInput"`
	Article     string `yaml:"article"`
	Link        string `yaml:"link"`
	Source      string `yaml:"source"`
	Timestamp   string `yaml:"timestamp"`
}

// RSSConfig points the feed strategy at a search endpoint.
type RSSConfig struct {
	SearchURL string        `yaml:"searchUrl"`
	Timeout   time.Duration `yaml:"timeout"`
}

// FetcherConfig tunes redirect resolution and article download.
type FetcherConfig struct {
	ResolveDelay time.Duration `yaml:"resolveDelay"`
	HTTPTimeout  time.Duration `yaml:"httpTimeout"`
	UserAgent    string        `yaml:"userAgent"`
}

// PreprocessConfig controls filtering before scoring.
type PreprocessConfig struct {
	// MinWords is the word count an article must exceed; 0 keeps every non-empty article.
	MinWords        int  `yaml:"minWords"`
	FilterByKeyword bool `yaml:"filterByKeyword"`
}

// ScoringConfig defines how to contact the risk scoring LLM.
type ScoringConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Provider       string        `yaml:"provider"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"-"`
	GeminiModel    string        `yaml:"geminiModel"`
	GeminiAPIKey   string        `yaml:"-"`
	Schema         string        `yaml:"schema"`
	SystemPrompt   string        `yaml:"systemPrompt"`
	RequiredFields []string      `yaml:"requiredFields"`
	Temperature    float32       `yaml:"temperature"`
	MaxTokens      int           `yaml:"maxTokens"`
	Timeout        time.Duration `yaml:"timeout"`
	RatePerMinute  int           `yaml:"ratePerMinute"`
	MaxAttempts    int           `yaml:"maxAttempts"`
	RetryDelay     time.Duration `yaml:"retryDelay"`
}

// SummarizerConfig describes the hosted summarization model.
type SummarizerConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"`
	APIToken       string        `yaml:"-"`
	MaxInputTokens int           `yaml:"maxInputTokens"`
	MinLength      int           `yaml:"minLength"`
	MaxLength      int           `yaml:"maxLength"`
	NumBeams       int           `yaml:"numBeams"`
	Timeout        time.Duration `yaml:"timeout"`
	RatePerMinute  int           `yaml:"ratePerMinute"`
	MaxAttempts    int           `yaml:"maxAttempts"`
	RetryDelay     time.Duration `yaml:"retryDelay"`
}

// OutputConfig places the per-keyword JSON artifacts.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig describes the optional Postgres archive. Empty DSN disables it.
type DatabaseConfig struct {
	DSN string `yaml:"-"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram       TelegramConfig `yaml:"telegram"`
	AlertThreshold int            `yaml:"alertThreshold"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"chatId"`
	APIBase  string `yaml:"apiBase"`
}

// SchedulerConfig repeats the run on a fixed interval. Zero runs once.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Load reads .env and YAML configuration (if present), applies environment overrides and
// checks that every required variable is set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfig, path, err)
		}
		if err := cfg.overlay(raw); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", domain.ErrConfig, path, err)
		}
	}

	cfg.applyEnvOverrides()

	if _, err := LoadEnv(cfg.requiredKeys()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overlay decodes YAML on top of the current values; keys absent from the document keep their defaults.
func (c *Config) overlay(raw []byte) error {
	return yaml.Unmarshal(raw, c)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.Scoring.APIKey = v
	}

	if v := os.Getenv(groqModelEnv); v != "" {
		c.Scoring.Model = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Scoring.GeminiAPIKey = v
	}

	if v := os.Getenv(hfTokenEnv); v != "" {
		c.Summarizer.APIToken = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c Config) requiredKeys() []string {
	keys := append([]string(nil), c.RequiredEnv...)
	if !c.Scoring.Enabled {
		return keys
	}
	switch c.Scoring.Provider {
	case ProviderGemini:
		keys = append(keys, geminiAPIKeyEnv)
	default:
		keys = append(keys, groqAPIKeyEnv)
	}
	return keys
}

func defaultConfig() Config {
	return Config{
		Logging:     LoggingConfig{Level: "info"},
		Keywords:    []string{"Credit Suisse"},
		TargetCount: 50,
		Sources: []SourceConfig{
			{Name: "google-news", Scanner: "googlenews"},
		},
		Browser: BrowserConfig{Headless: true, ActionTimeout: 30 * time.Second},
		Collector: CollectorConfig{
			HomeURL:     "https://news.google.com/home?hl=vi&gl=VN&ceid=VN:vi",
			BaseURL:     "https://news.google.com",
			SettleDelay: 3 * time.Second,
			ScrollDelay: 3500 * time.Millisecond,
			Patience:    3,
			Selectors: SelectorsConfig{
				SearchInput: `input[aria-label="Tìm kiếm chủ đề, vị trí và nguồn"]`,
				Article:     "article.IFHyqb",
				Link:        "a.JtKRv",
				Source:      "div.vr1PYe",
				Timestamp:   "time.hvbAAd",
			},
		},
		RSS: RSSConfig{
			SearchURL: "https://news.google.com/rss/search?hl=vi&gl=VN&ceid=VN:vi",
			Timeout:   20 * time.Second,
		},
		Fetcher: FetcherConfig{
			ResolveDelay: 3 * time.Second,
			HTTPTimeout:  20 * time.Second,
			UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) NewsRiskScanner/1.0",
		},
		Preprocess: PreprocessConfig{MinWords: preprocess.DefaultMinWords, FilterByKeyword: true},
		Scoring: ScoringConfig{
			Enabled:       true,
			Provider:      ProviderGroq,
			BaseURL:       "https://api.groq.com/openai/v1",
			Model:         "llama-3.3-70b-versatile",
			GeminiModel:   "gemini-1.5-flash",
			Schema:        "financial",
			Temperature:   0.1,
			MaxTokens:     1024,
			Timeout:       60 * time.Second,
			RatePerMinute: 30,
			MaxAttempts:   2,
			RetryDelay:    2 * time.Second,
		},
		Summarizer: SummarizerConfig{
			Enabled:        false,
			Endpoint:       "https://api-inference.huggingface.co/models/VietAI/vit5-large-vietnews-summarization",
			MaxInputTokens: 1024,
			MinLength:      50,
			MaxLength:      256,
			NumBeams:       4,
			Timeout:        120 * time.Second,
			RatePerMinute:  30,
			MaxAttempts:    2,
			RetryDelay:     5 * time.Second,
		},
		Output: OutputConfig{Dir: "data"},
		Notifications: NotificationConfig{
			Telegram:       TelegramConfig{APIBase: "https://api.telegram.org"},
			AlertThreshold: 7,
		},
	}
}
