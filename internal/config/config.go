package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"HistoFetch/internal/model"
)

// ConfigurationError reports an invalid or missing configuration value.
// All validation runs before any network call is made.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Config holds all application configuration.
type Config struct {
	API struct {
		Key     string `yaml:"key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
	Fetch struct {
		Symbols  []string `yaml:"symbols" validate:"required,min=1,dive,required"`
		Currency string   `yaml:"currency" validate:"required,oneof=USD BTC EUR ETH GBP JPY"`
		TickSize string   `yaml:"tick_size" validate:"required,oneof=minute hour day"`
		EndDate  string   `yaml:"end_date"`
		Lookback int      `yaml:"lookback" validate:"required,gt=0"`
	} `yaml:"fetch"`
	Output struct {
		JSONPath   string `yaml:"json_path"`
		CSVPath    string `yaml:"csv_path"`
		RawCSVPath string `yaml:"raw_csv_path"`
		CSVField   string `yaml:"csv_field" validate:"omitempty,oneof=open high low close volumefrom volumeto"`
	} `yaml:"output"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Notify struct {
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   string `yaml:"telegram_chat_id"`
	} `yaml:"notify"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CRYPTOCOMPARE_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("HISTOFETCH_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HISTOFETCH_SYMBOLS"); v != "" {
		cfg.Fetch.Symbols = splitList(v)
	}
	if v := os.Getenv("HISTOFETCH_CURRENCY"); v != "" {
		cfg.Fetch.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("HISTOFETCH_TICK_SIZE"); v != "" {
		cfg.Fetch.TickSize = v
	}
	if v := os.Getenv("HISTOFETCH_END_DATE"); v != "" {
		cfg.Fetch.EndDate = v
	}
	if v := os.Getenv("HISTOFETCH_LOOKBACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Lookback = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://min-api.cryptocompare.com"
	}
	if cfg.Fetch.Currency == "" {
		cfg.Fetch.Currency = "USD"
	}
	if cfg.Fetch.TickSize == "" {
		cfg.Fetch.TickSize = "day"
	}
	if cfg.Output.CSVField == "" {
		cfg.Output.CSVField = "close"
	}

	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var validate = newValidator()

// newValidator reports violations under yaml field names so errors read the
// way the config file is written.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// Validate checks all constraints and returns a ConfigurationError on the
// first violation.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			ve := verrs[0]
			return &ConfigurationError{
				Field:   strings.ToLower(strings.TrimPrefix(ve.Namespace(), "Config.")),
				Message: fmt.Sprintf("failed %q constraint (value: %v)", ve.Tag(), ve.Value()),
			}
		}
		return &ConfigurationError{Field: "config", Message: err.Error()}
	}
	if _, err := model.ParseTickSize(c.Fetch.TickSize); err != nil {
		return &ConfigurationError{Field: "fetch.tick_size", Message: err.Error()}
	}
	if _, err := c.EndTime(); err != nil {
		return &ConfigurationError{Field: "fetch.end_date", Message: err.Error()}
	}
	if c.Output.JSONPath == "" && c.Output.CSVPath == "" && c.Output.RawCSVPath == "" {
		return &ConfigurationError{Field: "output", Message: "at least one output path is required"}
	}
	return nil
}

// TickSize returns the parsed tick size. Call Validate first.
func (c *Config) TickSize() model.TickSize {
	tick, _ := model.ParseTickSize(c.Fetch.TickSize)
	return tick
}

// EndTime parses the configured end date. An empty value means now.
// Accepts RFC3339 or a plain date (interpreted as UTC midnight).
func (c *Config) EndTime() (time.Time, error) {
	s := strings.TrimSpace(c.Fetch.EndDate)
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("end date %q is not RFC3339 or YYYY-MM-DD", s)
}
