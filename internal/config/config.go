package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobdesk.
type Config struct {
	StoragePath string
	HTTPTimeout time.Duration // zero leaves the transport default
	Search      SearchConfig
	AI          AIConfig
	Credentials CredentialsConfig
	Profile     ProfileConfig
}

// SearchConfig tunes the Adzuna client.
type SearchConfig struct {
	BaseURL        string
	Country        string
	ResultsPerPage int
	SalaryFloor    int // zero disables the salary-floor tier
}

// AIConfig selects models and token budgets for document generation.
type AIConfig struct {
	BaseURL        string
	CVModel        string
	CVMaxTokens    int
	CoverModel     string
	CoverMaxTokens int
}

// CredentialsConfig holds keys that override the stored settings. They are
// never written to storage.
type CredentialsConfig struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AdzunaAppID     string `yaml:"adzuna_app_id"`
	AdzunaAppKey    string `yaml:"adzuna_app_key"`
}

// ProfileConfig overrides parts of the built-in candidate profile. Empty
// fields keep the built-in values.
type ProfileConfig struct {
	Name       string   `yaml:"name"`
	Location   string   `yaml:"location"`
	Experience string   `yaml:"experience"`
	Highlights string   `yaml:"highlights"`
	KeyWins    []string `yaml:"key_wins"`
}

// Environment variables consulted by Resolve and for credentials.
const (
	EnvConfigPath      = "JOBDESK_CONFIG"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvAdzunaAppID     = "ADZUNA_APP_ID"
	EnvAdzunaAppKey    = "ADZUNA_APP_KEY"
)

const (
	defaultConfigFile     = "config.yaml"
	defaultSearchBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	defaultCountry        = "gb"
	defaultResultsPerPage = 10
	defaultSalaryFloor    = 80000
	defaultAIBaseURL      = "https://api.anthropic.com"
	defaultCVModel        = "claude-sonnet-4-5-20250929"
	defaultCVMaxTokens    = 2400
	defaultCoverModel     = "claude-haiku-4-5-20251001"
	defaultCoverMaxTokens = 900

	maxResultsPerPage = 50
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	StoragePath string            `yaml:"storage_path"`
	HTTPTimeout string            `yaml:"http_timeout"`
	Search      rawSearchConfig   `yaml:"search"`
	AI          rawAIConfig       `yaml:"ai"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Profile     ProfileConfig     `yaml:"profile"`
}

type rawSearchConfig struct {
	BaseURL        string `yaml:"base_url"`
	Country        string `yaml:"country"`
	ResultsPerPage int    `yaml:"results_per_page"`
	SalaryFloor    *int   `yaml:"salary_floor"`
}

type rawAIConfig struct {
	BaseURL        string `yaml:"base_url"`
	CVModel        string `yaml:"cv_model"`
	CVMaxTokens    int    `yaml:"cv_max_tokens"`
	CoverModel     string `yaml:"cover_model"`
	CoverMaxTokens int    `yaml:"cover_max_tokens"`
}

// LoadEnv loads KEY=value pairs from a dotenv file into the process
// environment. A missing file is not an error; variables already set win.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Resolve finds and loads the config file. Priority: explicit path, then
// $JOBDESK_CONFIG, then ./config.yaml. When no path was given and the
// default file does not exist, built-in defaults are returned.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return Load(p)
	}
	if _, err := os.Stat(defaultConfigFile); errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return Load(defaultConfigFile)
}

// Default returns the built-in configuration with credentials taken from
// the environment.
func Default() (*Config, error) {
	return build(rawConfig{})
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return build(raw)
}

func build(raw rawConfig) (*Config, error) {
	var timeout time.Duration
	if raw.HTTPTimeout != "" {
		var err error
		timeout, err = time.ParseDuration(raw.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse http_timeout %q: %w", raw.HTTPTimeout, err)
		}
	}

	salaryFloor := defaultSalaryFloor
	if raw.Search.SalaryFloor != nil {
		salaryFloor = *raw.Search.SalaryFloor
	}

	creds := raw.Credentials
	creds.AnthropicAPIKey = orEnv(creds.AnthropicAPIKey, EnvAnthropicAPIKey)
	creds.AdzunaAppID = orEnv(creds.AdzunaAppID, EnvAdzunaAppID)
	creds.AdzunaAppKey = orEnv(creds.AdzunaAppKey, EnvAdzunaAppKey)

	cfg := &Config{
		StoragePath: raw.StoragePath,
		HTTPTimeout: timeout,
		Search: SearchConfig{
			BaseURL:        orDefault(raw.Search.BaseURL, defaultSearchBaseURL),
			Country:        orDefault(raw.Search.Country, defaultCountry),
			ResultsPerPage: positiveOr(raw.Search.ResultsPerPage, defaultResultsPerPage),
			SalaryFloor:    salaryFloor,
		},
		AI: AIConfig{
			BaseURL:        orDefault(raw.AI.BaseURL, defaultAIBaseURL),
			CVModel:        orDefault(raw.AI.CVModel, defaultCVModel),
			CVMaxTokens:    positiveOr(raw.AI.CVMaxTokens, defaultCVMaxTokens),
			CoverModel:     orDefault(raw.AI.CoverModel, defaultCoverModel),
			CoverMaxTokens: positiveOr(raw.AI.CoverMaxTokens, defaultCoverMaxTokens),
		},
		Credentials: creds,
		Profile:     raw.Profile,
	}

	if cfg.StoragePath == "" {
		cfg.StoragePath = DefaultStoragePath()
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultStoragePath places the database under the user config directory,
// falling back to the working directory.
func DefaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "jobdesk.db"
	}
	return filepath.Join(dir, "jobdesk", "jobdesk.db")
}

func validate(cfg *Config) error {
	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative, got %v", cfg.HTTPTimeout)
	}
	if err := validateURL("search.base_url", cfg.Search.BaseURL); err != nil {
		return err
	}
	if err := validateURL("ai.base_url", cfg.AI.BaseURL); err != nil {
		return err
	}
	if len(cfg.Search.Country) != 2 {
		return fmt.Errorf("search.country must be a two-letter country code, got %q", cfg.Search.Country)
	}
	if cfg.Search.ResultsPerPage > maxResultsPerPage {
		return fmt.Errorf("search.results_per_page must be at most %d, got %d", maxResultsPerPage, cfg.Search.ResultsPerPage)
	}
	if cfg.Search.SalaryFloor < 0 {
		return fmt.Errorf("search.salary_floor must not be negative, got %d", cfg.Search.SalaryFloor)
	}
	if n := len(cfg.Profile.KeyWins); n == 1 {
		return fmt.Errorf("profile.key_wins needs at least 2 entries when set, got %d", n)
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orEnv(s, key string) string {
	if s == "" {
		return os.Getenv(key)
	}
	return s
}

func positiveOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
