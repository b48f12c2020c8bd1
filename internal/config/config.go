package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath        string            `yaml:"db_path"`
	BackfillDays  int               `yaml:"backfill_days"`
	RetentionDays int               `yaml:"retention_days"`
	Schedule      string            `yaml:"schedule"`
	RunOnStart    bool              `yaml:"run_on_start"`
	Provider      ProviderConfig    `yaml:"provider"`
	Generator     GeneratorConfig   `yaml:"generator"`
	Countries     map[string]string `yaml:"countries"`
}

type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type GeneratorConfig struct {
	Type    string `yaml:"type"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// defaultCountries maps supported country codes to display names. A
// "countries" section in the config file adds to or overrides these.
var defaultCountries = map[string]string{
	"AE": "UAE", "AR": "Argentina", "AU": "Australia", "BR": "Brazil",
	"CA": "Canada", "CH": "Switzerland", "CN": "China", "DE": "Germany",
	"ES": "Spain", "EU": "European Union", "FR": "France", "GB": "United Kingdom",
	"ID": "Indonesia", "IE": "Ireland", "IN": "India", "IT": "Italy",
	"JP": "Japan", "KR": "South Korea", "NG": "Nigeria", "NL": "Netherlands",
	"NZ": "New Zealand", "QA": "Qatar", "RU": "Russia", "SG": "Singapore",
	"TH": "Thailand", "TW": "Taiwan", "UN": "United Nations", "US": "United States",
	"VN": "Vietnam", "WHO": "WHO", "ZA": "South Africa",
}

// CountryCodes returns the configured country codes in sorted order.
func (c *Config) CountryCodes() []string {
	codes := make([]string, 0, len(c.Countries))
	for code := range c.Countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.DBPath == "" {
		cfg.DBPath = "data/digests.db"
	}
	if cfg.BackfillDays == 0 {
		cfg.BackfillDays = 90
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 90
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 6 * * *"
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "http://127.0.0.1:8000"
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "openrouter"
	}
	if cfg.Generator.BaseURL == "" {
		cfg.Generator.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "google/gemini-2.5-flash-lite"
	}
	if len(cfg.Countries) == 0 {
		cfg.Countries = make(map[string]string, len(defaultCountries))
	}
	for code, name := range defaultCountries {
		if _, ok := cfg.Countries[code]; !ok {
			cfg.Countries[code] = name
		}
	}
}

func validate(cfg *Config) error {
	if cfg.BackfillDays < 0 {
		return fmt.Errorf("config: backfill_days must not be negative")
	}
	if cfg.RetentionDays < 1 {
		return fmt.Errorf("config: retention_days must be at least 1")
	}
	if cfg.Generator.Type != "openrouter" {
		return fmt.Errorf("config: unsupported generator type %q (supported: openrouter)", cfg.Generator.Type)
	}
	if cfg.Generator.APIKey == "" {
		return fmt.Errorf("config: generator.api_key is required (set OPENROUTER_API_KEY env var)")
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
