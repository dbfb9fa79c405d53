package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dshills/ailint/internal/cache"
	"github.com/dshills/ailint/internal/rules"
)

// candidate config file names, checked in order.
var configNames = []string{".ailint.yml", ".ailint.yaml", "ailint.yml"}

// Config is the fully-merged ailint configuration. By the time a Config
// leaves Loader.Load it has been validated: rule ids are unique, severities
// are legal, and concurrency is in range. The engine trusts this.
type Config struct {
	Provider      string       `yaml:"provider" validate:"required,oneof=anthropic openai ollama lmstudio"`
	ProviderURL   string       `yaml:"providerUrl" validate:"omitempty,url"`
	Model         string       `yaml:"model" validate:"required"`
	Concurrency   int          `yaml:"concurrency" validate:"min=1,max=20"`
	CacheDir      string       `yaml:"cacheDir"`
	RedactSecrets bool         `yaml:"redactSecrets"`
	Rules         []rules.Rule `yaml:"rules" validate:"required,min=1,dive"`
}

// Default returns a Config with all defaults applied. Loading a file
// overlays onto these values, so absent keys keep their defaults.
func Default() Config {
	return Config{
		Provider:      "anthropic",
		Model:         "claude-sonnet",
		Concurrency:   5,
		CacheDir:      cache.DefaultDir,
		RedactSecrets: true,
	}
}

// Loader parses and validates configuration files. The validator instance
// is constructed once per Loader and passed nowhere else.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a config Loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// Load builds the effective config: defaults <- YAML file <- environment.
// If path is empty the candidate file names are tried in the working
// directory; a rules file is mandatory since there are no built-in rules.
func (l *Loader) Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfig()
		if path == "" {
			return Config{}, fmt.Errorf("no config file found (looked for %s)", configNames[0])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeEnv(&cfg)

	if err := l.Validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks structural constraints and rule id uniqueness.
func (l *Loader) Validate(cfg *Config) error {
	if err := l.validate.Struct(cfg); err != nil {
		return err
	}
	seen := make(map[string]bool, len(cfg.Rules))
	for _, r := range cfg.Rules {
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func findConfig() string {
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("AILINT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("AILINT_PROVIDER_URL"); v != "" {
		cfg.ProviderURL = v
	}
	if v := os.Getenv("AILINT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("AILINT_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("AILINT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
}
