package docquiz

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds the settings shared by the CLI and the web server
type Config struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	DBPath         string
	LogDir         string
	Port           string
	SessionSecret  string
	AllowedOrigins []string
	FontPath       string
	Verbose        bool
}

// rawConfig is used for YAML unmarshaling to distinguish missing keys from explicit empty values.
type rawConfig struct {
	Provider       *string  `yaml:"provider"`
	APIKey         *string  `yaml:"apiKey"`
	Model          *string  `yaml:"model"`
	BaseURL        *string  `yaml:"baseURL"`
	DBPath         *string  `yaml:"db"`
	LogDir         *string  `yaml:"logDir"`
	Port           *string  `yaml:"port"`
	SessionSecret  *string  `yaml:"sessionSecret"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	FontPath       *string  `yaml:"font"`
	Verbose        *bool    `yaml:"verbose"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Provider:       ProviderOpenAI,
		DBPath:         "./quiz.db",
		LogDir:         "logs",
		Port:           "8180",
		AllowedOrigins: []string{"*"},
	}
}

// Validate checks that the Config fields are usable
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.Provider)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db must not be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}

// RequireAPIKey reports a missing key for the selected provider
func (c *Config) RequireAPIKey() error {
	if c.APIKey != "" {
		return nil
	}
	if c.Provider == ProviderGemini {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return fmt.Errorf("OPENAI_API_KEY environment variable is required")
}

// LoadConfig builds the configuration from defaults, a .env file, the optional YAML
// file at path and finally the environment. A missing .env or YAML file is not an error.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			var raw rawConfig
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			raw.mergeInto(&config)
		}
	}

	applyEnv(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// mergeInto only overrides the keys that were set in YAML
func (raw *rawConfig) mergeInto(c *Config) {
	if raw.Provider != nil {
		c.Provider = *raw.Provider
	}
	if raw.APIKey != nil {
		c.APIKey = *raw.APIKey
	}
	if raw.Model != nil {
		c.Model = *raw.Model
	}
	if raw.BaseURL != nil {
		c.BaseURL = *raw.BaseURL
	}
	if raw.DBPath != nil {
		c.DBPath = *raw.DBPath
	}
	if raw.LogDir != nil {
		c.LogDir = *raw.LogDir
	}
	if raw.Port != nil {
		c.Port = *raw.Port
	}
	if raw.SessionSecret != nil {
		c.SessionSecret = *raw.SessionSecret
	}
	if len(raw.AllowedOrigins) > 0 {
		c.AllowedOrigins = raw.AllowedOrigins
	}
	if raw.FontPath != nil {
		c.FontPath = *raw.FontPath
	}
	if raw.Verbose != nil {
		c.Verbose = *raw.Verbose
	}
}

func applyEnv(c *Config) {
	setFromEnv(&c.Provider, "DOCQUIZ_PROVIDER")
	setFromEnv(&c.Model, "DOCQUIZ_MODEL")
	setFromEnv(&c.BaseURL, "DOCQUIZ_BASE_URL")
	setFromEnv(&c.DBPath, "DOCQUIZ_DB")
	setFromEnv(&c.LogDir, "DOCQUIZ_LOG_DIR")
	setFromEnv(&c.Port, "PORT")
	setFromEnv(&c.SessionSecret, "DOCQUIZ_SESSION_SECRET")
	setFromEnv(&c.FontPath, "DOCQUIZ_FONT")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	// the key variable follows the provider chosen above
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderGemini:
		setFromEnv(&c.APIKey, "GEMINI_API_KEY")
	default:
		setFromEnv(&c.APIKey, "OPENAI_API_KEY")
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
