package config

import (
	"fmt"
	"net/mail"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultCheckInterval  = 5 * time.Minute
	DefaultRequestTimeout = 10 * time.Second
	DefaultHTTPPort       = 8787
	DefaultEmailEndpoint  = "https://api.resend.com/emails"
	DefaultLogTable       = "function_logs"
)

// Config is the top-level edgewatch configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Email    EmailConfig    `yaml:"email"`
	Alerting AlertingConfig `yaml:"alerting"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// SourceConfig describes the log-analytics query endpoint.
type SourceConfig struct {
	// Endpoint is the base URL of the log-analytics API
	// (e.g. "https://api.supabase.com").
	Endpoint string `yaml:"endpoint"`

	// ProjectRef identifies the project whose logs are queried.
	ProjectRef string `yaml:"project_ref"`

	// Table is the logical log table queried on each check.
	Table string `yaml:"table"`

	// TokenEnv is the name of the environment variable holding the
	// bearer token sent with every query.
	TokenEnv string `yaml:"token_env"`

	// Timeout bounds one query round-trip.
	Timeout time.Duration `yaml:"timeout"`
}

// Token returns the bearer token resolved from the environment.
// Returns empty string if TokenEnv is unset or the variable is not found.
func (s SourceConfig) Token() string {
	if s.TokenEnv == "" {
		return ""
	}
	return os.Getenv(s.TokenEnv)
}

// EmailConfig describes the transactional email delivery API.
type EmailConfig struct {
	// Endpoint is the full URL notifications are POSTed to.
	Endpoint string `yaml:"endpoint"`

	// APIKeyEnv is the name of the environment variable holding the
	// email service API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// Sender is the "From" address on every notification.
	Sender string `yaml:"sender"`

	// Recipients receive every notification in a single message.
	Recipients []string `yaml:"recipients"`

	// Timeout bounds one send round-trip.
	Timeout time.Duration `yaml:"timeout"`
}

// APIKey returns the email API key resolved from the environment.
func (e EmailConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// AlertingConfig holds the filter and dispatch policy.
type AlertingConfig struct {
	// OriginAllowList restricts alerting to these origin identifiers.
	// Empty means every origin may alert.
	OriginAllowList []string `yaml:"origin_allow_list"`

	// CheckInterval is the initial lookback window on startup. It is not
	// a timer — checks are triggered externally.
	CheckInterval time.Duration `yaml:"check_interval"`

	// StrictDelivery makes any failed notification send fail the whole
	// check. When false (the default), delivery failures are counted and
	// reported but the check still succeeds.
	StrictDelivery bool `yaml:"strict_delivery"`
}

// HTTPConfig holds the trigger server settings.
type HTTPConfig struct {
	// Port is the port the trigger endpoint, metrics, and alert stream
	// listen on.
	Port int `yaml:"port"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			Table:   DefaultLogTable,
			Timeout: DefaultRequestTimeout,
		},
		Email: EmailConfig{
			Endpoint: DefaultEmailEndpoint,
			Timeout:  DefaultRequestTimeout,
		},
		Alerting: AlertingConfig{
			CheckInterval: DefaultCheckInterval,
		},
		HTTP: HTTPConfig{
			Port: DefaultHTTPPort,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Source.Endpoint == "" {
		return fmt.Errorf("source.endpoint is required")
	}
	if cfg.Source.ProjectRef == "" {
		return fmt.Errorf("source.project_ref is required")
	}
	if cfg.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	if cfg.Email.Endpoint == "" {
		return fmt.Errorf("email.endpoint is required")
	}
	if cfg.Email.Sender == "" {
		return fmt.Errorf("email.sender is required")
	}
	if _, err := mail.ParseAddress(cfg.Email.Sender); err != nil {
		return fmt.Errorf("email.sender %q: %w", cfg.Email.Sender, err)
	}
	if len(cfg.Email.Recipients) == 0 {
		return fmt.Errorf("email.recipients must list at least one address")
	}
	for i, r := range cfg.Email.Recipients {
		if _, err := mail.ParseAddress(r); err != nil {
			return fmt.Errorf("email.recipients[%d] %q: %w", i, r, err)
		}
	}
	if cfg.Email.Timeout <= 0 {
		return fmt.Errorf("email.timeout must be positive")
	}
	if cfg.Alerting.CheckInterval <= 0 {
		return fmt.Errorf("alerting.check_interval must be positive")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", cfg.HTTP.Port)
	}
	return nil
}
