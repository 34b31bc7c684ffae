package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load loads configuration from files and environment variables
func (l *Loader) Load() (*Config, error) {
	l.setupViper()

	if err := l.v.ReadInConfig(); err != nil {
		// Si no existe config.yaml se usan solo env vars y defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	if err := NewValidator().Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFile loads a specific file instead of searching the default paths.
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	return l.Load()
}

func (l *Loader) setupViper() {
	if l.v.ConfigFileUsed() == "" {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")

		l.v.AddConfigPath("./configs")
		l.v.AddConfigPath("../configs")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("/etc/fx-rates")
	}

	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("FX_RATES") // FX_RATES_SERVER_PORT, FX_RATES_CACHE_TTL, ...
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars maps short environment variables to configuration keys
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"server.port":              "PORT",
		"server.auth.enabled":      "AUTH_ENABLED",
		"server.auth.api_key":      "API_KEY",
		"rate_limit.enabled":       "RATE_LIMIT_ENABLED",
		"rate_limit.capacity":      "RATE_LIMIT_CAPACITY",
		"rate_limit.refill_rate":   "RATE_LIMIT_REFILL_RATE",
		"cache.backend":            "CACHE_BACKEND",
		"cache.ttl":                "CACHE_TTL",
		"cache.key":                "CACHE_KEY",
		"cache.coalesce_refreshes": "CACHE_COALESCE_REFRESHES",
		"cache.redis.addr":         "REDIS_ADDR",
		"cache.redis.password":     "REDIS_PASSWORD",
		"cache.redis.db":           "REDIS_DB",
		"cache.redis.timeout":      "REDIS_TIMEOUT",
		"provider.url":             "PROVIDER_URL",
		"provider.timeout":         "PROVIDER_TIMEOUT",
		"provider.crypto.enabled":  "CRYPTO_ENABLED",
		"scheduler.enabled":        "SCHEDULER_ENABLED",
		"scheduler.interval":       "SCHEDULER_INTERVAL",
		"display.websocket":        "DISPLAY_WEBSOCKET",
		"logging.level":            "LOG_LEVEL",
		"logging.format":           "LOG_FORMAT",
		"development.mock_mode":    "MOCK_MODE",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, envVar)
	}
}

// overrideWithEnvVars maneja casos especiales de env vars
func (l *Loader) overrideWithEnvVars(config *Config) {
	// DISPLAY_CURRENCIES como string separado por comas
	if currenciesEnv := os.Getenv("DISPLAY_CURRENCIES"); currenciesEnv != "" {
		if codes := ParseCurrencyList(currenciesEnv); len(codes) > 0 {
			config.Display.Currencies = codes
		}
	}

	config.Display.BaseCurrency = strings.ToUpper(strings.TrimSpace(config.Display.BaseCurrency))
	config.Display.Currencies = ParseCurrencyList(strings.Join(config.Display.Currencies, ","))
}

// ParseCurrencyList splits a comma separated list, upper-cases and deduplicates it.
func ParseCurrencyList(raw string) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, code := range strings.Split(raw, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

// GetEnvironment determina el entorno actual desde ENV vars
func GetEnvironment() string {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = strings.ToLower(os.Getenv("ENVIRONMENT"))
	}
	if env == "" {
		env = "development"
	}
	return env
}
