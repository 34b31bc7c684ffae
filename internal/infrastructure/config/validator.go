package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	minCacheTTL       = time.Second
	maxCacheTTL       = 24 * time.Hour
	minRefreshPeriod  = time.Second
	maxProviderWait   = 2 * time.Minute
	currencyCodeWidth = 3
)

// Validator valida la configuración cargada
type Validator struct{}

// NewValidator crea una nueva instancia del validador
func NewValidator() *Validator {
	return &Validator{}
}

// Validate valida toda la configuración
func (v *Validator) Validate(config *Config) error {
	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateCache(config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := v.validateRateLimit(config.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := v.validateProvider(config.Provider, config.Development.MockMode); err != nil {
		return fmt.Errorf("provider config validation failed: %w", err)
	}

	if err := v.validateDisplay(config.Display); err != nil {
		return fmt.Errorf("display config validation failed: %w", err)
	}

	if err := v.validateScheduler(config.Scheduler); err != nil {
		return fmt.Errorf("scheduler config validation failed: %w", err)
	}

	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

// validateServer valida la configuración del servidor
func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}

	if config.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("shutdown_timeout too long: %v, max 5 minutes", config.ShutdownTimeout)
	}

	if config.Auth.Enabled {
		if config.Auth.APIKey == "" {
			return fmt.Errorf("auth.api_key is required when auth is enabled")
		}
		if config.Auth.HeaderName == "" {
			return fmt.Errorf("auth.header_name cannot be empty when auth is enabled")
		}
	}

	return nil
}

// validateRateLimit valida la configuración de rate limiting
func (v *Validator) validateRateLimit(config RateLimitConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Capacity <= 0 {
		return fmt.Errorf("rate_limit capacity must be positive when enabled, got: %d", config.Capacity)
	}
	if config.RefillRate <= 0 {
		return fmt.Errorf("rate_limit refill_rate must be positive when enabled, got: %v", config.RefillRate)
	}
	if config.Capacity > 10000 {
		return fmt.Errorf("rate_limit capacity too high: %d, max 10000", config.Capacity)
	}
	if config.RefillRate > 1000 {
		return fmt.Errorf("rate_limit refill_rate too high: %v, max 1000", config.RefillRate)
	}

	return nil
}

// validateCache valida la configuración del cache
func (v *Validator) validateCache(config CacheConfig) error {
	validBackends := []string{"memory", "redis"}
	if !contains(validBackends, config.Backend) {
		return fmt.Errorf("invalid cache backend: %s, must be one of: %v", config.Backend, validBackends)
	}

	if err := v.validateTTL(config.TTL); err != nil {
		return err
	}

	if strings.TrimSpace(config.Key) == "" {
		return fmt.Errorf("cache key cannot be empty")
	}

	// Validar Redis config si se usa Redis
	if strings.EqualFold(config.Backend, "redis") {
		if err := v.validateRedis(config.Redis); err != nil {
			return err
		}
	}

	return nil
}

// validateTTL falla rápido ante TTLs que harían inútil el cache
func (v *Validator) validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %v", ttl)
	}

	if ttl < minCacheTTL {
		return fmt.Errorf("cache TTL too short: %v, min %v", ttl, minCacheTTL)
	}

	if ttl > maxCacheTTL {
		return fmt.Errorf("cache TTL too long: %v, max 24 hours", ttl)
	}

	return nil
}

// validateRedis valida la configuración de Redis
func (v *Validator) validateRedis(config RedisConfig) error {
	if config.Addr == "" {
		return fmt.Errorf("redis addr cannot be empty")
	}

	// Validar formato de dirección
	if !strings.Contains(config.Addr, ":") {
		return fmt.Errorf("invalid redis addr format: %s, expected host:port", config.Addr)
	}

	if config.DB < 0 || config.DB > 15 {
		return fmt.Errorf("invalid redis DB: %d, must be between 0-15", config.DB)
	}

	if config.ConnectAttempts == 0 {
		return fmt.Errorf("redis connect_attempts must be at least 1")
	}

	if config.Timeout < 0 || config.PoolSize < 0 {
		return fmt.Errorf("redis timeout and pool_size cannot be negative")
	}

	return nil
}

// validateProvider valida el endpoint de tasas y el de crypto.
// En mock_mode la URL del proveedor no se usa.
func (v *Validator) validateProvider(config ProviderConfig, mockMode bool) error {
	if !mockMode {
		if err := v.validateURL(config.URL, "provider url"); err != nil {
			return err
		}
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got: %v", config.Timeout)
	}

	if config.Timeout > maxProviderWait {
		return fmt.Errorf("provider timeout too long: %v, max %v", config.Timeout, maxProviderWait)
	}

	if config.Crypto.Enabled {
		if err := v.validateURL(config.Crypto.URL, "crypto url"); err != nil {
			return err
		}
		if config.Crypto.Timeout <= 0 {
			return fmt.Errorf("crypto timeout must be positive, got: %v", config.Crypto.Timeout)
		}
	}

	return nil
}

// validateDisplay valida los códigos de moneda a mostrar
func (v *Validator) validateDisplay(config DisplayConfig) error {
	if !isCurrencyCode(config.BaseCurrency) {
		return fmt.Errorf("invalid base_currency: %q, expected a 3-letter code", config.BaseCurrency)
	}

	if len(config.Currencies) == 0 {
		return fmt.Errorf("currencies cannot be empty")
	}

	var invalid []string
	for _, code := range config.Currencies {
		if !isCurrencyCode(code) {
			invalid = append(invalid, code)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid currency codes: %v, expected 3-letter codes", invalid)
	}

	return nil
}

// validateScheduler valida el intervalo de refresco; 0 significa "usar el TTL"
func (v *Validator) validateScheduler(config SchedulerConfig) error {
	if config.Interval < 0 {
		return fmt.Errorf("scheduler interval cannot be negative, got: %v", config.Interval)
	}

	if config.Interval > 0 && config.Interval < minRefreshPeriod {
		return fmt.Errorf("scheduler interval too short: %v, min %v", config.Interval, minRefreshPeriod)
	}

	return nil
}

// validateLogging valida la configuración de logging
func (v *Validator) validateLogging(config LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(config.Level)) {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(config.Format)) {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}

// validateURL valida que una URL sea válida para HTTP/HTTPS
func (v *Validator) validateURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %s, error: %v", fieldName, rawURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %s, must be http or https", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", fieldName)
	}

	return nil
}

func isCurrencyCode(code string) bool {
	if len(code) != currencyCodeWidth {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// contains verifica si un slice contiene un elemento
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
