package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Provider    ProviderConfig    `yaml:"provider" mapstructure:"provider"`
	Display     DisplayConfig     `yaml:"display" mapstructure:"display"`
	Scheduler   SchedulerConfig   `yaml:"scheduler" mapstructure:"scheduler"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Development DevelopmentConfig `yaml:"development" mapstructure:"development"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
	Auth            AuthConfig    `yaml:"auth" mapstructure:"auth"`
}

// AuthConfig protege los endpoints de administración (refresh y clear)
type AuthConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	HeaderName string `yaml:"header_name" mapstructure:"header_name"`
}

// RateLimitConfig limita requests por cliente a la API pública
type RateLimitConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Capacity   int     `yaml:"capacity" mapstructure:"capacity"`       // burst
	RefillRate float64 `yaml:"refill_rate" mapstructure:"refill_rate"` // requests per second
}

// CacheConfig contains the rate store configuration
type CacheConfig struct {
	Backend           string        `yaml:"backend" mapstructure:"backend"`
	TTL               time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Key               string        `yaml:"key" mapstructure:"key"`
	CoalesceRefreshes bool          `yaml:"coalesce_refreshes" mapstructure:"coalesce_refreshes"`
	Redis             RedisConfig   `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig contains Redis-specific configuration
type RedisConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	Password        string        `yaml:"password" mapstructure:"password"`
	DB              int           `yaml:"db" mapstructure:"db"`
	ConnectAttempts uint          `yaml:"connect_attempts" mapstructure:"connect_attempts"`
	ConnectDelay    time.Duration `yaml:"connect_delay" mapstructure:"connect_delay"`

	// Timeout aplica a dial, lectura y escritura; 0 usa los defaults de go-redis
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	PoolSize int           `yaml:"pool_size" mapstructure:"pool_size"`
}

// ProviderConfig contains the external rate provider configuration
type ProviderConfig struct {
	URL       string        `yaml:"url" mapstructure:"url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	Crypto    CryptoConfig  `yaml:"crypto" mapstructure:"crypto"`
}

// CryptoConfig contains the crypto price lookup configuration
type CryptoConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DisplayConfig contains what the display sinks render
type DisplayConfig struct {
	BaseCurrency string   `yaml:"base_currency" mapstructure:"base_currency"`
	Currencies   []string `yaml:"currencies" mapstructure:"currencies"`
	WebSocket    bool     `yaml:"websocket" mapstructure:"websocket"`
}

// SchedulerConfig contains the background refresh configuration
type SchedulerConfig struct {
	// Enabled reemplaza el chequeo "hay un elemento de display": se evalúa una sola vez al arrancar
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DevelopmentConfig contiene configuraciones para desarrollo y testing
type DevelopmentConfig struct {
	MockMode bool `yaml:"mock_mode" mapstructure:"mock_mode"`
}

// RefreshInterval returns the scheduler interval, defaulting to the cache TTL.
func (c *Config) RefreshInterval() time.Duration {
	if c.Scheduler.Interval > 0 {
		return c.Scheduler.Interval
	}
	return c.Cache.TTL
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"*"},
			Auth: AuthConfig{
				Enabled:    false,
				HeaderName: "X-API-Key",
			},
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     10 * time.Minute,
			Key:     "fxrates:rates:USD",
			Redis: RedisConfig{
				Addr:            "localhost:6379",
				DB:              0,
				ConnectAttempts: 3,
				ConnectDelay:    500 * time.Millisecond,
				Timeout:         2 * time.Second,
				PoolSize:        4,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:    true,
			Capacity:   100,
			RefillRate: 10,
		},
		Provider: ProviderConfig{
			URL:       "https://api.exchangerate-api.com/v4/latest/USD",
			Timeout:   10 * time.Second,
			UserAgent: "fx-rates-service/1.0",
			Crypto: CryptoConfig{
				Enabled: true,
				URL:     "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum&vs_currencies=usd",
				Timeout: 10 * time.Second,
			},
		},
		Display: DisplayConfig{
			BaseCurrency: "USD",
			Currencies:   []string{"EUR", "TRY"},
			WebSocket:    true,
		},
		Scheduler: SchedulerConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
