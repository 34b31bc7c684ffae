package logging

import (
	"fmt"
	"sync"
)

// Loggers agrupa el logger base y los de cada dominio sobre la misma salida.
type Loggers struct {
	Base     Logger
	HTTP     HTTPLogger
	Provider ProviderLogger
	Store    StoreLogger
	Rates    RatesLogger
}

// NewLoggers crea el logger base desde config y deriva los de dominio.
func NewLoggers(config *LoggerConfig) (*Loggers, error) {
	base, err := NewStructuredLogger(config)
	if err != nil {
		return nil, err
	}
	return &Loggers{
		Base:     base,
		HTTP:     NewHTTPLogger(base),
		Provider: NewProviderLogger(base),
		Store:    NewStoreLogger(base),
		Rates:    NewRatesLogger(base),
	}, nil
}

var (
	globalMu sync.RWMutex
	global   *Loggers
)

// InitializeGlobalLoggers reemplaza el set global. main lo llama una vez al arrancar.
func InitializeGlobalLoggers(config *LoggerConfig) error {
	loggers, err := NewLoggers(config)
	if err != nil {
		return fmt.Errorf("initialize global loggers: %w", err)
	}
	globalMu.Lock()
	global = loggers
	globalMu.Unlock()
	return nil
}

// Global devuelve el set global; sin inicializar usa DefaultConfig.
func Global() *Loggers {
	globalMu.RLock()
	loggers := global
	globalMu.RUnlock()
	if loggers != nil {
		return loggers
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		// DefaultConfig siempre valida
		global, _ = NewLoggers(DefaultConfig())
	}
	return global
}
