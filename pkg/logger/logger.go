// Package logger builds the zap logger used across the service.
package logger

import "go.uber.org/zap"

// New constructs a production zap logger at the given level. The logger is
// passed to the components that need it rather than held as a global.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}
	return cfg.Build()
}
