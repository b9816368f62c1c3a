package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a zap logger appropriate for the environment: human-readable
// console output for local development, JSON for everything else.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "local", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
