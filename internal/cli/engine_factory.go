package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/randomart"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/observability"
)

// CreateEngine initializes a randomart engine with standard CLI conventions:
// the given logger, debug-level lifecycle logging, and optional extra hooks (metrics).
func CreateEngine(logger *slog.Logger, workers int, extra ...domain.LifecycleHooks) (*randomart.Engine, error) {
	hooks := observability.LogHooks(logger)
	for _, h := range extra {
		hooks = hooks.Merge(h)
	}

	engine, err := randomart.New(
		randomart.WithLogger(logger),
		randomart.WithLifecycleHooks(hooks),
		randomart.WithWorkers(workers),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
