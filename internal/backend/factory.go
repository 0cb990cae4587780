package backend

import (
	"github.com/hugo-lorenzo-mato/scholarmind/internal/config"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// NewFromConfig builds an invoker over the configured primary and backup
// backends. When no backend is configured it returns nil, which signals the
// stages to run their heuristic path.
func NewFromConfig(cfg *config.Config, log *logging.Logger) *Invoker {
	resolver := config.NewResolver(cfg.Backends)

	primary, err := resolver.Resolve("primary")
	if err != nil {
		log.Info("no primary backend configured, analysis will use heuristics")
		return nil
	}

	var backup core.Backend
	if resolved, err := resolver.Resolve("backup"); err == nil {
		backup = NewOpenAIBackend(resolved)
	}

	policy := NewRetryPolicy(
		WithMaxAttempts(cfg.Retry.MaxAttempts),
		WithBaseDelay(cfg.Retry.BaseDelay),
		WithMaxDelay(cfg.Retry.MaxDelay),
		WithMultiplier(cfg.Retry.Multiplier),
	)

	return NewInvoker(NewOpenAIBackend(primary), Options{
		Backup:         backup,
		Policy:         policy,
		AttemptTimeout: cfg.Pipeline.StageTimeout,
		Logger:         log,
	})
}
