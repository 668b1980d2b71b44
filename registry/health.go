package registry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cgslivre/flight/component"
)

// DefaultHealthCheckTimeout bounds a HealthCheck pass when the caller
// passes no timeout.
const DefaultHealthCheckTimeout = 5 * time.Second

// HealthCheck runs the health check of every registered component that
// exposes one, concurrently, under a shared timeout. Components implement
// component.HealthChecker directly or hand one out through
// component.HealthCheckProvider; everything else is skipped.
//
// The result maps checker name to its error. A nil error means healthy;
// a checker that outlives the timeout reports the context error.
func (r *Registry) HealthCheck(ctx context.Context, timeout time.Duration) map[string]error {
	if timeout <= 0 {
		timeout = DefaultHealthCheckTimeout
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checkers := r.collectCheckers(ctx)

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(checkers))

	for _, checker := range checkers {
		go func(c component.HealthChecker) {
			results <- result{
				name: c.Name(),
				err:  c.Check(checkCtx),
			}
		}(checker)
	}

	out := make(map[string]error, len(checkers))
	for range checkers {
		res := <-results
		out[res.name] = res.err
	}

	return out
}

// collectCheckers discovers the health checkers of registered components.
func (r *Registry) collectCheckers(ctx context.Context) []component.HealthChecker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkers := make([]component.HealthChecker, 0, len(r.components))
	for _, comp := range r.components {
		switch c := comp.(type) {
		case component.HealthChecker:
			checkers = append(checkers, c)
		case component.HealthCheckProvider:
			if checker := c.GetHealthChecker(); checker != nil {
				checkers = append(checkers, checker)
			}
		default:
			continue
		}
		r.logDebug(ctx, "Discovered health checker", zap.String("component", comp.Name()))
	}

	return checkers
}
