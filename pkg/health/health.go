package health

import (
	"context"
	"time"
)

// DefaultCheckTimeout bounds a full round of checks.
const DefaultCheckTimeout = 5 * time.Second

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:      make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		started:     time.Now(),
		timeout:     DefaultCheckTimeout,
	}
}

// SetTimeout changes the deadline applied to each round of checks.
func (hc *HealthChecker) SetTimeout(d time.Duration) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.timeout = d
}

// RegisterCheck registers a health check
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
}

// RegisterReadinessCheck registers a readiness check
func (hc *HealthChecker) RegisterReadinessCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.readyChecks[name] = check
}

// Check performs all health checks
func (hc *HealthChecker) Check(ctx context.Context) Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	return hc.performChecks(ctx, hc.checks)
}

// CheckReadiness performs readiness checks
func (hc *HealthChecker) CheckReadiness(ctx context.Context) Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	return hc.performChecks(ctx, hc.readyChecks)
}

func (hc *HealthChecker) performChecks(ctx context.Context, checksMap map[string]CheckFunc) Response {
	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checksMap)),
		Uptime:    time.Since(hc.started).Seconds(),
	}

	for name, checkFunc := range checksMap {
		start := time.Now()
		check := checkFunc(ctx)
		if check.Name == "" {
			check.Name = name
		}
		check.Duration = time.Since(start)
		check.LastChecked = start

		response.Checks[name] = check

		// Worst status wins
		if check.Status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if check.Status == StatusDegraded && response.Status != StatusUnhealthy {
			response.Status = StatusDegraded
		}
	}

	return response
}
