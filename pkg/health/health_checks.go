package health

import (
	"context"
	"runtime"
	"time"
)

// SimpleCheck creates a check that always reports healthy
func SimpleCheck(name string) CheckFunc {
	return func(context.Context) Check {
		return Check{
			Name:        name,
			Status:      StatusHealthy,
			LastChecked: time.Now(),
		}
	}
}

// VocabularyCheck reports whether the vocabulary tables loaded.
// counts returns the number of role predicates and classes.
func VocabularyCheck(counts func() (roles, classes int, err error)) CheckFunc {
	return func(context.Context) Check {
		check := Check{
			Name:    "vocabulary",
			Details: make(map[string]any),
		}

		roles, classes, err := counts()
		if err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}

		check.Details["roles"] = roles
		check.Details["classes"] = classes
		if roles == 0 {
			check.Status = StatusUnhealthy
			check.Message = "No role predicates loaded"
		} else {
			check.Status = StatusHealthy
			check.Message = "Loaded"
		}
		return check
	}
}

// DependencyCheck wraps a ping of an optional dependency such as the
// conversion store or the archive bucket. A failing optional dependency
// degrades the service; conversions keep working without it.
func DependencyCheck(name string, optional bool, ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Name: name}

		if err := ping(ctx); err != nil {
			check.Message = err.Error()
			if optional {
				check.Status = StatusDegraded
			} else {
				check.Status = StatusUnhealthy
			}
			return check
		}

		check.Status = StatusHealthy
		check.Message = "Connected"
		return check
	}
}

// MemoryCheck reports heap usage relative to memory obtained from the OS.
func MemoryCheck() CheckFunc {
	return func(context.Context) Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		check.Details["alloc_bytes"] = ms.Alloc
		check.Details["sys_bytes"] = ms.Sys
		check.Details["goroutines"] = runtime.NumGoroutine()

		usagePercent := float64(ms.Alloc) / float64(ms.Sys) * 100
		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}
