package services

import (
	"context"
	"fmt"

	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/localnerve/campus-market/internal/utils"
	"go.uber.org/zap"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Store        string            `json:"store"`
	Authorizer   string            `json:"authorizer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service. Serving
// bundled listings without a persistent store is reported as degraded.
func HealthCheck(ctx context.Context, cfg *config.Config, s store.Store, status store.Status, log *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	result.Details["store_type"] = s.Name()
	if err := s.Ping(ctx); err != nil {
		result.Status = "degraded"
		result.Store = "unreachable"
		result.Details["store_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Store ping failed: %v", err)
		log.Warn("Health check - store ping failed", zap.Error(err))
	} else {
		result.Store = "ok"
	}
	if status.UsingFallback {
		result.Details["listings"] = "fallback"
	}

	// Check Authorizer connectivity
	if cfg.AuthzURL == "" {
		result.Authorizer = "disabled"
	} else if err := utils.PingAuthorizer(ctx, cfg.AuthzURL); err != nil {
		result.Status = "unhealthy"
		result.Authorizer = "unreachable"
		result.Details["authorizer_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Authorizer ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; Authorizer ping failed: %v", err)
		}
		log.Error("Health check failed - authorizer ping", zap.Error(err))
	} else {
		result.Authorizer = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	// The listing cache is optional, losing it only costs latency
	if cfg.RedisAddr != "" {
		if err := utils.PingAddr(ctx, cfg.RedisAddr); err != nil {
			result.Details["cache"] = "unreachable"
			if result.Status == "healthy" {
				result.Status = "degraded"
			}
			log.Warn("Health check - redis ping failed", zap.Error(err))
		} else {
			result.Details["cache"] = "ok"
		}
	}

	if result.Status == "healthy" {
		log.Debug("Health check passed - all systems operational")
	}

	return result
}
