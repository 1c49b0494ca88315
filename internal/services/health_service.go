package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"creditdensity/internal/creditrisk"
	"creditdensity/pkg/contracts"
)

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// readinessParameters is a small portfolio whose density must come out finite
var readinessParameters = creditrisk.PortfolioParameters{
	Lambda:     0.05,
	Q:          0.05,
	NumU:       16,
	PD:         0.02,
	NumLoans:   1000,
	Volatility: 0.3,
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	density   *DensityService
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service. density may be nil, in which
// case readiness reports the pipeline as unavailable.
func NewHealthService(version string, density *DensityService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		density:   density,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs a small density computation and reports whether the
// pipeline produced a finite density.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]ServiceHealth{"density": hs.checkDensity(ctx)},
	}

	for _, sh := range status.Services {
		if sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"cpus":       runtime.NumCPU(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"prerelease":   contracts.IsPrerelease(),
		"api_version":  info.APIVersion,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkDensity(ctx context.Context) ServiceHealth {
	if hs.density == nil {
		return ServiceHealth{Status: "not_ready", Message: "density pipeline not configured"}
	}

	result, err := hs.density.compute(ctx, readinessParameters, computeOptions{})
	if err != nil {
		hs.logger.WarnContext(ctx, "readiness check failed", slog.String("error", err.Error()))
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	if result.NonFinite > 0 {
		hs.logger.WarnContext(ctx, "readiness computation produced non-finite density",
			slog.Int("non_finite", result.NonFinite))
		return ServiceHealth{Status: "not_ready", Message: "readiness density is not finite"}
	}

	return ServiceHealth{Status: "ready"}
}
