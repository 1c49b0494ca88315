// Package services implements the business logic behind the HTTP handlers
// and the report CLI.
//
// DensityService owns the numerical pipeline. It turns PortfolioParameters
// into a loss density on creditrisk.NumX points and, on request, into risk
// measures. Every computation is traced, timed and counted through the
// infrastructure metrics.
//
// HealthService answers liveness, readiness and version checks. Readiness
// runs a small computation through the same pipeline.
//
// Services take a *slog.Logger by injection and tag it with a component
// attribute. Errors that must reach clients with a specific status are
// returned as internal/errors types; everything else is wrapped with %w.
package services
