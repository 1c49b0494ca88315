// Package http implements the HTTP handlers of the credit loss density
// service. Handlers only decode, validate and encode; the numerical work
// lives in internal/services.
//
// Routes:
//
//	POST /api/v1/density        six portfolio parameters → [{density, atPoint}]
//	POST /api/v1/density/risk   same plus optional alpha → density and measures
//	GET  /api/health            liveness summary
//	GET  /api/health/live       runtime details
//	GET  /api/health/ready      sample computation, 503 when it fails
//	GET  /api/version           build information
//	GET  /metrics               Prometheus exposition
//
// Malformed or incomplete bodies are answered with RFC 7807 problem
// documents carrying an error_code of INVALID_REQUEST or VALIDATION_FAILED.
package http
