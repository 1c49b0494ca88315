// Package config provides configuration management for the credit loss
// density service.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file: $CREDIT_CONFIG_FILE, config.yaml or configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern CREDIT_<SECTION>_<KEY>:
//
//	CREDIT_SERVER_PORT=8080
//	CREDIT_SERVER_REQUEST_TIMEOUT=30s
//	CREDIT_SECURITY_ALLOWED_ORIGINS=https://risk.example.com,https://ops.example.com
//	CREDIT_LOGGING_LEVEL=debug
//	CREDIT_DENSITY_WORKERS=8
//	CREDIT_TELEMETRY_ENABLE_TRACING=true
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests can start from config.Default() without touching the environment.
package config
