package config

import "time"

// Application constants
const (
	AppName    = "Credit Loss Density Service"
	AppVersion = "1.2.0"

	// EnvPrefix namespaces every environment variable, e.g. CREDIT_SERVER_PORT.
	EnvPrefix = "CREDIT"

	// ConfigFileEnv names the variable pointing at an explicit YAML file.
	ConfigFileEnv = "CREDIT_CONFIG_FILE"

	// Server defaults
	DefaultPort            = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20

	// Rate limiting
	DefaultRateLimitRPS   = 100
	DefaultRateLimitBurst = 50

	// Density computation
	DefaultMaxBodyBytes = 64 << 10
	DefaultMaxNumU      = 1 << 16

	// Logging
	DefaultLogFile = "logs/app.log"
)
