// Package app wires the credit loss density service together: configuration,
// logging, OpenTelemetry, services, HTTP routing and graceful shutdown.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config.yaml and CREDIT_* variables
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Create the business metrics and the density and health services
//	4. Build the chi router and its middleware chain
//	5. Start the HTTP server after the readiness check succeeds
//	6. Shut down on SIGINT or SIGTERM
//
// # Usage
//
//	app, err := app.NewApplication(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
