// Package app wires the sales analysis service into an HTTP application and
// manages its lifecycle.
//
// # Initialization Flow
//
// NewApplication takes a validated configuration and a logger, then:
//
//	1. Initializes OpenTelemetry (Prometheus metrics, optional stdout traces)
//	2. Creates the analysis and health services
//	3. Builds the chi router with the middleware chain and routes
//	4. Configures the HTTP server
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM. In-flight requests get the configured
// shutdown timeout to finish, then the telemetry providers are flushed.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never calls
// os.Exit, so main controls the exit code.
package app
