// Package config loads the service configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//	1. Default()
//	2. A YAML file: $SALESINSIGHT_CONFIG, config.yaml or configs/config.yaml
//	3. Environment variables, after loading .env when one exists
//
// # Environment Variables
//
// Every variable is prefixed with SALESINSIGHT_ and follows the struct path:
//
//	SALESINSIGHT_SERVER_PORT=8000
//	SALESINSIGHT_SECURITY_ALLOWED_ORIGINS=https://a.example,https://b.example
//	SALESINSIGHT_LOGGING_LEVEL=debug
//	SALESINSIGHT_ANALYSIS_DEFAULT_TOP_N=10
//	SALESINSIGHT_ANALYSIS_PARSE_CONCURRENCY=4
//
// Load validates the result; an out-of-range value is an error rather than
// being silently clamped.
package config
