package config

import "time"

// Application constants
const (
	AppName    = "salesinsight"
	AppVersion = "1.0.0"

	DefaultLogFile        = "logs/salesinsight.log"
	DefaultRequestTimeout = 2 * time.Minute

	// Analysis defaults
	DefaultTopN             = 10
	MaxTopN                 = 1000
	DefaultMaxUploadBytes   = 32 << 20
	DefaultMaxFiles         = 20
	DefaultParseConcurrency = 4
	DefaultSampleSize       = 5
	DefaultNumericThreshold = 0.6

	// API paths
	AnalyzePath    = "/analyze"
	APIAnalyzePath = "/api/analyze"
	HealthPath     = "/api/health"
	MetricsPath    = "/metrics"
)

// DefaultAllowedOrigins are the browser origins of the hosted frontend
var DefaultAllowedOrigins = []string{
	"https://know-you-eta.vercel.app",
	"https://know-you-m73y.onrender.com",
}
