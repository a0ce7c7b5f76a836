// Package services implements the business logic layer between the HTTP
// handlers and the analysis engine in internal/dataprocessing.
//
// # Available Services
//
//	- AnalysisService: decodes uploaded files and runs the analysis engine
//	- HealthService: liveness, readiness checks and version information
//
// # Analysis Flow
//
// AnalysisService.Run accepts the uploaded files in order. Files are decoded
// concurrently, bounded by AnalysisConfig.ParseConcurrency, but each decoded
// table keeps its upload slot, so merging, classification, derivation and
// aggregation always see the files in the order they were sent:
//
//	svc := services.NewAnalysisService(cfg.Analysis, metrics, logger)
//	result, err := svc.Analyze(ctx, []services.FileInput{{Name: "q1.csv", Data: data}}, 10)
//	if errors.Is(err, dataprocessing.ErrNoReadableData) {
//	    // every file was skipped or empty
//	}
//
// A file that cannot contribute rows is skipped, never fatal. Its reason
// (unsupported_format, unreadable, empty) is logged, recorded on the active
// span and counted in analysis_files_skipped_total.
//
// # Error Handling
//
// Services return sentinel errors wrapped with %w that handlers translate:
//
//	- ErrNoFilesProvided: the request carried no files
//	- ErrTooManyFiles: more files than AnalysisConfig.MaxFiles
//	- dataprocessing.ErrNoReadableData: nothing to analyse
//	- context errors when the request is cancelled mid-decode
package services
