// salesinsight analyze - offline sales file analysis
//
// Usage:
//
//	analyze run --top-n 5 q1.xlsx q2.csv
//	analyze run --export out/enriched.xlsx exports/
//	analyze selfcheck
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"salesinsight/internal/config"
	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/exporter"
	"salesinsight/internal/files"
	"salesinsight/internal/infrastructure"
	"salesinsight/internal/services"
	"salesinsight/internal/validation"
	"salesinsight/pkg/contracts"
	"salesinsight/pkg/contracts/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "analyze",
		Usage:     "Analyse sales exports (csv, xlsx, xls, pdf) from the command line",
		Version:   contracts.GetFullVersionString(),
		Writer:    stdout,
		ErrWriter: stderr,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{config.EnvPrefix + "_LOGGING_LEVEL"},
			},
		},

		Before: func(c *cli.Context) error {
			c.App.Metadata = map[string]interface{}{
				"logger": infrastructure.WithComponent(
					infrastructure.NewLoggerWithWriter(stderr, c.String("log-level")), "cli"),
			}
			return nil
		},

		Commands: []*cli.Command{
			runCommand(),
			selfCheckCommand(),
		},
	}
}

func loggerFrom(c *cli.Context) *slog.Logger {
	if logger, ok := c.App.Metadata["logger"].(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// =============================================================================
// RUN COMMAND
// =============================================================================

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Analyse files and directories, printing the JSON result",
		ArgsUsage: "FILE|DIR...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "top-n",
				Aliases: []string{"n"},
				Value:   config.DefaultTopN,
				Usage:   "Number of top items to report",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"o"},
				Usage:   "Write the enriched table to this .csv or .xlsx file",
			},
			&cli.Int64Flag{
				Name:    "max-file-bytes",
				Value:   config.DefaultMaxUploadBytes,
				Usage:   "Reject input files larger than this (0 disables the check)",
				EnvVars: []string{config.EnvPrefix + "_ANALYSIS_MAX_UPLOAD_BYTES"},
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: config.DefaultParseConcurrency,
				Usage: "Files decoded in parallel",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Indent the JSON output",
			},
		},
		Action: runAnalysis,
	}
}

func runAnalysis(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one file or directory is required")
	}

	topN := c.Int("top-n")
	if topN < 0 {
		return fmt.Errorf("--top-n must be >= 0, got %d", topN)
	}

	exportPath := c.String("export")
	if exportPath != "" {
		if _, err := exporter.FormatFromPath(exportPath); err != nil {
			return err
		}
	}

	// every log line of one run shares a trace ID. The service logs with ctx,
	// the validator and exporter through the annotated logger.
	ctx := infrastructure.EnsureTraceID(c.Context)
	logger := infrastructure.LoggerWithContext(ctx, loggerFrom(c))
	validator := validation.NewFileValidator(c.Int64("max-file-bytes"), logger)

	found, err := files.NewDiscovery("").Expand(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return errors.New("no sales files found")
	}

	inputs := make([]services.FileInput, 0, len(found))
	for _, f := range found {
		if err := validator.ValidateFile(f.Path); err != nil {
			return err
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Path, err)
		}
		inputs = append(inputs, services.FileInput{Name: f.Name, Data: data})
	}

	svc := services.NewAnalysisService(config.AnalysisConfig{
		ParseConcurrency: c.Int("concurrency"),
	}, nil, loggerFrom(c))

	analysis, outcomes, err := svc.Run(ctx, inputs, topN)
	for _, o := range outcomes {
		if o.Skipped() {
			fmt.Fprintf(c.App.ErrWriter, "skipped %s: %s\n", o.Name, o.SkipReason)
		}
	}

	if errors.Is(err, dataprocessing.ErrNoReadableData) {
		return writeJSON(c, domain.ErrorPayload{Error: domain.NoReadableDataMessage})
	}
	if err != nil {
		return err
	}

	if err := writeJSON(c, analysis.Result); err != nil {
		return err
	}

	if exportPath == "" {
		return nil
	}
	if err := validator.ValidateOutputDirectory(filepath.Dir(exportPath)); err != nil {
		return err
	}
	return exporter.NewExporter(logger).ExportFile(exportPath, analysis)
}

func writeJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// =============================================================================
// SELFCHECK COMMAND
// =============================================================================

func selfCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "selfcheck",
		Usage: "Run a built-in sample through the analysis pipeline",
		Action: func(c *cli.Context) error {
			svc := services.NewAnalysisService(config.AnalysisConfig{}, nil, loggerFrom(c))
			if err := svc.SelfCheck(c.Context); err != nil {
				return fmt.Errorf("self check failed: %w", err)
			}
			fmt.Fprintln(c.App.Writer, "ok")
			return nil
		},
	}
}
