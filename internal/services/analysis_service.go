package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"salesinsight/internal/config"
	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/infrastructure"
	"salesinsight/pkg/contracts/domain"
)

// Reasons a file contributed no rows
const (
	SkipUnsupportedFormat = "unsupported_format"
	SkipUnreadable        = "unreadable"
	SkipEmpty             = "empty"
)

// FileInput is one uploaded file
type FileInput struct {
	Name string
	Data []byte
}

// FileOutcome records what happened to one uploaded file
type FileOutcome struct {
	Name       string
	Format     string
	Rows       int
	SkipReason string
}

// Skipped reports whether the file contributed no rows
func (o FileOutcome) Skipped() bool {
	return o.SkipReason != ""
}

// AnalysisService decodes uploaded files and runs the analysis engine over them
type AnalysisService struct {
	reader   *dataprocessing.TableReader
	analyzer *dataprocessing.Analyzer
	cfg      config.AnalysisConfig
	metrics  *infrastructure.Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewAnalysisService creates the service. metrics may be nil.
func NewAnalysisService(cfg config.AnalysisConfig, metrics *infrastructure.Metrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ParseConcurrency <= 0 {
		cfg.ParseConcurrency = config.DefaultParseConcurrency
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = config.DefaultSampleSize
	}
	if cfg.NumericThreshold <= 0 {
		cfg.NumericThreshold = config.DefaultNumericThreshold
	}

	detector := dataprocessing.NumericDetector{
		SampleSize: cfg.SampleSize,
		Threshold:  cfg.NumericThreshold,
	}

	return &AnalysisService{
		reader:   dataprocessing.NewTableReader(logger),
		analyzer: dataprocessing.NewAnalyzer(detector, logger),
		cfg:      cfg,
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.MeterName),
		logger:   logger.With(slog.String("component", "analysis_service")),
	}
}

// Analyze returns the response payload for the uploaded files
func (s *AnalysisService) Analyze(ctx context.Context, files []FileInput, topN int) (*domain.AnalysisResult, error) {
	analysis, _, err := s.Run(ctx, files, topN)
	if err != nil {
		return nil, err
	}
	return analysis.Result, nil
}

// Run decodes files in parallel, then merges and analyses them in upload order.
// It also returns the per-file outcomes, in upload order.
func (s *AnalysisService) Run(ctx context.Context, files []FileInput, topN int) (*dataprocessing.Analysis, []FileOutcome, error) {
	if len(files) == 0 {
		return nil, nil, ErrNoFilesProvided
	}
	if s.cfg.MaxFiles > 0 && len(files) > s.cfg.MaxFiles {
		return nil, nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(files), s.cfg.MaxFiles)
	}
	if topN < 0 {
		topN = 0
	}

	ctx, span := s.tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(
			attribute.Int("analysis.files", len(files)),
			attribute.Int("analysis.top_n", topN),
		))
	defer span.End()

	start := time.Now()
	tables, outcomes, err := s.readAll(ctx, files)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordAnalysis(ctx, "cancelled", time.Since(start), 0)
		return nil, nil, err
	}

	analysis, err := s.analyzer.Run(ctx, tables, topN)
	switch {
	case errors.Is(err, dataprocessing.ErrNoReadableData):
		s.metrics.RecordAnalysis(ctx, "no_data", time.Since(start), 0)
		s.logger.WarnContext(ctx, "no uploaded file contained rows", slog.Int("files", len(files)))
		return nil, outcomes, err
	case err != nil:
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordAnalysis(ctx, "error", time.Since(start), 0)
		return nil, outcomes, fmt.Errorf("analysis failed: %w", err)
	}

	s.metrics.RecordAnalysis(ctx, "ok", time.Since(start), analysis.Result.Rows)
	span.SetAttributes(
		attribute.Int("analysis.rows", analysis.Result.Rows),
		attribute.String("analysis.mode", string(analysis.Result.DetectedColumns.Mode)),
	)

	return analysis, outcomes, nil
}

// readAll decodes every file with at most ParseConcurrency workers. Tables keep
// the upload order; files that cannot contribute rows leave a nil slot.
func (s *AnalysisService) readAll(ctx context.Context, files []FileInput) ([]*dataprocessing.Table, []FileOutcome, error) {
	tables := make([]*dataprocessing.Table, len(files))
	outcomes := make([]FileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ParseConcurrency)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tables[i], outcomes[i] = s.readOne(gctx, f)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return tables, outcomes, nil
}

func (s *AnalysisService) readOne(ctx context.Context, f FileInput) (*dataprocessing.Table, FileOutcome) {
	outcome := FileOutcome{Name: f.Name, Format: dataprocessing.FormatFromFilename(f.Name)}

	t, err := s.reader.Read(f.Name, f.Data)
	switch {
	case errors.Is(err, dataprocessing.ErrUnsupportedFormat):
		outcome.SkipReason = SkipUnsupportedFormat
	case err != nil:
		outcome.SkipReason = SkipUnreadable
	case t.Empty():
		outcome.SkipReason = SkipEmpty
	default:
		outcome.Rows = t.Rows()
	}

	format := outcome.Format
	if !dataprocessing.IsSupportedFormat(format) {
		format = "other"
	}
	s.metrics.RecordFile(ctx, format, int64(len(f.Data)), outcome.SkipReason)

	if outcome.Skipped() {
		infrastructure.AddSpanEvent(ctx, "file.skipped",
			attribute.String("file", f.Name),
			attribute.String("reason", outcome.SkipReason))
		s.logger.InfoContext(ctx, "file skipped",
			slog.String("file", f.Name),
			slog.String("reason", outcome.SkipReason))
		return nil, outcome
	}
	return t, outcome
}

// selfCheckCSV is a minimal sales sheet exercising the flat derivation path
var selfCheckCSV = []byte("Item,Unit Price,COGS,Qty\nPen,3,1,2\n")

// SelfCheck runs the engine over a built-in sheet and verifies the derived profit
func (s *AnalysisService) SelfCheck(ctx context.Context) error {
	t, err := dataprocessing.ReadTable(dataprocessing.FormatCSV, selfCheckCSV)
	if err != nil {
		return fmt.Errorf("reader: %w", err)
	}
	analysis, err := s.analyzer.Run(ctx, []*dataprocessing.Table{t}, 1)
	if err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}
	profit, ok := analysis.Result.ColumnTotals.Get("profit")
	if !ok || profit != 4.0 {
		return fmt.Errorf("unexpected self-check profit %v", profit)
	}
	return nil
}
