package dataprocessing

import (
	"context"
	"errors"
	"log/slog"

	"salesinsight/pkg/contracts/domain"
)

var (
	// ErrNoReadableData is returned when none of the inputs contributed a row
	ErrNoReadableData = errors.New(domain.NoReadableDataMessage)
	// ErrUnsupportedFormat is returned by ReadTable for unknown extensions
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Analyzer runs the full inference and derivation pipeline over a set of tables
type Analyzer struct {
	classifier *Classifier
	gapFiller  *GapFillProcessor
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(detector NumericDetector, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		classifier: NewClassifier(detector),
		gapFiller:  NewGapFillProcessor(),
		aggregator: NewAggregator(detector),
		logger:     logger.With(slog.String("component", "analyzer")),
	}
}

// Analysis holds the response payload and the enriched working table
type Analysis struct {
	Result *domain.AnalysisResult
	Table  *Table
}

// Analyze merges the tables and returns the response payload
func (a *Analyzer) Analyze(ctx context.Context, tables []*Table, topN int) (*domain.AnalysisResult, error) {
	analysis, err := a.Run(ctx, tables, topN)
	if err != nil {
		return nil, err
	}
	return analysis.Result, nil
}

// Run merges the tables, cleans and derives financial columns, and aggregates.
// The merged table is owned by this call and returned for export.
func (a *Analyzer) Run(ctx context.Context, tables []*Table, topN int) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := Concat(tables...)
	if t.Empty() {
		a.logger.WarnContext(ctx, "no readable data in inputs", slog.Int("inputs", len(tables)))
		return nil, ErrNoReadableData
	}

	c := a.classifier.Classify(t)
	a.logger.DebugContext(ctx, "columns classified",
		slog.String("unit_price", c.UnitPrice),
		slog.String("cost", c.Cost),
		slog.String("quantity", c.Quantity),
		slog.Int("numeric_columns", len(c.Numeric)))

	for _, idx := range c.Numeric {
		t.CleanColumn(idx)
	}
	for _, idx := range c.RoleColumns() {
		t.CleanColumn(idx)
	}

	stats := a.gapFiller.FillPartialGaps(t)
	if stats.CellsFilled > 0 {
		a.logger.DebugContext(ctx, "partial gaps filled",
			slog.Int("numeric_columns", stats.NumericFilled),
			slog.Int("text_columns", stats.TextFilled),
			slog.Int("cells", stats.CellsFilled))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := Derive(t, c)
	a.logger.InfoContext(ctx, "financial columns derived",
		slog.String("mode", string(report.Mode.Name())),
		slog.Any("periods", report.Periods()),
		slog.Any("written", report.Written))

	summary := a.aggregator.Aggregate(t, topN)

	detected := c.Detected()
	detected.Mode = report.Mode.Name()
	detected.Periods = nonNil(report.Periods())
	detected.Derived = nonNil(report.Written)

	result := &domain.AnalysisResult{
		Rows:            t.Rows(),
		Columns:         t.Columns(),
		ColumnTotals:    summary.Totals,
		TopItems:        summary.TopItems,
		DetectedColumns: detected,
	}

	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("rows", result.Rows),
		slog.Int("columns", len(result.Columns)),
		slog.Int("dropped_columns", len(summary.Dropped)),
		slog.String("profit_column", summary.ProfitColumn),
		slog.Int("top_items", len(result.TopItems)))

	return &Analysis{Result: result, Table: t}, nil
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
