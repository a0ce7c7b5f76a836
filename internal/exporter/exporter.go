package exporter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"salesinsight/internal/dataprocessing"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedExportFormat is returned for file extensions other than csv and xlsx
var ErrUnsupportedExportFormat = errors.New("unsupported export format")

// Exporter writes the enriched working table of an analysis to disk
type Exporter struct {
	csv    *CSVWriter
	xlsx   *XLSXWriter
	logger *slog.Logger
}

// NewExporter creates an exporter. CSV output carries a UTF-8 BOM.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		csv:    NewCSVWriter(WriteOptions{BOMPrefix: true}),
		xlsx:   NewXLSXWriter(),
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// FormatFromPath returns the export format implied by the file extension
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatCSV, FormatXLSX:
		return ext, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, ext)
}

// Export writes the analysis table in the given format
func (e *Exporter) Export(out io.Writer, format string, analysis *dataprocessing.Analysis) error {
	if analysis == nil || analysis.Table == nil {
		return errors.New("nothing to export")
	}

	switch format {
	case FormatCSV:
		return e.csv.WriteTable(out, analysis.Table)
	case FormatXLSX:
		return e.xlsx.WriteTable(out, analysis.Table, analysis.Result)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, format)
}

// ExportFile writes the analysis table to path, choosing the format from its extension
func (e *Exporter) ExportFile(path string, analysis *dataprocessing.Analysis) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := e.Export(file, format, analysis); err != nil {
		return err
	}

	e.logger.Info("Exported analysis table",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("rows", analysis.Table.Rows()),
		slog.Int("columns", len(analysis.Table.Columns())))
	return nil
}
