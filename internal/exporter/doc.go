// Package exporter writes the enriched working table of an analysis, after
// financial columns were derived, to CSV or Excel.
//
// CSVWriter writes a header row and one record per row, with an optional UTF-8
// BOM so Excel detects the encoding. XLSXWriter writes a Data sheet and, when
// the analysis result is given, a Summary sheet with the column totals.
//
// Example usage:
//
//	analysis, _, err := svc.Run(ctx, files, 10)
//	if err != nil {
//	    return err
//	}
//	err = exporter.NewExporter(logger).ExportFile("out/sales.xlsx", analysis)
package exporter
