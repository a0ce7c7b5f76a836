// Package dataprocessing turns uploaded sales files into a single analysed
// table. It reads CSV, XLSX, XLS and PDF tables, infers which columns hold
// prices, costs and quantities, derives revenue, cost and profit columns,
// and aggregates totals and the top rows by profit.
//
// # Architecture
//
// The package is organized into five stages:
//
// 1. Reader: decodes a file into a Table, one header row and typed cells
// 2. Classifier: finds role columns by keyword and numeric columns by sampling
// 3. Normalizer and GapFillProcessor: clean numbers and fill partial gaps
// 4. Derive: writes period or flat financial columns
// 5. Aggregator: drops empty columns, sums numeric columns, ranks by profit
//
// Analyzer runs stages 2 to 5 over the concatenation of all readable tables.
//
// # Usage
//
//	t, err := dataprocessing.ReadTable("csv", data)
//	if err != nil {
//	    return err
//	}
//	a := dataprocessing.NewAnalyzer(dataprocessing.DefaultNumericDetector, logger)
//	result, err := a.Analyze(ctx, []*dataprocessing.Table{t}, 10)
//
// # Data Flow
//
//	Files → Reader → Tables → Concat → Classify → Clean → Fill → Derive → Aggregate → AnalysisResult
//
// # Error Handling
//
// ReadTable returns ErrUnsupportedFormat for unknown extensions and wraps
// decoder failures. Analyze returns ErrNoReadableData when the merged table
// has no rows. Cleaning never fails: text that is not a number becomes 0.
package dataprocessing
