// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage builds sales fixtures (CSV, XLSX, multipart
// uploads) and captures slog output in tests.
package shared
