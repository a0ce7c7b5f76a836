// Package files discovers sales files on disk for the command line tools.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	inputs, err := discovery.Expand([]string{"q1.xlsx", "exports/"})
//	// q1.xlsx first, then the csv/xlsx/xls/pdf files of exports/ by name
package files
