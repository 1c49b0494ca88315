// Package exporter writes loss density reports to disk.
//
// CSVWriter emits atPoint,density rows and, when risk measures are present,
// a sibling "_risk" file with the portfolio parameters and the measures.
// XLSXWriter emits one workbook with Density, Parameters and Risk sheets.
//
// Example usage:
//
//	report := &exporter.Report{Parameters: params, Elements: result.Elements(), GeneratedAt: time.Now()}
//	files, err := exporter.Export("out/density.xlsx", exporter.FormatXLSX, report, logger)
package exporter
