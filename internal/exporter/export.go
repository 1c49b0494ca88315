package exporter

import (
	"fmt"
	"log/slog"
)

// Export writes report to path in the given format and returns the files
// written.
func Export(path string, format Format, report *Report, logger *slog.Logger) ([]string, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(logger).WriteReport(path, report)
	case FormatXLSX:
		if err := NewXLSXWriter(logger).WriteReport(path, report); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
