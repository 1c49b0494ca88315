package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to filePath, creating parent
// directories as needed.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := writeCSV(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeCSV(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteDensity streams the density as atPoint,density rows
func (w *CSVWriter) WriteDensity(out io.Writer, report *Report) error {
	return writeCSV(out, WriteOptions{Headers: densityHeaders, Records: report.densityRecords()})
}

// WriteReport writes the density to filePath. When the report carries risk
// measures they go to a sibling file with a "_risk" suffix. It returns the
// paths written.
func (w *CSVWriter) WriteReport(filePath string, report *Report) ([]string, error) {
	if err := w.WriteCSV(filePath, WriteOptions{
		Headers: densityHeaders,
		Records: report.densityRecords(),
	}); err != nil {
		return nil, fmt.Errorf("write density: %w", err)
	}
	written := []string{filePath}

	if report.Measures == nil {
		return written, nil
	}

	riskPath := RiskPath(filePath)
	if err := w.WriteCSV(riskPath, WriteOptions{
		Headers: measureHeaders,
		Records: append(report.parameterRecords(), report.measureRecords()...),
	}); err != nil {
		return nil, fmt.Errorf("write risk measures: %w", err)
	}
	return append(written, riskPath), nil
}

// RiskPath derives the risk-measure file name from a density file name
func RiskPath(densityPath string) string {
	ext := filepath.Ext(densityPath)
	return strings.TrimSuffix(densityPath, ext) + "_risk" + ext
}
