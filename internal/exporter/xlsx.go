package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX report
const (
	SheetDensity    = "Density"
	SheetRisk       = "Risk"
	SheetParameters = "Parameters"
)

// XLSXWriter writes reports as Excel workbooks
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new XLSX writer instance
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// WriteReport writes a workbook with a density sheet, a parameter sheet and,
// when measures are present, a risk sheet.
func (w *XLSXWriter) WriteReport(filePath string, report *Report) error {
	w.logger.Info("Writing XLSX file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(report.Elements)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.Warn("Failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetDensity); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeDensitySheet(f, report); err != nil {
		return err
	}

	if err := writeSheet(f, SheetParameters, parameterHeader, report.parameterRecords()); err != nil {
		return err
	}

	if report.Measures != nil {
		if err := writeSheet(f, SheetRisk, measureHeaders, report.measureRecords()); err != nil {
			return err
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeDensitySheet stores numbers as numbers so the sheet can be charted.
// Non-finite values are left blank.
func writeDensitySheet(f *excelize.File, report *Report) error {
	if err := f.SetSheetRow(SheetDensity, "A1", &[]interface{}{densityHeaders[0], densityHeaders[1]}); err != nil {
		return fmt.Errorf("write density header: %w", err)
	}

	for i, e := range report.Elements {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetDensity, cell, &[]interface{}{cellValue(e.AtPoint), cellValue(e.Density)}); err != nil {
			return fmt.Errorf("write density row %d: %w", i, err)
		}
	}
	return nil
}

func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func writeSheet(f *excelize.File, sheet string, headers []string, records [][]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	rows := append([][]string{headers}, records...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}
	return nil
}
