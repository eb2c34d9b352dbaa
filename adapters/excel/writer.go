// Package excel exports sweep results to xlsx workbooks: a flat row sheet for
// tabular consumers and a 2-D power grid sheet ready for heatmapping.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gopower/domain/design"
	"gopower/ports"
)

const (
	rowsSheet = "Rows"
	gridSheet = "Power Grid"
)

// Writer exports sweep results with excelize.
type Writer struct{}

// NewWriter creates an xlsx exporter.
func NewWriter() *Writer {
	return &Writer{}
}

var _ ports.TableExporter = (*Writer)(nil)

// Export writes the result table to path.
func (w *Writer) Export(result *design.SweepResult, path string) error {
	f := excelize.NewFile()

	if err := w.writeRows(f, result); err != nil {
		return err
	}
	if err := w.writePivot(f, result); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on the data.
	if idx, err := f.GetSheetIndex(rowsSheet); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *Writer) writeRows(f *excelize.File, result *design.SweepResult) error {
	if _, err := f.NewSheet(rowsSheet); err != nil {
		return fmt.Errorf("failed to create row sheet: %w", err)
	}

	grid := result.Manifest.Grid
	headers := []string{
		grid.InterceptMeans.Label, grid.SlopeMeans.Label,
		"metric", "replicates", "missing",
		"evidence_mean", "evidence_median", "evidence_q1", "evidence_q3",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(rowsSheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range result.Table.Rows {
		values := []interface{}{
			row.Point.InterceptMean,
			row.Point.SlopeMean,
			metricCell(row.Metric),
			row.Replicates,
			row.MissingCount,
		}
		if row.Evidence.Defined {
			values = append(values, row.Evidence.Mean, row.Evidence.Median, row.Evidence.Q1, row.Evidence.Q3)
		} else {
			values = append(values, "undefined", "undefined", "undefined", "undefined")
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(rowsSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// writePivot lays the metric out as a 2-D grid: intercept means down the
// rows, slope means across the columns, in enumeration order.
func (w *Writer) writePivot(f *excelize.File, result *design.SweepResult) error {
	if _, err := f.NewSheet(gridSheet); err != nil {
		return fmt.Errorf("failed to create grid sheet: %w", err)
	}

	grid := result.Manifest.Grid
	outer := grid.InterceptMeans.Values
	inner := grid.SlopeMeans.Values

	corner, _ := excelize.CoordinatesToCellName(1, 1)
	label := fmt.Sprintf("%s \\ %s", grid.InterceptMeans.Label, grid.SlopeMeans.Label)
	if err := f.SetCellValue(gridSheet, corner, label); err != nil {
		return err
	}
	for c, b := range inner {
		cell, _ := excelize.CoordinatesToCellName(c+2, 1)
		if err := f.SetCellValue(gridSheet, cell, b); err != nil {
			return err
		}
	}

	for r, a := range outer {
		head, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetCellValue(gridSheet, head, a); err != nil {
			return err
		}
		for c := range inner {
			row := result.Table.Rows[r*len(inner)+c]
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			if err := f.SetCellValue(gridSheet, cell, metricCell(row.Metric)); err != nil {
				return err
			}
		}
	}
	return nil
}

func metricCell(m design.Metric) interface{} {
	if !m.Defined {
		return "undefined"
	}
	return m.Value
}
