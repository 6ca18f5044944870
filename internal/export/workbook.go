// Package export writes categorized transactions to an XLSX workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	TransactionsSheet = "Transacciones"
	SummarySheet      = "Resumen"
)

var (
	transactionHeaders = []string{"Fecha", "Concepto", "Importe", "Categoría"}
	summaryHeaders     = []string{"Categoría", "Transacciones", "Importe total"}
)

// Workbook builds XLSX files from stored rows.
type Workbook struct{}

// NewWorkbook returns a workbook exporter.
func NewWorkbook() *Workbook {
	return &Workbook{}
}

// ExportFile writes txs and their per-category distribution to path.
func (w *Workbook) ExportFile(path string, txs []domain.Transaction, dist []domain.CategoryCount) error {
	f, err := Build(txs, dist)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ExportFile: create directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("ExportFile: save %q: %w", path, err)
	}
	return nil
}

// Build lays out the two sheets in memory.
func Build(txs []domain.Transaction, dist []domain.CategoryCount) (*excelize.File, error) {
	f := excelize.NewFile()

	// NewFile starts with "Sheet1"; rename it instead of adding a new one.
	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return nil, fmt.Errorf("Build: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("Build: add sheet: %w", err)
	}

	writeHeaders(f, TransactionsSheet, transactionHeaders)
	totals := make(map[domain.Category]decimal.Decimal)
	row := 2
	for _, tx := range txs {
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(TransactionsSheet, cell, v)
		}
		write(1, tx.DateString())
		write(2, tx.Description)
		write(3, tx.Amount.InexactFloat64())
		write(4, string(tx.Category))
		row++
	}

	writeHeaders(f, SummarySheet, summaryHeaders)
	for i, c := range dist {
		r := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(SummarySheet, cell, v)
		}
		write(1, string(c.Category))
		write(2, c.Count)
		write(3, totals[c.Category].Round(2).InexactFloat64())
	}

	if style, err := f.NewStyle(&excelize.Style{NumFmt: 4}); err == nil {
		_ = f.SetColStyle(TransactionsSheet, "C", style)
		_ = f.SetColStyle(SummarySheet, "C", style)
	}

	// Widen a few columns
	_ = f.SetColWidth(TransactionsSheet, "A", "A", 12) // fecha
	_ = f.SetColWidth(TransactionsSheet, "B", "B", 44) // concepto
	_ = f.SetColWidth(TransactionsSheet, "D", "D", 16) // categoría
	_ = f.SetColWidth(SummarySheet, "A", "C", 16)

	if idx, err := f.GetSheetIndex(TransactionsSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}
