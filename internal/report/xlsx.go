// Package report renders purchases to a downloadable spreadsheet.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/dremassist/obrabot/internal/domain"
)

const sheetName = "Compras"

var header = []any{
	"Material", "Quantidade", "Valor Unitário", "Valor Total",
	"Data", "Categoria", "Local", "Anexos",
}

// XLSXExporter writes purchase spreadsheets into a scratch directory. The
// caller sends the file and removes it afterwards.
type XLSXExporter struct {
	dir string
}

func NewXLSXExporter(dir string) *XLSXExporter {
	return &XLSXExporter{dir: dir}
}

// Write renders the purchases and returns the path of the temporary file.
func (e *XLSXExporter) Write(purchases []domain.Purchase) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, p := range purchases {
		row := []any{
			p.Material,
			decimalCell(p.Quantidade),
			decimalCell(p.ValorUnitario),
			decimalCell(p.ValorTotal),
			p.Data,
			p.Categoria,
			p.Local,
			strings.Join(p.Anexos, ", "),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.dir, fmt.Sprintf("compras_%s.xlsx", uuid.NewString()))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save spreadsheet: %w", err)
	}
	return path, nil
}

func decimalCell(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}
