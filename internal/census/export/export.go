// Package export writes the institution detail table as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/xuri/excelize/v2"
)

const SheetName = "IES"

var Headers = []string{
	"Ano do Censo",
	"Município",
	"Nome da IES",
	"Sigla da IES",
	"Organização Acadêmica",
	"Tipo de Rede",
	"Categoria Administrativa",
	"Total de Docentes",
	"Total de Técnicos",
}

var columnWidths = []float64{12, 22, 48, 14, 36, 14, 30, 18, 18}

// DetailXLSX writes rows to w as a single-sheet workbook with a header row.
func DetailXLSX(w io.Writer, rows []types.DetailRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2C5E8A"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, columnWidths[i]); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for r, row := range rows {
		values := []interface{}{
			row.CensusYear,
			row.Municipality,
			row.Name,
			row.Acronym,
			row.Organization,
			row.Network,
			row.Category,
			row.FacultyTotal,
			row.TechnicalTotal,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
