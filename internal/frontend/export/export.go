// Package export writes the company list as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/xuri/excelize/v2"
)

// SheetName is the only sheet of the workbook.
const SheetName = "Companies"

// Header is the first row of the sheet.
var Header = []interface{}{"ID", "Name", "Industry", "Location", "Employees", "Logo URL"}

// WriteXLSX writes one row per company under Header. Empty cells stand for
// unset fields.
func WriteXLSX(w io.Writer, companies []contracts.CompanyListItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range companies {
		row := []interface{}{
			c.ID.String(),
			c.Name,
			deref(c.Industry),
			deref(c.Location),
			nil,
			deref(c.LogoURL),
		}
		if c.Employees != nil {
			row[4] = *c.Employees
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", lastCol, 20); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
