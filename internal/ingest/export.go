package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/waliamehak/staff-attendance-portal/internal/models"
)

const exportSheet = "Sheet1"

var exportHeader = []any{"No", "Name", "Attend (Req/Act)", "AB"}

// WriteWorkbook writes doc as an .xlsx laid out the way uploads are read,
// so an exported month can be uploaded again unchanged.
func WriteWorkbook(w io.Writer, doc *models.AttendanceMonth) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range doc.Records {
		serial := any(i + 1)
		if rec.SerialNo != nil {
			serial = *rec.SerialNo
		}
		row := []any{serial, rec.Name, fmt.Sprintf("%d/%d", rec.RequiredDays, rec.AttendedDays), rec.AbsentDays}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "B", "B", 28); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportFileName is the download name for a month's workbook.
func ExportFileName(month string) string {
	return fmt.Sprintf("attendance-%s.xlsx", month)
}
