package ingest

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/waliamehak/staff-attendance-portal/internal/models"
)

// Columns maps the logical attendance fields to spreadsheet columns.
// Serial and Absent are -1 when the sheet has no such column.
type Columns struct {
	Name   int
	Attend int
	Serial int
	Absent int
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// RowTally is the outcome of running the pipeline over a sheet.
type RowTally struct {
	Records   []models.AttendanceRecord
	Processed int
	Skipped   []SkippedRow
}

// ProcessRows turns data rows into attendance records. A row that cannot be
// used is skipped and recorded; it never stops the remaining rows.
func ProcessRows(rows []Row, cols Columns, logger *slog.Logger) RowTally {
	if logger == nil {
		logger = slog.Default()
	}

	var tally RowTally
	for _, row := range rows {
		if row.Blank() {
			continue
		}
		rec, reason := processRow(row, cols, logger)
		if reason != "" {
			logger.Debug("attendance row skipped", "row", row.Number, "reason", reason)
			tally.Skipped = append(tally.Skipped, SkippedRow{Row: row.Number, Reason: reason})
			continue
		}
		tally.Records = append(tally.Records, rec)
		tally.Processed++
	}
	return tally
}

func processRow(row Row, cols Columns, logger *slog.Logger) (rec models.AttendanceRecord, reason string) {
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("recovered while processing attendance row", "row", row.Number, "panic", p)
			rec, reason = models.AttendanceRecord{}, fmt.Sprintf("unreadable row: %v", p)
		}
	}()

	name := CellValue(row.At(cols.Name))
	attend := CellValue(row.At(cols.Attend))
	if name == "" {
		return rec, "missing name"
	}
	if attend == "" {
		return rec, "missing attendance"
	}

	absent := "0"
	if cols.Absent >= 0 {
		absent = CellValue(row.At(cols.Absent))
	}

	days := ParseDays(attend, absent)
	rec = models.AttendanceRecord{
		Name:         name,
		RequiredDays: days.Required,
		AttendedDays: days.Attended,
		AbsentDays:   days.Absent,
	}
	if cols.Serial >= 0 {
		rec.SerialNo = parseSerial(CellValue(row.At(cols.Serial)))
	}

	if !rec.Retained() {
		return models.AttendanceRecord{}, fmt.Sprintf("no attendance days in %q", attend)
	}
	return rec, ""
}

func parseSerial(text string) *int {
	if text == "" {
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil || f != float64(int(f)) {
			return nil
		}
		n = int(f)
	}
	if n <= 0 {
		return nil
	}
	return &n
}
