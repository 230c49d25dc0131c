package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
	CellFormula
)

// Cell is one decoded spreadsheet cell. Value is the raw stored value, not
// the text a number format would render; for formula cells it is the
// cached result the workbook was saved with.
type Cell struct {
	Kind  CellKind
	Value string
}

// CellValue returns the trimmed value of c. Numbers are written in their
// shortest decimal form and booleans as TRUE or FALSE. It never fails; a
// nil or empty cell yields "".
func CellValue(c *Cell) string {
	if c == nil {
		return ""
	}
	v := strings.TrimSpace(c.Value)
	switch c.Kind {
	case CellEmpty:
		return ""
	case CellNumber:
		return numberText(v)
	case CellBool:
		switch v {
		case "1":
			return "TRUE"
		case "0":
			return "FALSE"
		}
		return strings.ToUpper(v)
	default:
		return v
	}
}

func numberText(v string) string {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Row is the decoded content of one spreadsheet row. Number is 1-based as
// shown in the spreadsheet application.
type Row struct {
	Number int
	Cells  []Cell
}

// At returns the cell in column col, or nil when the row is shorter.
func (r Row) At(col int) *Cell {
	if col < 0 || col >= len(r.Cells) {
		return nil
	}
	return &r.Cells[col]
}

// Blank reports whether every cell in the row is empty.
func (r Row) Blank() bool {
	for i := range r.Cells {
		if CellValue(&r.Cells[i]) != "" {
			return false
		}
	}
	return true
}

// Texts returns the display value of every cell in the row.
func (r Row) Texts() []string {
	out := make([]string, len(r.Cells))
	for i := range r.Cells {
		out[i] = CellValue(&r.Cells[i])
	}
	return out
}

// readSheet decodes every row of sheet from stored values. Number formats
// are not applied and formulas are not recalculated.
func readSheet(f *excelize.File, sheet string) ([]Row, error) {
	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheet, err)
	}

	rows := make([]Row, 0, len(grid))
	for r, values := range grid {
		row := Row{Number: r + 1, Cells: make([]Cell, len(values))}
		for c, value := range values {
			row.Cells[c] = Cell{Kind: cellKind(f, sheet, c+1, r+1, value), Value: value}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cellKind(f *excelize.File, sheet string, col, row int, value string) CellKind {
	if strings.TrimSpace(value) == "" {
		return CellEmpty
	}
	addr, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return CellText
	}
	typ, err := f.GetCellType(sheet, addr)
	if err != nil {
		return CellText
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeDate:
		return CellNumber
	case excelize.CellTypeUnset:
		// numbers and numeric formula results carry no type attribute
		return CellNumber
	case excelize.CellTypeBool:
		return CellBool
	case excelize.CellTypeFormula:
		return CellFormula
	default:
		return CellText
	}
}
