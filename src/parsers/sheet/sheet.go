// Package sheet exposes an Office Open XML worksheet as a rectangular grid
// of typed cells, the form the vendor parsers consume.
package sheet

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/username/altpipe/src/models"
)

// DefaultSheetName is the worksheet vendor exports are read from.
const DefaultSheetName = "Sheet1"

// Kind tags the cell variant.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindBool
)

// Cell is one typed worksheet cell. The accessors return ok=false on a type
// mismatch; callers apply their own defaulting policy against that.
type Cell struct {
	kind Kind
	raw  string
	num  float64
	b    bool
}

func Empty() Cell        { return Cell{kind: KindEmpty} }
func Text(s string) Cell { return Cell{kind: KindText, raw: s} }
func Bool(v bool) Cell   { return Cell{kind: KindBool, raw: strconv.FormatBool(v), b: v} }

func Number(f float64) Cell {
	return Cell{kind: KindNumber, raw: strconv.FormatFloat(f, 'f', -1, 64), num: f}
}

// Kind returns the cell's variant tag.
func (c Cell) Kind() Kind { return c.kind }

// String returns the cell text if the cell holds text.
func (c Cell) String() (string, bool) {
	if c.kind != KindText {
		return "", false
	}
	return c.raw, true
}

// Float returns the numeric value if the cell holds a number.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Raw returns the cell's string form regardless of kind; empty cells yield
// "". Date columns are parsed from this form.
func (c Cell) Raw() string { return c.raw }

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Grid is a width-uniform cell rectangle. Row 0 holds the vendor's headers;
// rows 1..N hold data.
type Grid struct {
	rows  [][]Cell
	width int
}

// NewGrid validates width uniformity and wraps the rows. A grid whose rows
// disagree on cell count cannot be normalized.
func NewGrid(rows [][]Cell) (*Grid, error) {
	if len(rows) == 0 {
		return &Grid{}, nil
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("%w: ragged rows (row %d has %d cells, expected %d)",
				models.ErrSchema, i, len(r), width)
		}
	}
	return &Grid{rows: rows, width: width}, nil
}

// Rows returns the full grid including the header row.
func (g *Grid) Rows() [][]Cell { return g.rows }

// RowCount is the number of rows including the header.
func (g *Grid) RowCount() int { return len(g.rows) }

// Width is the uniform cell count per row.
func (g *Grid) Width() int { return g.width }

// CellCount is the total cell count of the rectangle.
func (g *Grid) CellCount() int { return len(g.rows) * g.width }

// NonEmptyCount counts cells holding a value.
func (g *Grid) NonEmptyCount() int {
	n := 0
	for _, r := range g.rows {
		for _, c := range r {
			if !c.IsEmpty() {
				n++
			}
		}
	}
	return n
}

// Open reads the workbook at path and returns the grid of its
// DefaultSheetName worksheet.
func Open(path string) (*Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	raw, err := f.GetRows(DefaultSheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q from %s: %w", DefaultSheetName, path, err)
	}

	// The xlsx format does not store trailing empty cells, so GetRows returns
	// rows of varying lengths. Pad to the widest row; the blanks default like
	// any other empty cell.
	width := 0
	for _, r := range raw {
		if len(r) > width {
			width = len(r)
		}
	}

	rows := make([][]Cell, len(raw))
	for i, r := range raw {
		cells := make([]Cell, width)
		for j := range cells {
			if j < len(r) {
				cells[j] = typedCell(f, i, j, r[j])
			} else {
				cells[j] = Empty()
			}
		}
		rows[i] = cells
	}
	return NewGrid(rows)
}

// typedCell classifies one raw cell value using the workbook's cell type.
// Numbers come back from excelize untyped (no t attribute), so anything not
// marked as a string or boolean that parses as a float is a number.
func typedCell(f *excelize.File, row, col int, raw string) Cell {
	if raw == "" {
		return Empty()
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Text(raw)
	}
	ct, err := f.GetCellType(DefaultSheetName, axis)
	if err != nil {
		return Text(raw)
	}
	switch ct {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return Text(raw)
	case excelize.CellTypeBool:
		return Bool(raw == "1" || raw == "TRUE")
	default:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return Number(v)
		}
		return Text(raw)
	}
}
