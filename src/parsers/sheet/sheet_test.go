package sheet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/username/altpipe/src/models"
)

func TestNewGrid_RaggedRows(t *testing.T) {
	_, err := NewGrid([][]Cell{
		{Text("a"), Text("b")},
		{Text("x")},
	})
	if err == nil {
		t.Fatal("expected ragged rows error, got nil")
	}
	if !errors.Is(err, models.ErrSchema) {
		t.Errorf("expected ErrSchema, got %v", err)
	}
}

func TestGrid_Counts(t *testing.T) {
	g, err := NewGrid([][]Cell{
		{Text("a"), Text("b"), Empty()},
		{Number(1), Empty(), Empty()},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2", g.RowCount())
	}
	if g.Width() != 3 {
		t.Errorf("Width = %d, want 3", g.Width())
	}
	if g.CellCount() != 6 {
		t.Errorf("CellCount = %d, want 6", g.CellCount())
	}
	if g.NonEmptyCount() != 3 {
		t.Errorf("NonEmptyCount = %d, want 3", g.NonEmptyCount())
	}
}

func TestCell_Accessors(t *testing.T) {
	if s, ok := Text("BUY").String(); !ok || s != "BUY" {
		t.Errorf("Text String() = %q, %v", s, ok)
	}
	if _, ok := Text("BUY").Float(); ok {
		t.Error("Text cell should not read as float")
	}
	if f, ok := Number(42.5).Float(); !ok || f != 42.5 {
		t.Errorf("Number Float() = %v, %v", f, ok)
	}
	if _, ok := Number(42.5).String(); ok {
		t.Error("Number cell should not read as string")
	}
	if _, ok := Empty().String(); ok {
		t.Error("Empty cell should not read as string")
	}
	if _, ok := Empty().Float(); ok {
		t.Error("Empty cell should not read as float")
	}
	if Number(43800).Raw() != "43800" {
		t.Errorf("Number Raw() = %q, want \"43800\"", Number(43800).Raw())
	}
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(DefaultSheetName, axis, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen_TypedCells(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"ticker", "price"},
		{"ABC", 101.25},
	})

	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if g.RowCount() != 2 || g.Width() != 2 {
		t.Fatalf("grid shape = %dx%d, want 2x2", g.RowCount(), g.Width())
	}

	rows := g.Rows()
	if s, ok := rows[1][0].String(); !ok || s != "ABC" {
		t.Errorf("data cell (1,0) = %q, %v; want text ABC", s, ok)
	}
	if f, ok := rows[1][1].Float(); !ok || f != 101.25 {
		t.Errorf("data cell (1,1) = %v, %v; want number 101.25", f, ok)
	}
	if _, ok := rows[1][1].String(); ok {
		t.Error("numeric cell must not read as string")
	}
}

func TestOpen_TrailingBlankCells(t *testing.T) {
	// xlsx files store nothing for trailing empty cells, so the underlying
	// reader hands back short rows. Open must square them off rather than
	// reject the file.
	path := writeWorkbook(t, [][]interface{}{
		{"ticker", "trader"},
		{"ABC", "Ann"},
		{"XYZ", nil},
	})

	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if g.RowCount() != 3 || g.Width() != 2 {
		t.Fatalf("grid shape = %dx%d, want 3x2", g.RowCount(), g.Width())
	}
	if !g.Rows()[2][1].IsEmpty() {
		t.Errorf("trailing blank cell = %+v, want empty", g.Rows()[2][1])
	}
	if s, ok := g.Rows()[1][1].String(); !ok || s != "Ann" {
		t.Errorf("populated cell (1,1) = %q, %v; want text Ann", s, ok)
	}
}

func TestOpen_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	idx, err := f.NewSheet("Other")
	if err != nil {
		t.Fatal(err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet(DefaultSheetName); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "nosheet.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := Open(path); err == nil {
		t.Error("expected error for workbook without Sheet1, got nil")
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Error("expected error for missing workbook, got nil")
	}
}
