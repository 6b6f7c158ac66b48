package batch

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, cells map[string]string) string {
	t.Helper()
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheet)
	if err != nil {
		t.Fatal(err)
	}
	f.SetActiveSheet(idx)
	for cell, val := range cells {
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "cocktails.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadNames(t *testing.T) {
	path := writeWorkbook(t, DefaultSheet, map[string]string{
		"A1": "Name",
		"A2": "Mojito",
		"A3": "  Old Fashioned  ",
		"A4": "",
		"A5": "Negroni",
	})
	names, err := ReadNames(path, "", "", 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"Mojito", "Old Fashioned", "Negroni"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("row %d: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestReadNames_ColumnLookupIsCaseInsensitive(t *testing.T) {
	path := writeWorkbook(t, "Drinks", map[string]string{
		"A1": "Notes", "B1": "name",
		"A2": "classic", "B2": "Daiquiri",
	})
	names, err := ReadNames(path, "Drinks", "Name", 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(names) != 1 || names[0] != "Daiquiri" {
		t.Fatalf("got %v", names)
	}
}

func TestReadNames_MaxRowsCap(t *testing.T) {
	path := writeWorkbook(t, DefaultSheet, map[string]string{
		"A1": "Name", "A2": "One", "A3": "Two", "A4": "Three",
	})
	names, err := ReadNames(path, "", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Fatalf("cap not applied: %v", names)
	}
}

func TestReadNames_MissingColumn(t *testing.T) {
	path := writeWorkbook(t, DefaultSheet, map[string]string{"A1": "Other"})
	if _, err := ReadNames(path, "", "", 0); err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestReadNames_MissingFile(t *testing.T) {
	if _, err := ReadNames(filepath.Join(t.TempDir(), "nope.xlsx"), "", "", 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}
